package repository

import (
	"context"
	"database/sql"
	"time"

	"pivovar/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// PhaseRepo keeps the operator's phase order per wash machine so it
// survives restarts of the dashboard.
type PhaseRepo interface {
	Save(ctx context.Context, name string, phases []string) error
	Load(ctx context.Context, name string) ([]string, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error)
}

type Repository struct {
	PhaseRepo PhaseRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		PhaseRepo: NewPhaseSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
