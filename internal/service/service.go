package service

import (
	"context"
	"time"

	"pivovar/internal/logger"
	"pivovar/internal/metrics"
	"pivovar/internal/models"
	"pivovar/internal/repository"
	"pivovar/internal/store"
)

// WashClient is the upstream wash machine HTTP service.
type WashClient interface {
	WashMachine(ctx context.Context) (models.WashMachine, error)
	TempLog(ctx context.Context, name string) (models.TempLog, error)
}

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Discovery performs the one-off initial fetch of the wash machine.
type Discovery interface {
	Discover(ctx context.Context) error
}

// Poller refreshes the temperature log of every known device.
// Stop via context cancellation in main() for graceful shutdown.
type Poller interface {
	Run(ctx context.Context, interval time.Duration)
	Tick(ctx context.Context)
}

// Phases changes the operator's phase order of a device.
type Phases interface {
	Reorder(ctx context.Context, name string, phases []string) (models.WashMachine, error)
}

// Monitoring exposes read-only device state.
type Monitoring interface {
	WashMachines(ctx context.Context) []models.WashMachine
	WashMachine(ctx context.Context, name string) (models.WashMachine, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
}

type Service struct {
	Discovery
	Poller
	Phases
	Monitoring
	EventLog
	Authorization
}

// Deps collects what the services need besides the repositories.
type Deps struct {
	Store       *store.Store
	Client      WashClient
	Metrics     metrics.Recorder
	Log         *logger.Logger
	Auth        AuthConfig
	PollTimeout time.Duration
}

func NewService(repos *repository.Repository, d Deps) *Service {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Service{
		Discovery:     NewDiscoveryService(d.Store, d.Client, repos.PhaseRepo, repos.EventRepo, d.Metrics, d.Log),
		Poller:        NewPollerService(d.Store, d.Client, repos.EventRepo, d.Metrics, d.Log, d.PollTimeout),
		Phases:        NewPhaseService(d.Store, repos.PhaseRepo, repos.EventRepo, d.Log),
		Monitoring:    NewMonitoringService(d.Store),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, d.Auth),
	}
}
