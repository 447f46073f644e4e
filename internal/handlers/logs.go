package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pivovar/internal/service"
)

// Accepted query time formats, tried in order.
var queryTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

var errBadQueryTime = errors.New("use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'")

// @Summary      Event history
// @Description  Discovery, poll and reorder events, oldest first. A date-only 'to' includes that whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Lower bound"  example(2025-08-01)
// @Param        to    query   string  false  "Upper bound"  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(DISCOVERY,DISCOVERY_ERROR,POLL_ERROR,POLL_RECOVERED,REORDER)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	filter, err := logFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
	case errors.Is(err, service.ErrInvalidTimeRange), errors.Is(err, service.ErrUnknownEventType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load events", "events_list_failed", err,
			"from", filter.From, "to", filter.To, "type", filter.Type)
	}
}

func logFilterFromQuery(c *gin.Context) (service.LogFilter, error) {
	f := service.LogFilter{Type: c.Query("type")}

	if s := strings.TrimSpace(c.Query("from")); s != "" {
		t, _, err := parseQueryTime(s)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = t
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		t, dateOnly, err := parseQueryTime(s)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	return f, nil
}

// parseQueryTime also reports whether s carried no time of day.
func parseQueryTime(s string) (time.Time, bool, error) {
	for i, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), i == len(queryTimeLayouts)-1, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w, got %q", errBadQueryTime, s)
}
