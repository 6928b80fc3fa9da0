package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. db may be nil when the
// API runs against the in-memory repository.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports overall health plus the state of attached backends.
func (s *Service) Status(ctx context.Context) map[string]any {
	payload := map[string]any{"ok": true}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			payload["ok"] = false
			payload["database"] = "unreachable"
		} else {
			payload["database"] = "ok"
		}
	}
	return payload
}
