package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports liveness and the backing components in use.
type Service struct {
	DB          Pinger // nil when running on in-memory repositories
	LLMProvider string
	ObjectStore string
	Events      string
	Timeout     time.Duration
}

// Status is the /health payload.
type Status struct {
	OK          bool   `json:"ok"`
	Database    string `json:"database"`
	LLMProvider string `json:"llmProvider"`
	ObjectStore string `json:"objectStore"`
	Events      string `json:"events"`
}

// Check pings the database when one is configured. A failed ping marks the
// service unhealthy; the other fields are informational.
func (s *Service) Check(ctx context.Context) Status {
	st := Status{
		OK:          true,
		Database:    "memory",
		LLMProvider: s.LLMProvider,
		ObjectStore: s.ObjectStore,
		Events:      s.Events,
	}
	if s.DB == nil {
		return st
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "unreachable"
		return st
	}
	st.Database = "postgres"
	return st
}
