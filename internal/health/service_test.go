package health

import (
	"context"
	"errors"
	"testing"
)

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		ok     bool
		dbName string
	}{
		{name: "memory", db: nil, ok: true, dbName: "memory"},
		{name: "postgres up", db: pingFunc(func(context.Context) error { return nil }), ok: true, dbName: "postgres"},
		{name: "postgres down", db: pingFunc(func(context.Context) error { return errors.New("refused") }), ok: false, dbName: "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{DB: tt.db, LLMProvider: "none"}
			got := svc.Check(context.Background())
			if got.OK != tt.ok || got.Database != tt.dbName || got.LLMProvider != "none" {
				t.Fatalf("unexpected status %+v", got)
			}
		})
	}
}
