package postgres_test

import (
	v1 "github.com/keyper-app/keyper/internal/api/v1"
	"github.com/keyper-app/keyper/internal/lease"
	"github.com/keyper-app/keyper/internal/store/postgres"
)

// Wiring contracts for cmd/keyper: the store backs the API handlers and
// the concrete user repo backs the orchestrator's display-name lookup.
var (
	_ v1.DataStore        = (*postgres.Store)(nil)
	_ lease.ProfileLookup = (*postgres.UserRepo)(nil)
)
