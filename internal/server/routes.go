package server

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/keyper-app/keyper/internal/access"
	v1 "github.com/keyper-app/keyper/internal/api/v1"
	"github.com/keyper-app/keyper/internal/auth"
	"github.com/keyper-app/keyper/internal/lease"
	"github.com/keyper-app/keyper/internal/store/postgres"
	redisstore "github.com/keyper-app/keyper/internal/store/redis"
)

func registerAuthRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, store, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, registry *access.Registry, governor *lease.Orchestrator, cache *redisstore.Cache) {
	v1.RegisterLeaseRoutes(api, store, registry, governor, cache)
	v1.RegisterPropertyRoutes(api, store, registry)
	v1.RegisterTenantRoutes(api, store, registry)
}
