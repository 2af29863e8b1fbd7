package memory

import "go.uber.org/fx"

// Module provides the in-memory storage driver with the same repository contracts as PostgreSQL.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewStore,
		NewUserRepository,
		NewRefreshTokenRepository,
		NewPostRepository,
		NewMediaRepository,
		NewTransactionManager,
	),
)
