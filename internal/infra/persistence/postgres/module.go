package postgres

import "go.uber.org/fx"

// Module provides the PostgreSQL storage driver: the connection, repositories and transaction manager.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		New,
		NewUserRepository,
		NewRefreshTokenRepository,
		NewPostRepository,
		NewMediaRepository,
		NewTransactionManager,
	),
)
