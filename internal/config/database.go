package config

import "time"

// DatabaseConfig holds the Postgres settings. Pool limits are exposed so
// deployments can size the pool against their connection budget.
type DatabaseConfig struct {
	URL             string
	MigrationsPath  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
