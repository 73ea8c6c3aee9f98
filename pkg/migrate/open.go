package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// registers the "postgres" database/sql driver
	_ "github.com/lib/pq"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const openTimeout = 10 * time.Second

// Open returns a handle for the migration runner and a func that releases it.
// Postgres is opened through lib/pq so schema changes do not share the API's
// gorm pool; sqlite reuses the gorm client because the file must be opened by
// the same driver the catalog uses.
func Open(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*sql.DB, func() error, error) {
	if cfg.DSN == "" {
		return nil, nil, fmt.Errorf("database DSN is required")
	}

	if cfg.IsSQLite() {
		client, err := db.New(ctx, cfg, logg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := client.SQL()
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return sqlDB, client.Close, nil
	}

	sqlDB, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	return sqlDB, sqlDB.Close, nil
}
