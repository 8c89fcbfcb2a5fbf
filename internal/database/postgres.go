package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arsalan-d/MomentumBack/internal/config"
)

var DB *pgxpool.Pool

// ConnectDB opens the shared pool, sized from config so chat-heavy
// deployments can raise the connection ceiling without a rebuild.
func ConnectDB(cfg *config.Config) error {
	poolCfg, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("unable to parse database config: %v", err)
	}

	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	DB, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := DB.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %v", err)
	}

	log.Printf("Connected to PostgreSQL (pool %d-%d)", cfg.DBMinConns, cfg.DBMaxConns)
	return nil
}

func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}
