// Package repository selects the persistence driver configured for the server.
package repository

import (
	"context"
	"fmt"
	"io"

	"github.com/dtroode/ipgeo-server/internal/config"
	"github.com/dtroode/ipgeo-server/internal/model"
	"github.com/dtroode/ipgeo-server/internal/repository/file"
	"github.com/dtroode/ipgeo-server/internal/repository/memory"
	"github.com/dtroode/ipgeo-server/internal/repository/postgres"
	"github.com/dtroode/ipgeo-server/internal/repository/sqlite"
)

// Stores bundles the user and history stores of one driver.
type Stores struct {
	Users   model.UserStore
	History model.HistoryStore
	io.Closer
}

// Open connects the driver named in cfg.
func Open(ctx context.Context, cfg config.Store) (*Stores, error) {
	switch cfg.Driver {
	case "memory":
		s, err := memory.New()
		if err != nil {
			return nil, err
		}
		return &Stores{Users: s, History: s, Closer: s}, nil

	case "file":
		s, err := file.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return &Stores{Users: s, History: s, Closer: s}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Users:   sqlite.NewUserRepository(db),
			History: sqlite.NewHistoryRepository(db),
			Closer:  db,
		}, nil

	case "postgres":
		conn, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Users:   postgres.NewUserRepository(conn),
			History: postgres.NewHistoryRepository(conn),
			Closer:  conn,
		}, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
}
