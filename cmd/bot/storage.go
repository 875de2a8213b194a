package main

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/VillagerBot/internal/unban"
	"github.com/PancyStudios/VillagerBot/internal/warns"
	"github.com/PancyStudios/VillagerBot/pkg/config"
	"github.com/PancyStudios/VillagerBot/pkg/database"
	"github.com/PancyStudios/VillagerBot/pkg/database/boltstore"
	"github.com/PancyStudios/VillagerBot/pkg/database/memstore"
	"github.com/PancyStudios/VillagerBot/pkg/database/sqlstore"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
)

// storage bundles the backends selected by warnBackend
type storage struct {
	name   string
	warns  warns.Backend
	unbans unban.Store
	status func() (string, bool)
	close  func() error
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.WarnBackend {
	case config.BackendMemory:
		logger.Warn("Usando almacenamiento en memoria: las advertencias se perderán al reiniciar", "Storage")
		return &storage{
			name:   "memoria",
			warns:  memstore.NewWarnStore(),
			unbans: memstore.NewUnbanStore(),
			status: func() (string, bool) { return "🟡 | Memoria", true },
			close:  func() error { return nil },
		}, nil

	case config.BackendBolt:
		store, err := boltstore.Open(boltstore.Options{Path: cfg.BoltPath})
		if err != nil {
			return nil, fmt.Errorf("bolt: %w", err)
		}
		return &storage{
			name:   "bolt",
			warns:  store.WarnStore(),
			unbans: store.UnbanStore(),
			status: func() (string, bool) { return "🟢 | BoltDB", true },
			close:  store.Close,
		}, nil

	case config.BackendSQLite:
		store, err := sqlstore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return &storage{
			name:   "sqlite",
			warns:  store.WarnStore(),
			unbans: store.UnbanStore(),
			status: func() (string, bool) {
				pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := store.DB().PingContext(pingCtx); err != nil {
					return "🔴 | SQLite", false
				}
				return "🟢 | SQLite", true
			},
			close: store.Close,
		}, nil

	default:
		db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			// the connection keeps retrying in the background
			logger.Error(fmt.Sprintf("Error conectando a MongoDB: %v", err), "Storage")
		}
		warnStore := database.NewWarnStore(db)
		if err == nil {
			if err := warnStore.EnsureIndexes(ctx); err != nil {
				logger.Warn(fmt.Sprintf("No se pudieron crear los índices de advertencias: %v", err), "Storage")
			}
		}
		return &storage{
			name:   "mongo",
			warns:  warnStore,
			unbans: database.NewUnbanStore(db),
			status: db.GetStatus,
			close:  db.Disconnect,
		}, nil
	}
}
