package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AnshRaj112/journal-backend/internal/config"
	"github.com/AnshRaj112/journal-backend/internal/database"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/AnshRaj112/journal-backend/internal/repository/memory"
	mongorepo "github.com/AnshRaj112/journal-backend/internal/repository/mongo"
	"github.com/AnshRaj112/journal-backend/internal/repository/postgres"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// stores bundles the repositories and connections a command needs
type stores struct {
	Entries    repository.EntryRepository
	Users      repository.UserRepository
	SiteConfig repository.SiteConfigRepository
	ResetLog   repository.PasswordResetRepository
	Redis      *redis.Client
	pg         *sql.DB
	mongo      *mongo.Database
}

// openStores connects the backing stores selected by ENTRY_STORE. The memory
// store keeps everything in process and skips PostgreSQL entirely; the mongo
// store keeps entries in MongoDB and everything else in PostgreSQL.
func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	s := &stores{}

	if cfg.EntryStore == config.EntryStoreMemory {
		log.Warn("Using in-memory stores; data is lost on restart")
		s.Entries = memory.NewEntryRepository()
		s.Users = memory.NewUserRepository()
		s.SiteConfig = memory.NewSiteConfigRepository()
		s.ResetLog = memory.NewPasswordResetRepository()
	} else {
		log.Info("Connecting to PostgreSQL...")
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.pg = db
		if err := database.MigratePostgres(db); err != nil {
			s.Close()
			return nil, err
		}
		s.Users = postgres.NewUserRepository(db)
		s.SiteConfig = postgres.NewSiteConfigRepository(db)
		s.ResetLog = postgres.NewPasswordResetRepository(db)
		s.Entries = postgres.NewEntryRepository(db)

		if cfg.EntryStore == config.EntryStoreMongo {
			log.Info("Connecting to MongoDB...")
			mdb, err := database.ConnectMongo(ctx, cfg.MongoURI)
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("connect mongo: %w", err)
			}
			s.mongo = mdb
			repo := mongorepo.NewEntryRepository(mdb)
			if err := repo.EnsureIndexes(ctx); err != nil {
				log.Warn("Failed to ensure MongoDB entry indexes", zap.Error(err))
			}
			s.Entries = repo
		}
	}

	log.Info("Connecting to Redis...")
	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	s.Redis = rdb
	return s, nil
}

func (s *stores) Close() {
	if s.Redis != nil {
		s.Redis.Close()
	}
	if s.mongo != nil {
		_ = database.DisconnectMongo(s.mongo)
	}
	if s.pg != nil {
		s.pg.Close()
	}
}
