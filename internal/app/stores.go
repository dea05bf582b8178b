// Package app assembles the store layer shared by the server and the seeder.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicedirectory/internal/config"
	"servicedirectory/internal/db"
	"servicedirectory/internal/repository"
	"servicedirectory/internal/repository/mongostore"
)

// Store drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Stores bundles the repositories of the configured driver.
type Stores struct {
	Services repository.ServiceRepository
	Users    repository.UserRepository

	close func(context.Context) error
}

// Close releases the underlying connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStores connects to the store named by cfg.StoreDriver, applies
// RESET_DB and prepares the schema.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case DriverMySQL, "":
		gormDB, err := db.NewMySQL(cfg.MySQLDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("database init: %w", err)
		}
		return openGorm(gormDB, cfg, logger)
	case DriverSQLite:
		gormDB, err := db.NewSQLite(cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("database init: %w", err)
		}
		return openGorm(gormDB, cfg, logger)
	case DriverMongo:
		database, disconnect, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if cfg.ResetDB {
			logger.Warn("RESET_DB=true detected, dropping all collections")
			if err := mongostore.Reset(ctx, database); err != nil {
				_ = disconnect(ctx)
				return nil, err
			}
		}
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = disconnect(ctx)
			return nil, err
		}
		return &Stores{
			Services: mongostore.NewServiceRepository(database),
			Users:    mongostore.NewUserRepository(database),
			close:    disconnect,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

func openGorm(gormDB *gorm.DB, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	closeDB := func(context.Context) error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			_ = closeDB(context.Background())
			return nil, err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		_ = closeDB(context.Background())
		return nil, err
	}

	return &Stores{
		Services: repository.NewServiceRepository(gormDB),
		Users:    repository.NewUserRepository(gormDB),
		close:    closeDB,
	}, nil
}
