package test

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/applytrack/applytrack/internal/db"
	"github.com/applytrack/applytrack/internal/db/repos"
)

// NewInMemoryTestDB creates a private in-memory SQLite database with the schema applied.
func NewInMemoryTestDB() (*gorm.DB, error) {
	// The name keeps parallel suites apart; shared cache lets the pool's
	// connections see the same database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_json=1", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite allows one writer; serializing the pool avoids SQLITE_BUSY under concurrent requests.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(database); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return database, nil
}

// CleanupTestDB closes the database connection.
func CleanupTestDB(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err == nil && sqlDB != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			fmt.Printf("Error closing database connection: %v\n", closeErr)
		}
	}
}

// SetupTestDB configures the suite with a fresh database and store.
func SetupTestDB(suite *Suite) {
	database, err := NewInMemoryTestDB()
	suite.Require().NoError(err, "Failed to create in-memory database")
	suite.DB = database
	suite.Store = repos.NewStore(database)

	oldCleanup := suite.cleanup
	suite.cleanup = func() {
		if oldCleanup != nil {
			oldCleanup()
		}
		CleanupTestDB(database)
	}
}
