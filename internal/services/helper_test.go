package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/db/repos"
)

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ServiceTestSuite wires the services over a private in-memory database
type ServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	ctx       context.Context
	clock     *fakeClock
	store     *repos.Store
	companies *Company
	lifecycle *Lifecycle
	analytics *Analytics
	ownerID   string
}

func (s *ServiceTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_json=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")
	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(s.T(), db.AutoMigrate(&models.Company{}, &models.Application{}, &models.Transition{}))

	s.db = db
	s.ctx = context.Background()
	s.clock = &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	s.store = repos.NewStore(db)
	s.companies = NewCompanyService(s.store)
	s.lifecycle = NewLifecycleService(s.store, s.companies,
		WithClock(s.clock.Now), WithStoreTimeout(5*time.Second))
	s.analytics = NewAnalyticsService(s.store,
		WithAnalyticsClock(s.clock.Now), WithAnalyticsStoreTimeout(5*time.Second))
	s.ownerID = "owner-" + uuid.NewString()
}

func (s *ServiceTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

func (s *ServiceTestSuite) createCompany(name string) *models.Company {
	company := &models.Company{Name: name}
	s.Require().NoError(s.companies.Create(s.ctx, s.ownerID, company))
	return company
}

func (s *ServiceTestSuite) createApplication(initial *models.State) *models.Application {
	company := s.createCompany("Acme " + uuid.NewString()[:8])
	app, err := s.lifecycle.Create(s.ctx, s.ownerID, CreateApplicationParams{
		CompanyID:    company.ID,
		JobTitle:     "Backend Engineer",
		InitialState: initial,
	})
	s.Require().NoError(err)
	return app
}

func (s *ServiceTestSuite) move(app *models.Application, to models.State) *models.Transition {
	entry, err := s.lifecycle.Move(s.ctx, app.ID, s.ownerID, MoveParams{ToState: to})
	s.Require().NoError(err)
	return entry
}

func TestServices(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
