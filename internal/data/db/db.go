package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/edugen-backend/internal/platform/envutil"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

const DefaultSQLitePath = "edu_gen.db"

type Config struct {
	// URL is a postgres DSN ("postgres://..."), a "sqlite:///path" URL or a
	// bare sqlite file path. Empty selects DefaultSQLitePath.
	URL           string
	SlowThreshold time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		URL:           envutil.String("DATABASE_URL", ""),
		SlowThreshold: envutil.Seconds("DB_SLOW_THRESHOLD_SECONDS", time.Second),
	}
}

// Dialect reports which driver URL selects and the DSN handed to it.
func (c Config) Dialect() (driver string, dsn string) {
	u := strings.TrimSpace(c.URL)
	switch {
	case u == "":
		return "sqlite", DefaultSQLitePath
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return "postgres", u
	case strings.HasPrefix(u, "sqlite:///"):
		return "sqlite", strings.TrimPrefix(u, "sqlite:///")
	case strings.HasPrefix(u, "sqlite://"):
		return "sqlite", strings.TrimPrefix(u, "sqlite://")
	default:
		return "sqlite", u
	}
}

type Service struct {
	db     *gorm.DB
	log    *logger.Logger
	driver string
}

func NewService(logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "DatabaseService")
	driver, dsn := cfg.Dialect()

	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = time.Second
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	serviceLog.Info("Database connected", "driver", driver)
	return &Service{db: db, log: serviceLog, driver: driver}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Driver() string { return s.driver }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
