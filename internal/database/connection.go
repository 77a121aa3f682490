package database

import (
	"fmt"
	"net"
	"time"

	pureSqlite "github.com/glebarez/sqlite"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/tripsit/tripsit-api/internal/config"
	"github.com/tripsit/tripsit-api/internal/models"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector returns the gorm dialector for the configured database type
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	db := cfg.Database

	switch db.Type {
	case "mysql", "mariadb":
		dsn := mysqlDriver.Config{
			User:                 db.User,
			Passwd:               db.Password,
			Net:                  "tcp",
			Addr:                 net.JoinHostPort(db.Host, db.Port),
			DBName:               db.Name,
			ParseTime:            true,
			Loc:                  time.UTC,
			AllowNativePasswords: true,
			Params:               map[string]string{"charset": "utf8mb4"},
		}
		return mysql.Open(dsn.FormatDSN()), nil

	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			db.Host,
			db.User,
			db.Password,
			db.Name,
			db.Port,
		)
		return postgres.Open(dsn), nil

	case "sqlite":
		// Pure Go driver, no cgo required. Name is the file path.
		return pureSqlite.Open(db.Name), nil

	case "sqlite3":
		// cgo driver (mattn/go-sqlite3)
		return sqlite.Open(db.Name), nil

	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
		)
		return sqlserver.Open(dsn), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", db.Type)
	}
}

// Connect establishes a database connection based on the configured database type
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := Open(dialector, cfg.IsProduction())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	maxConns := cfg.Database.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(max(maxConns/2, 1))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("connected to database",
		zap.String("type", cfg.Database.Type),
		zap.String("name", cfg.Database.Name),
	)

	return db, nil
}

// Open opens a gorm session over dialector with the service's logging policy
func Open(dialector gorm.Dialector, production bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if production {
		level = gormlogger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserAction{},
		&models.UserTicket{},
		&models.Drug{},
		&models.DrugName{},
		&models.DrugArticle{},
		&models.DrugVariant{},
		&models.DrugVariantRoa{},
		&models.DrugCategory{},
		&models.DrugCategoryDrug{},
		&models.UserDrugDose{},
		&models.DiscordGuild{},
		&models.DiscordGuildDrama{},
	}
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
