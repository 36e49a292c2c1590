package db

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Option func(*gorm.Config)

// WithLogLevel overrides the SQL log level (Info by default).
func WithLogLevel(level logger.LogLevel) Option {
	return func(c *gorm.Config) { c.Logger = logger.Default.LogMode(level) }
}

func OpenGorm(dsn string, opts ...Option) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), opts...)
}

// OpenGormWithDialector opens, tunes the pool and pings. Driver errors are
// translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	}
	for _, o := range opts {
		o(cfg)
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// SQLX shares gorm's connection pool with the plain-SQL read paths.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, "mysql"), nil
}
