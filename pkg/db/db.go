package db

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/thep200/daily-git-brief/cfg"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database là kết nối gorm mở lười, dùng chung cho mọi backend
type Database interface {
	Db() (*gorm.DB, error)
	Ping() error
	Close() error
	Migrate(models ...interface{}) error
}

// conn giữ phần chung: mở một lần, cấu hình pool, ping, close, migrate
type conn struct {
	Config  *cfg.Config
	dialect func() gorm.Dialector
	pool    bool
	once    sync.Once
	db      *gorm.DB
	initErr error
}

func (c *conn) Db() (*gorm.DB, error) {
	c.once.Do(func() {
		// Open connection
		var db *gorm.DB
		db, c.initErr = gorm.Open(c.dialect(), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if c.initErr != nil {
			return
		}

		// Get sqlDB
		var sqlDB *sql.DB
		sqlDB, c.initErr = db.DB()
		if c.initErr != nil {
			return
		}

		// Setting connection pool
		if c.pool {
			sqlDB.SetMaxIdleConns(c.Config.Database.MaxIdleConnection)
			sqlDB.SetMaxOpenConns(c.Config.Database.MaxOpenConnection)
			sqlDB.SetConnMaxLifetime(time.Duration(c.Config.Database.MaxLifeTimeConnection) * time.Second)
		} else {
			sqlDB.SetMaxOpenConns(1)
		}

		c.db = db
	})
	return c.db, c.initErr
}

func (c *conn) Ping() error {
	db, err := c.Db()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (c *conn) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func (c *conn) Migrate(models ...interface{}) error {
	db, err := c.Db()
	if err != nil {
		return err
	}
	return db.AutoMigrate(models...)
}

// New chọn backend theo database.driver
func New(config *cfg.Config) (Database, error) {
	switch config.Database.Driver {
	case "mysql":
		return NewMysql(config)
	case "postgres", "postgresql":
		return NewPostgres(config)
	case "sqlite", "":
		return NewSqlite(config)
	default:
		return nil, fmt.Errorf("[ERROR] Unsupported database driver: %s", config.Database.Driver)
	}
}
