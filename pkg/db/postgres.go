package db

import (
	"fmt"

	"github.com/thep200/daily-git-brief/cfg"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Postgres struct {
	conn
}

func NewPostgres(config *cfg.Config) (*Postgres, error) {
	p := &Postgres{}
	p.Config = config
	p.pool = true
	p.dialect = func() gorm.Dialector { return postgres.Open(p.DSN()) }
	return p, nil
}

func (p *Postgres) DSN() string {
	pg := p.Config.Database.Postgres
	sslMode := pg.SslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		pg.Host, pg.Port, pg.Username, pg.Password, pg.Database, sslMode)
}
