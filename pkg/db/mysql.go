package db

import (
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/thep200/daily-git-brief/cfg"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type Mysql struct {
	conn
}

func NewMysql(config *cfg.Config) (*Mysql, error) {
	m := &Mysql{}
	m.Config = config
	m.pool = true
	m.dialect = func() gorm.Dialector { return mysql.Open(m.DSN()) }
	return m, nil
}

func (m *Mysql) DSN() string {
	config := mysqlDriver.Config{
		User:                 m.Config.Database.Mysql.Username,
		Passwd:               m.Config.Database.Mysql.Password,
		DBName:               m.Config.Database.Mysql.Database,
		Addr:                 m.Config.Database.Mysql.Host + ":" + m.Config.Database.Mysql.Port,
		Net:                  "tcp",
		ParseTime:            true,
		AllowNativePasswords: true,
		Params:               map[string]string{"charset": "utf8mb4"},
	}
	return config.FormatDSN()
}
