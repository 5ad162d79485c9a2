package db

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thep200/daily-git-brief/cfg"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Sqlite chỉ dùng một connection để tránh lỗi "database is locked"
type Sqlite struct {
	conn
}

func NewSqlite(config *cfg.Config) (*Sqlite, error) {
	s := &Sqlite{}
	s.Config = config
	s.dialect = func() gorm.Dialector { return sqlite.Open(s.DSN()) }

	path := s.DSN()
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Sqlite) DSN() string {
	if s.Config.Database.Sqlite.Path == "" {
		return ":memory:"
	}
	return s.Config.Database.Sqlite.Path
}
