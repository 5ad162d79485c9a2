package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/daily-git-brief/cfg"
)

func testConfig(t *testing.T, mutate func(*cfg.Config)) *cfg.Config {
	t.Helper()
	loader, err := cfg.NewMockLoader(mutate)
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	return config
}

func TestNew_SelectsBackend(t *testing.T) {
	cases := []struct {
		driver string
		want   interface{}
	}{
		{"mysql", &Mysql{}},
		{"postgres", &Postgres{}},
		{"postgresql", &Postgres{}},
		{"sqlite", &Sqlite{}},
	}
	for _, tc := range cases {
		t.Run(tc.driver, func(t *testing.T) {
			config := testConfig(t, func(c *cfg.Config) {
				c.Database.Driver = tc.driver
				c.Database.Sqlite.Path = ""
			})
			database, err := New(config)
			require.NoError(t, err)
			assert.IsType(t, tc.want, database)
		})
	}

	_, err := New(testConfig(t, func(c *cfg.Config) { c.Database.Driver = "oracle" }))
	assert.Error(t, err)
}

func TestMysql_DSN(t *testing.T) {
	config := testConfig(t, func(c *cfg.Config) {
		c.Database.Mysql.Host = "db"
		c.Database.Mysql.Port = "3307"
		c.Database.Mysql.Username = "brief"
		c.Database.Mysql.Password = "pw"
		c.Database.Mysql.Database = "trends"
	})
	m, err := NewMysql(config)
	require.NoError(t, err)

	dsn := m.DSN()
	assert.True(t, strings.HasPrefix(dsn, "brief:pw@tcp(db:3307)/trends?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
}

func TestPostgres_DSN(t *testing.T) {
	config := testConfig(t, func(c *cfg.Config) {
		c.Database.Postgres = cfg.Postgres{
			Host: "pg", Port: "5433", Username: "u", Password: "p", Database: "d",
		}
	})
	p, err := NewPostgres(config)
	require.NoError(t, err)
	assert.Equal(t, "host=pg port=5433 user=u password=p dbname=d sslmode=disable TimeZone=UTC", p.DSN())
}

type pingRow struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func TestSqlite_OpenMigratePing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "brief.db")
	config := testConfig(t, func(c *cfg.Config) { c.Database.Sqlite.Path = path })

	s, err := NewSqlite(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Ping())
	require.NoError(t, s.Migrate(&pingRow{}))

	gdb, err := s.Db()
	require.NoError(t, err)
	require.NoError(t, gdb.Create(&pingRow{ID: 1, Name: "a"}).Error)

	var count int64
	require.NoError(t, gdb.Model(&pingRow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
