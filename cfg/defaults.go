package cfg

// Giá trị mặc định, dùng chung cho ViperLoader và MockLoader
var defaults = map[string]interface{}{
	"app.name":    "daily-git-brief",
	"app.version": "0.1.0",

	"database.driver":                   "sqlite",
	"database.sqlite.path":              "./data/daily_git_brief.db",
	"database.mysql.host":               "127.0.0.1",
	"database.mysql.port":               "3306",
	"database.mysql.username":           "root",
	"database.mysql.database":           "daily_git_brief",
	"database.mysql.password":           "",
	"database.postgres.host":            "127.0.0.1",
	"database.postgres.port":            "5432",
	"database.postgres.username":        "postgres",
	"database.postgres.database":        "daily_git_brief",
	"database.postgres.password":        "",
	"database.postgres.ssl_mode":        "disable",
	"database.max_idle_connection":      10,
	"database.max_open_connection":      100,
	"database.max_life_time_connection": 3600,

	"github_api.access_token":       "",
	"github_api.api_url":             "https://api.github.com",
	"github_api.raw_url":             "https://raw.githubusercontent.com",
	"github_api.requests_per_second": 10,
	"github_api.throttle_delay":      100,
	"github_api.readme_max_bytes":    8000,

	"oss_insight.base_url": "https://api.ossinsight.io",

	"llm.api_key":    "",
	"llm.base_url":   "https://api.deepseek.com",
	"llm.model":      "deepseek-chat",
	"llm.max_tokens": 300,

	"collector.language_threshold": 0.2,
	"collector.delay":              100,
	"collector.request_timeout":    30,

	"server.host": "0.0.0.0",
	"server.port": 8080,

	"schedule.enabled": true,
	"schedule.cron":    "0 0 0 * * *",

	"kafka.brokers":        []string{},
	"kafka.progress_topic": "collection-progress",
	"kafka.group_id":       "progress-tail",

	"log.level": "info",
}
