package cfg

type (
	App struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
	}

	Mysql struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Database string `mapstructure:"database"`
	}

	Postgres struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Database string `mapstructure:"database"`
		SslMode  string `mapstructure:"ssl_mode"`
	}

	Sqlite struct {
		Path string `mapstructure:"path"`
	}

	// Database chọn backend lưu trữ qua Driver: mysql, postgres hoặc sqlite
	Database struct {
		Driver                string   `mapstructure:"driver"`
		Mysql                 Mysql    `mapstructure:"mysql"`
		Postgres              Postgres `mapstructure:"postgres"`
		Sqlite                Sqlite   `mapstructure:"sqlite"`
		MaxIdleConnection     int      `mapstructure:"max_idle_connection"`
		MaxOpenConnection     int      `mapstructure:"max_open_connection"`
		MaxLifeTimeConnection int      `mapstructure:"max_life_time_connection"`
	}

	GithubApi struct {
		AccessToken       string `mapstructure:"access_token"`
		ApiUrl            string `mapstructure:"api_url"`
		RawUrl            string `mapstructure:"raw_url"`
		RequestsPerSecond int    `mapstructure:"requests_per_second"`
		ThrottleDelay     int    `mapstructure:"throttle_delay"`
		ReadmeMaxBytes    int    `mapstructure:"readme_max_bytes"`
	}

	OssInsight struct {
		BaseUrl string `mapstructure:"base_url"`
	}

	Llm struct {
		BaseUrl   string `mapstructure:"base_url"`
		ApiKey    string `mapstructure:"api_key"`
		Model     string `mapstructure:"model"`
		MaxTokens int    `mapstructure:"max_tokens"`
	}

	Collector struct {
		LanguageThreshold float64 `mapstructure:"language_threshold"`
		// Milliseconds between two candidates
		Delay int `mapstructure:"delay"`
		// Seconds, applied to every outbound HTTP call
		RequestTimeout int `mapstructure:"request_timeout"`
	}

	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	}

	Schedule struct {
		Enabled bool   `mapstructure:"enabled"`
		Cron    string `mapstructure:"cron"`
	}

	Kafka struct {
		Brokers       []string `mapstructure:"brokers"`
		ProgressTopic string   `mapstructure:"progress_topic"`
		GroupID       string   `mapstructure:"group_id"`
	}

	Log struct {
		Level string `mapstructure:"level"`
	}
)

type Config struct {
	App        App        `mapstructure:"app"`
	Database   Database   `mapstructure:"database"`
	GithubApi  GithubApi  `mapstructure:"github_api"`
	OssInsight OssInsight `mapstructure:"oss_insight"`
	Llm        Llm        `mapstructure:"llm"`
	Collector  Collector  `mapstructure:"collector"`
	Server     Server     `mapstructure:"server"`
	Schedule   Schedule   `mapstructure:"schedule"`
	Kafka      Kafka      `mapstructure:"kafka"`
	Log        Log        `mapstructure:"log"`
}

// KafkaEnabled báo hiệu progress event có được đẩy sang Kafka hay không
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0 && c.Kafka.ProgressTopic != ""
}
