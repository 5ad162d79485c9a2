package cfg

type MockLoader struct {
	overrides func(*Config)
}

// NewMockLoader trả về cấu hình cố định; overrides cho phép test chỉnh một vài trường
func NewMockLoader(overrides ...func(*Config)) (*MockLoader, error) {
	ml := &MockLoader{}
	if len(overrides) > 0 {
		ml.overrides = func(c *Config) {
			for _, o := range overrides {
				o(c)
			}
		}
	}
	return ml, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	config := &Config{
		// App
		App: App{
			Name:    "daily-git-brief",
			Version: "0.0.1",
		},

		// Database
		Database: Database{
			Driver: "sqlite",
			Sqlite: Sqlite{Path: ""},
			Mysql: Mysql{
				Host:     "127.0.0.1",
				Port:     "3306",
				Username: "root",
				Password: "root",
				Database: "daily_git_brief",
			},
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// GithubApi
		GithubApi: GithubApi{
			ApiUrl:            "https://api.github.com",
			RawUrl:            "https://raw.githubusercontent.com",
			RequestsPerSecond: 10,
			ThrottleDelay:     10,
			ReadmeMaxBytes:    8000,
		},

		OssInsight: OssInsight{BaseUrl: "https://api.ossinsight.io"},

		Llm: Llm{
			BaseUrl:   "https://api.deepseek.com",
			Model:     "deepseek-chat",
			MaxTokens: 300,
		},

		Collector: Collector{
			LanguageThreshold: 0.2,
			Delay:             0,
			RequestTimeout:    5,
		},

		Server:   Server{Host: "127.0.0.1", Port: 8080},
		Schedule: Schedule{Enabled: false, Cron: "0 0 0 * * *"},
		Kafka:    Kafka{ProgressTopic: "collection-progress", GroupID: "progress-tail"},
		Log:      Log{Level: "debug"},
	}

	if ml.overrides != nil {
		ml.overrides(config)
	}
	return config, nil
}
