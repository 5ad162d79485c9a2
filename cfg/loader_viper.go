package cfg

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const EnvPrefix = "BRIEF"

type ViperLoader struct {
	v                     *viper.Viper
	configPaths           []string
	configName            string
	watch                 bool
	once                  sync.Once
	mu                    sync.RWMutex
	cfgIns                *Config
	configChangeCallbacks []func(*Config)
}

type ViperOption func(*ViperLoader)

// WithConfigFile đọc đúng một file thay vì tìm mode.yaml trong cfg/yaml
func WithConfigFile(path string) ViperOption {
	return func(yl *ViperLoader) {
		if path != "" {
			yl.v.SetConfigFile(path)
		}
	}
}

func WithWatch(watch bool) ViperOption {
	return func(yl *ViperLoader) {
		yl.watch = watch
	}
}

func NewViperLoader(opts ...ViperOption) (*ViperLoader, error) {
	yl := &ViperLoader{
		v:                     viper.New(),
		configPaths:           []string{"cfg/yaml", "."},
		configName:            "mode",
		configChangeCallbacks: make([]func(*Config), 0),
	}
	for _, opt := range opts {
		opt(yl)
	}
	return yl, nil
}

// Viper trả về instance bên dưới để cobra có thể bind flag vào
func (yl *ViperLoader) Viper() *viper.Viper {
	return yl.v
}

func (yl *ViperLoader) Load() (*Config, error) {
	var err error
	yl.once.Do(func() {
		err = yl.loadConfig()
		if err == nil && yl.IsWatchChange() && yl.v.ConfigFileUsed() != "" {
			yl.v.OnConfigChange(func(e fsnotify.Event) {
				fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
				if errReload := yl.reloadConfig(); errReload != nil {
					fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
				}
			})
			yl.v.WatchConfig()
		}
	})

	if err != nil {
		return nil, err
	}

	yl.mu.RLock()
	defer yl.mu.RUnlock()
	if yl.cfgIns == nil {
		return nil, errors.New("[ERROR][CONFIG] config was not loaded")
	}
	return yl.cfgIns, nil
}

func (yl *ViperLoader) IsWatchChange() bool {
	return yl.watch
}

func (yl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	yl.mu.Lock()
	yl.configChangeCallbacks = append(yl.configChangeCallbacks, callback)
	yl.mu.Unlock()
}

func (yl *ViperLoader) loadConfig() error {
	for key, value := range defaults {
		yl.v.SetDefault(key, value)
	}

	yl.v.SetEnvPrefix(EnvPrefix)
	yl.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	yl.v.AutomaticEnv()

	if yl.v.ConfigFileUsed() == "" {
		for _, path := range yl.configPaths {
			yl.v.AddConfigPath(path)
		}
		yl.v.SetConfigName(yl.configName)
		yl.v.SetConfigType("yaml")
	}

	// Không có file cấu hình thì chạy với default + env
	if err := yl.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := yl.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}

	yl.mu.Lock()
	yl.cfgIns = cfg
	yl.mu.Unlock()

	return nil
}

func (yl *ViperLoader) reloadConfig() error {
	cfg := &Config{}
	if err := yl.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config during reload: %w", err)
	}

	yl.mu.Lock()
	yl.cfgIns = cfg

	// Notify all registered callbacks
	callbacks := make([]func(*Config), len(yl.configChangeCallbacks))
	copy(callbacks, yl.configChangeCallbacks)
	yl.mu.Unlock()
	for _, callback := range callbacks {
		go callback(cfg)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}
