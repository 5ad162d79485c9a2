package cfg

import (
	"errors"
	"sync"
)

var (
	loader     Loader
	loaderOnce sync.Once
)

type Loader interface {
	Load() (*Config, error)
}

// NewLoader giữ loader đầu tiên được truyền vào cho toàn process
func NewLoader(l Loader) (Loader, error) {
	loaderOnce.Do(func() {
		loader = l
	})
	if loader == nil {
		return nil, errors.New("[ERROR][CONFIG] nil loader")
	}
	return loader, nil
}
