package model

import (
	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/pkg/db"
	"github.com/thep200/daily-git-brief/pkg/log"
)

// DateLayout là định dạng ngày (UTC) dùng làm khóa cho mọi bảng
const DateLayout = "2006-01-02"

type Model struct {
	Config   *cfg.Config `json:"-" gorm:"-"`
	Logger   log.Logger  `json:"-" gorm:"-"`
	Database db.Database `json:"-" gorm:"-"`
}
