package db

import (
	"time"

	"gorm.io/gorm"
)

// LoginToken 定义魔法链接登录令牌。仅保存令牌的 sha256 摘要，原文只出现在邮件里。
type LoginToken struct {
	gorm.Model
	TokenHash string `gorm:"unique;not null"`
	Email     string `gorm:"not null;index"`
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Usable reports whether the token can still complete a login at the given time.
func (t LoginToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
