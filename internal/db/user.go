package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RoleAdmin 是唯一被授权执行写操作的角色
const RoleAdmin = "ADMIN"

// AdminUser 定义了管理员账号模型。密码仅用于引导账号的回退登录，可为空。
type AdminUser struct {
	gorm.Model
	Email    string `gorm:"unique;not null"`
	Role     string `gorm:"not null;default:ADMIN"`
	Password string
}

// EnsureAdmin 存在性检查：若提供的邮箱非空且不存在对应账号，则创建一个 ADMIN 账号。
// 密码非空时以 bcrypt 哈希存储，作为邮件链路不可用时的回退登录方式。
func EnsureAdmin(email, password string) error {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	if trimmedEmail == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing AdminUser
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := AdminUser{Email: trimmedEmail, Role: RoleAdmin}
		if trimmedPassword := strings.TrimSpace(password); trimmedPassword != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user.Password = string(hashed)
		}

		return DB.Create(&user).Error
	}

	return nil
}
