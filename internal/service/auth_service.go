package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gallerycms/internal/db"
	"github.com/gallerycms/internal/email"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrLoginTokenInvalid  = errors.New("login token is invalid or expired")
	ErrCredentialsInvalid = errors.New("email or password is incorrect")
)

// loginTokenTTL 是魔法链接的有效期
const loginTokenTTL = 15 * time.Minute

// AuthService issues and verifies magic-link login tokens for admin accounts.
type AuthService struct {
	db      *gorm.DB
	mail    email.Sender
	baseURL string
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB, mail email.Sender, baseURL string) *AuthService {
	return &AuthService{db: gdb, mail: mail, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// RequestMagicLink mails a single-use login link when the address belongs to an
// admin. 未注册邮箱同样静默返回成功，避免账号枚举。
func (s *AuthService) RequestMagicLink(address string) error {
	normalized := strings.ToLower(strings.TrimSpace(address))
	if normalized == "" {
		return nil
	}

	var user db.AdminUser
	if err := s.db.Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	record := db.LoginToken{
		TokenHash: hashLoginToken(token),
		Email:     user.Email,
		ExpiresAt: time.Now().Add(loginTokenTTL),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/auth/verify?token=%s", s.baseURL, token)
	body := fmt.Sprintf(
		"<p>Click the link below to sign in to the gallery admin. It expires in %d minutes.</p><p><a href=%q>%s</a></p>",
		int(loginTokenTTL.Minutes()), link, link)

	return s.mail.Send(user.Email, "Sign in to the gallery admin", body)
}

// VerifyMagicLink consumes a token and returns the admin it belongs to.
func (s *AuthService) VerifyMagicLink(token string) (*db.AdminUser, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, ErrLoginTokenInvalid
	}

	var record db.LoginToken
	if err := s.db.Where("token_hash = ?", hashLoginToken(trimmed)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginTokenInvalid
		}
		return nil, err
	}

	now := time.Now()
	if !record.Usable(now) {
		return nil, ErrLoginTokenInvalid
	}

	// 以 used_at IS NULL 为条件标记使用，令牌被并发消费时只有一方成功。
	result := s.db.Model(&db.LoginToken{}).
		Where("id = ? AND used_at IS NULL", record.ID).
		Update("used_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrLoginTokenInvalid
	}

	var user db.AdminUser
	if err := s.db.Where("email = ?", record.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginTokenInvalid
		}
		return nil, err
	}

	return &user, nil
}

// PasswordLogin authenticates the bootstrap root admin by bcrypt password.
func (s *AuthService) PasswordLogin(address, password string) (*db.AdminUser, error) {
	normalized := strings.ToLower(strings.TrimSpace(address))

	var user db.AdminUser
	if err := s.db.Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialsInvalid
		}
		return nil, err
	}

	if user.Password == "" {
		return nil, ErrCredentialsInvalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrCredentialsInvalid
	}

	return &user, nil
}

func hashLoginToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
