package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gallerycms/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeSender struct {
	to      string
	subject string
	body    string
	sent    int
}

func (f *fakeSender) Send(to, subject, htmlBody string) error {
	f.to = to
	f.subject = subject
	f.body = htmlBody
	f.sent++
	return nil
}

// tokenFromBody 从邮件正文的链接中截取 token 参数
func tokenFromBody(t *testing.T, body string) string {
	t.Helper()

	marker := "token="
	idx := strings.Index(body, marker)
	if idx < 0 {
		t.Fatalf("no token link in mail body: %s", body)
	}
	rest := body[idx+len(marker):]
	if end := strings.IndexAny(rest, "\"<& "); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func setupAuthTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	gdb, cleanup := setupQueryTestDB(t)
	if err := gdb.AutoMigrate(&db.AdminUser{}, &db.LoginToken{}); err != nil {
		cleanup()
		t.Fatalf("failed to migrate auth tables: %v", err)
	}
	return gdb, cleanup
}

func TestMagicLinkRoundTrip(t *testing.T) {
	gdb, cleanup := setupAuthTestDB(t)
	defer cleanup()

	if err := gdb.Create(&db.AdminUser{Email: "admin@example.com", Role: db.RoleAdmin}).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	sender := &fakeSender{}
	svc := NewAuthService(gdb, sender, "https://gallery.example.com")

	if err := svc.RequestMagicLink("Admin@Example.com"); err != nil {
		t.Fatalf("failed to request magic link: %v", err)
	}
	if sender.sent != 1 || sender.to != "admin@example.com" {
		t.Fatalf("expected one mail to the admin, got %d to %q", sender.sent, sender.to)
	}

	token := tokenFromBody(t, sender.body)

	user, err := svc.VerifyMagicLink(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if user.Email != "admin@example.com" || user.Role != db.RoleAdmin {
		t.Fatalf("unexpected user %+v", user)
	}

	// 令牌一次性使用
	if _, err := svc.VerifyMagicLink(token); !errors.Is(err, ErrLoginTokenInvalid) {
		t.Fatalf("expected reuse to fail, got %v", err)
	}
}

func TestMagicLinkUnknownEmailSilent(t *testing.T) {
	gdb, cleanup := setupAuthTestDB(t)
	defer cleanup()

	sender := &fakeSender{}
	svc := NewAuthService(gdb, sender, "https://gallery.example.com")

	if err := svc.RequestMagicLink("nobody@example.com"); err != nil {
		t.Fatalf("unknown email must not surface an error: %v", err)
	}
	if sender.sent != 0 {
		t.Fatalf("no mail must be sent for unknown email")
	}
}

func TestMagicLinkExpired(t *testing.T) {
	gdb, cleanup := setupAuthTestDB(t)
	defer cleanup()

	if err := gdb.Create(&db.AdminUser{Email: "admin@example.com", Role: db.RoleAdmin}).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	sender := &fakeSender{}
	svc := NewAuthService(gdb, sender, "https://gallery.example.com")

	if err := svc.RequestMagicLink("admin@example.com"); err != nil {
		t.Fatalf("failed to request magic link: %v", err)
	}
	token := tokenFromBody(t, sender.body)

	if err := gdb.Model(&db.LoginToken{}).
		Where("email = ?", "admin@example.com").
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("failed to expire token: %v", err)
	}

	if _, err := svc.VerifyMagicLink(token); !errors.Is(err, ErrLoginTokenInvalid) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	gdb, cleanup := setupAuthTestDB(t)
	defer cleanup()

	svc := NewAuthService(gdb, &fakeSender{}, "https://gallery.example.com")

	for _, token := range []string{"", "   ", "not-a-token"} {
		if _, err := svc.VerifyMagicLink(token); !errors.Is(err, ErrLoginTokenInvalid) {
			t.Fatalf("expected ErrLoginTokenInvalid for %q, got %v", token, err)
		}
	}
}

func TestPasswordLogin(t *testing.T) {
	gdb, cleanup := setupAuthTestDB(t)
	defer cleanup()

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := gdb.Create(&db.AdminUser{Email: "root@example.com", Role: db.RoleAdmin, Password: string(hashed)}).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	if err := gdb.Create(&db.AdminUser{Email: "linkonly@example.com", Role: db.RoleAdmin}).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	svc := NewAuthService(gdb, &fakeSender{}, "https://gallery.example.com")

	user, err := svc.PasswordLogin("ROOT@example.com", "hunter2")
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	if user.Email != "root@example.com" {
		t.Fatalf("unexpected user %q", user.Email)
	}

	if _, err := svc.PasswordLogin("root@example.com", "wrong"); !errors.Is(err, ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
	}
	// 无密码账号不能走密码登录
	if _, err := svc.PasswordLogin("linkonly@example.com", ""); !errors.Is(err, ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid for passwordless account, got %v", err)
	}
	if _, err := svc.PasswordLogin("ghost@example.com", "x"); !errors.Is(err, ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid for unknown account, got %v", err)
	}
}
