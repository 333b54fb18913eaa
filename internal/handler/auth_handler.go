package handler

import (
	"errors"
	"net/http"

	"github.com/gallerycms/internal/db"
	"github.com/gallerycms/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionKeyEmail = "admin_email"
	sessionKeyRole  = "role"
)

type loginPayload struct {
	Email string `json:"email" binding:"required"`
}

type passwordLoginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RequestLogin mails a magic link. The response is identical whether or not the
// address belongs to an admin.
func (a *API) RequestLogin(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "email is required") {
		return
	}

	if err := a.auth.RequestMagicLink(payload.Email); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to send login mail")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the address is registered, a login link has been sent"})
}

// VerifyLogin consumes a magic-link token and establishes the admin session.
func (a *API) VerifyLogin(c *gin.Context) {
	user, err := a.auth.VerifyMagicLink(c.Query("token"))
	if err != nil {
		if errors.Is(err, service.ErrLoginTokenInvalid) {
			respondError(c, http.StatusUnprocessableEntity, "login link is invalid or expired")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to verify login link")
		return
	}

	if !a.establishSession(c, user) {
		return
	}

	c.Redirect(http.StatusFound, a.baseURL)
}

// PasswordLogin authenticates the bootstrap root admin by password.
func (a *API) PasswordLogin(c *gin.Context) {
	var payload passwordLoginPayload
	if !bindJSON(c, &payload, "email and password are required") {
		return
	}

	user, err := a.auth.PasswordLogin(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrCredentialsInvalid) {
			respondError(c, http.StatusUnauthorized, "email or password is incorrect")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	if !a.establishSession(c, user) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "email": user.Email, "role": user.Role})
}

// Logout clears the admin session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the current session claim.
func (a *API) Me(c *gin.Context) {
	session := sessions.Default(c)
	email, _ := session.Get(sessionKeyEmail).(string)
	role, _ := session.Get(sessionKeyRole).(string)
	if email == "" {
		respondError(c, http.StatusUnauthorized, "not logged in")
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": email, "role": role})
}

func (a *API) establishSession(c *gin.Context, user *db.AdminUser) bool {
	session := sessions.Default(c)
	session.Set(sessionKeyEmail, user.Email)
	session.Set(sessionKeyRole, user.Role)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return false
	}
	return true
}

// AuthRequired 校验会话中的角色声明，写接口仅对 ADMIN 开放。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		role, _ := session.Get(sessionKeyRole).(string)
		if role != db.RoleAdmin {
			respondError(c, http.StatusUnauthorized, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
