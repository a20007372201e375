package storeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"github.com/rindelabs/rindestore/internal/app"
	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/webserver"
	"github.com/rindelabs/rindestore/pkg/common"
	"github.com/rindelabs/rindestore/pkg/metrics"
)

type registerPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=128"`
	Email    string `json:"email" validate:"required,email,max=256"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type sessionResult struct {
	User    *domain.SysUser `json:"user"`
	IsAdmin bool            `json:"is_admin"`
	Token   string          `json:"token,omitempty"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/register", registerUser)
	webserver.PubPOST("/auth/login", loginUser)
	webserver.PubPOST("/auth/reset", resetPassword)
	webserver.UserGET("/auth/session", getSession)
	webserver.UserPOST("/auth/logout", logoutUser)
}

func registerUser(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var exists int64
	GetDB(c).Model(&domain.SysUser{}).Where("email = ?", email).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "EMAIL_EXISTS", "An account with this email already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account", nil)
	}

	user := domain.SysUser{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Email:     email,
		Password:  string(hashed),
		Level:     "user",
		Status:    common.ENABLED,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", err.Error())
	}

	token, err := webserver.CreateToken(webserver.AppCtx().Config().Web.Secret, &user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue session token", nil)
	}

	return ok(c, sessionResult{User: &user, IsAdmin: user.IsAdmin(), Token: token})
}

func loginUser(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var user domain.SysUser
	err := GetDB(c).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}

	if user.Status != common.ENABLED {
		return fail(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}

	token, err := webserver.CreateToken(webserver.AppCtx().Config().Web.Secret, &user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue session token", nil)
	}

	GetDB(c).Model(&domain.SysUser{}).Where("id = ?", user.ID).Update("last_login", time.Now())
	metrics.CounterInc(metrics.MetricAuthLogin)

	return ok(c, sessionResult{User: &user, IsAdmin: user.IsAdmin(), Token: token})
}

// getSession resolves the current token back to its account so the client can
// restore state after a reload.
func getSession(c echo.Context) error {
	claims := webserver.GetUserClaims(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid session token", nil)
	}

	var user domain.SysUser
	err := GetDB(c).Where("id = ?", claims.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account no longer exists", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}

	return ok(c, sessionResult{User: &user, IsAdmin: user.IsAdmin()})
}

// logoutUser records the sign-out. Tokens are stateless; the client drops
// its copy.
func logoutUser(c echo.Context) error {
	claims := webserver.GetUserClaims(c)
	if claims != nil {
		webserver.AppCtx().Bus().Publish(app.TopicAdminOp, app.AuditEvent{
			Operator: claims.Email,
			ClientIP: c.RealIP(),
			Action:   "auth.logout",
			Desc:     fmt.Sprintf("user %d signed out", claims.UserID),
		})
	}
	return ok(c, map[string]interface{}{"logout": true})
}

// resetPassword mails a freshly generated password to the account's address.
// Responds OK even for unknown emails so the endpoint cannot be used to probe
// which addresses are registered.
func resetPassword(c echo.Context) error {
	if !webserver.AppCtx().GetSettingsBoolValue("mail", "reset_enable") {
		return fail(c, http.StatusForbidden, "RESET_DISABLED", "Password reset by email is disabled", nil)
	}

	var payload resetPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse reset parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var user domain.SysUser
	err := GetDB(c).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ok(c, map[string]interface{}{"sent": true})
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}

	newPassword := random.String(12)
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reset password", nil)
	}

	if err := GetDB(c).Model(&domain.SysUser{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"password":   string(hashed),
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to reset password", err.Error())
	}

	smtp := webserver.AppCtx().Config().Smtp
	m := gomail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "Your new password")
	m.SetBody("text/plain", fmt.Sprintf("Hello %s,\n\nYour password has been reset to: %s\n\nPlease sign in and change it.", user.Name, newPassword))

	d := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	if err := d.DialAndSend(m); err != nil {
		zap.S().Errorf("password reset mail to %s failed: %v", user.Email, err)
		return fail(c, http.StatusInternalServerError, "MAIL_ERROR", "Failed to send reset email", nil)
	}

	return ok(c, map[string]interface{}{"sent": true})
}
