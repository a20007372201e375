package webserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rindelabs/rindestore/internal/domain"
)

const jwtContextKey = "webserver.jwt"

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

// UserClaims is the JWT payload for a signed-in account.
type UserClaims struct {
	UserID int64  `json:"uid,string"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Level  string `json:"level"`
	jwt.RegisteredClaims
}

func newClaimsFunc(c echo.Context) jwt.Claims {
	return new(UserClaims)
}

// CreateToken issues a signed session token for the account.
func CreateToken(secret string, user *domain.SysUser) (string, error) {
	claims := UserClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Level:  user.Level,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GetUserClaims returns the verified claims for the current request, or nil
// on unauthenticated routes.
func GetUserClaims(c echo.Context) *UserClaims {
	token, ok := c.Get(jwtContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok {
		return nil
	}
	return claims
}

func jwtErrorHandler(c echo.Context, err error) error {
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{
		"code": "UNAUTHORIZED",
		"msg":  "Missing or invalid session token",
	})
}

// requireAdmin guards the admin panel group.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := GetUserClaims(c)
		if claims == nil || claims.Level != "admin" {
			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"code": "FORBIDDEN",
				"msg":  "Administrator access required",
			})
		}
		return next(c)
	}
}
