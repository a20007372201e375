package webserver

import (
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rindelabs/rindestore/internal/app"
	"github.com/rindelabs/rindestore/internal/blobstore"
	"github.com/rindelabs/rindestore/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var server *WebServer

// WebServer wraps echo with the route groups the API packages register into:
// pub (no auth), user (JWT), api (JWT + admin level).
type WebServer struct {
	appCtx app.AppContext
	blob   *blobstore.Store
	root   *echo.Echo
	pub    *echo.Group
	user   *echo.Group
	api    *echo.Group
}

// Init builds the process-wide server. Route registration helpers are no-ops
// until this has run.
func Init(appCtx app.AppContext, blob *blobstore.Store) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = newValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(requestLogger())
	e.Use(dbInjector(appCtx.DB()))

	// product images
	e.Static(blobstore.URLPrefix, blob.Root())

	secret := []byte(appCtx.Config().Web.Secret)
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey:    secret,
		NewClaimsFunc: newClaimsFunc,
		ContextKey:    jwtContextKey,
		ErrorHandler:  jwtErrorHandler,
	})

	server = &WebServer{
		appCtx: appCtx,
		blob:   blob,
		root:   e,
		pub:    e.Group("/api"),
		user:   e.Group("/api", jwtMiddleware),
		api:    e.Group("/admin/api", jwtMiddleware, requireAdmin),
	}
	return server
}

// Start serves until the listener fails.
func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("web server listening on %s", addr)
	return s.root.Start(addr)
}

// Blob returns the image store shared with the API packages.
func Blob() *blobstore.Store {
	return server.blob
}

// AppCtx returns the application context shared with the API packages.
func AppCtx() app.AppContext {
	return server.appCtx
}

const dbContextKey = "webserver.db"

func dbInjector(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(dbContextKey, db)
			return next(c)
		}
	}
}

// GetDB fetches the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(dbContextKey).(*gorm.DB)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			metrics.CounterInc(metrics.MetricApiRequest)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	}
}

// Public route registration

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// Authenticated (any signed-in user) route registration

func UserGET(path string, h echo.HandlerFunc) {
	server.user.GET(path, h)
}

func UserPOST(path string, h echo.HandlerFunc) {
	server.user.POST(path, h)
}

func UserPUT(path string, h echo.HandlerFunc) {
	server.user.PUT(path, h)
}

func UserDELETE(path string, h echo.HandlerFunc) {
	server.user.DELETE(path, h)
}

// Admin panel route registration

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
