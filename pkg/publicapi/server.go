// Package publicapi serves the anonymous ordering surface: a menu lookup
// endpoint and an order submission endpoint, both keyed by the menu's
// publicId token. No session or account is involved; possession of the
// token is the authorization.
package publicapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/carteland/carte/pkg/codec"
	"github.com/carteland/carte/pkg/core"
)

const defaultScanPages = 5

// Server hosts the public menu endpoints over a note store.
type Server struct {
	store        core.NoteStore
	cdc          *codec.Codec
	validate     *validator.Validate
	notifier     Notifier
	maxScanPages int
	logger       *slog.Logger
	engine       *gin.Engine
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithNotifier installs an order notifier. Delivery is best effort and
// never fails the order.
func WithNotifier(n Notifier) ServerOption {
	return func(s *Server) { s.notifier = n }
}

// WithScanPages caps the lookup scan over the public timeline.
func WithScanPages(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxScanPages = n
		}
	}
}

// WithServerLogger sets the logger.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer builds the public API over the given note store.
func NewServer(store core.NoteStore, cdc *codec.Codec, opts ...ServerOption) *Server {
	s := &Server{
		store:        store,
		cdc:          cdc,
		validate:     validator.New(),
		maxScanPages: defaultScanPages,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	// The endpoints exist to be embedded in pages served from anywhere,
	// so CORS stays wide open.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Content-Type")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/public/menu", s.handleGetMenu)
	r.POST("/public/menu-order", s.handlePostOrder)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	s.engine = r
	return s
}

// requestLogger logs one line per request, errors at warn level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			s.logger.Warn("request failed", append(attrs, "errors", c.Errors.String())...)
			return
		}
		s.logger.Debug("request served", attrs...)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("public api listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
