// Package httpapi exposes the chat and search pipelines over HTTP. Access
// is gated on the enrolled-user directory; everything else is a thin JSON
// mapping onto the underlying services.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studyloop/tutorbridge/pkg/search"
	"github.com/studyloop/tutorbridge/pkg/store"
	"github.com/studyloop/tutorbridge/pkg/tutor"
)

// Chatter runs one chat turn; *tutor.Service satisfies it.
type Chatter interface {
	Chat(ctx context.Context, req tutor.ChatRequest) (*tutor.ChatResponse, error)
}

// SearchRunner runs one standalone search; *search.Service satisfies it.
type SearchRunner interface {
	Run(ctx context.Context, rawQuery string, limit int) (*search.Outcome, error)
}

type Config struct {
	Addr string `yaml:"addr"`
}

func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8080"
	}
	return c
}

type Service struct {
	conf     Config
	chatter  Chatter
	searcher SearchRunner
	users    *store.Store
	log      zerolog.Logger

	router *gin.Engine
	server *http.Server
}

func NewService(conf Config, chatter Chatter, searcher SearchRunner, users *store.Store, log zerolog.Logger) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Err(err).Msg("failed to set trusted proxies")
	}

	s := &Service{
		conf:     conf.WithDefaults(),
		chatter:  chatter,
		searcher: searcher,
		users:    users,
		log:      log.With().Str("component", "httpapi").Logger(),
		router:   router,
	}

	router.Use(
		gin.Recovery(),
		s.requestLogMiddleware(),
		corsMiddleware(),
	)
	s.initRouter()
	return s
}

func (s *Service) initRouter() {
	s.router.GET("/health", s.handleHealth)
	api := s.router.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/search", s.handleSearch)
	api.POST("/users", s.handleEnrollUser)
}

func (s *Service) ListenAndServe() error {
	s.server = &http.Server{
		Addr:    s.conf.Addr,
		Handler: s.router,
	}
	s.log.Info().Str("addr", s.conf.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.log.Debug().Err(err).Msg("failed to shut down HTTP server")
		return nil
	}
	s.log.Info().Msg("HTTP server stopped")
	return nil
}

// Router exposes the gin engine, mostly for tests.
func (s *Service) Router() *gin.Engine {
	return s.router
}

func (s *Service) requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request handled")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
