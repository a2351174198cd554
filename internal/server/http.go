package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/lyricnote/internal/annotate"
	"github.com/lk2023060901/lyricnote/internal/conf"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

func NewHTTPServer(
	config *conf.Config,
	lgr *logger.Logger,
	svc *annotate.Service,
	gatherer prometheus.Gatherer,
) *HTTPServer {
	lgr = lgr.Named("http")

	return &HTTPServer{
		server: &http.Server{
			Addr:         config.Server.Addr(),
			Handler:      NewRouter(config.Server.Mode, lgr, svc, gatherer),
			ReadTimeout:  config.Server.ReadTimeout,
			WriteTimeout: config.Server.WriteTimeout,
		},
		logger: lgr,
	}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(mode string, lgr *logger.Logger, svc *annotate.Service, gatherer prometheus.Gatherer) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	router := gin.New()
	router.Use(logger.GinLogger(lgr, "/health", "/metrics"))
	router.Use(logger.GinRecovery(lgr))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	NewAnnotateHandler(svc, lgr).RegisterRoutes(api)

	return router
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
