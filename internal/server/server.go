package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paylane/paylane/internal/config"
	"github.com/paylane/paylane/internal/event"
	"github.com/paylane/paylane/internal/idempotency"
	"github.com/paylane/paylane/internal/observability"
	obsmiddleware "github.com/paylane/paylane/internal/observability/logger"
	obsmetrics "github.com/paylane/paylane/internal/observability/metrics"
	obstracing "github.com/paylane/paylane/internal/observability/tracing"
	"github.com/paylane/paylane/internal/payment"
	paymentdomain "github.com/paylane/paylane/internal/payment/domain"
	"github.com/paylane/paylane/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	idempotency.Module,
	event.Module,
	payment.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	paymentSvc paymentdomain.Service
	bucket     *ratelimit.TokenBucket
	obsMetrics *obsmetrics.Metrics
	log        *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	PaymentSvc paymentdomain.Service
	Bucket     *ratelimit.TokenBucket `optional:"true"`
	ObsMetrics *obsmetrics.Metrics    `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		paymentSvc: p.PaymentSvc,
		bucket:     p.Bucket,
		obsMetrics: p.ObsMetrics,
		log:        p.Log.Named("http.server"),
	}

	svc.registerPaymentRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPaymentRoutes() {
	payments := s.engine.Group("/payments")

	payments.POST("",
		ratelimit.GinMiddleware(s.bucket, s.cfg, s.obsMetrics, s.log),
		s.CreatePayment,
	)
	payments.GET("/:paymentId", s.GetPayment)
	payments.GET("/:paymentId/events", s.ListPaymentEvents)

	payments.POST("/:paymentId/authorize", s.AuthorizePayment)
	payments.POST("/:paymentId/settle", s.SettlePayment)
	payments.POST("/:paymentId/cancel", s.CancelPayment)
	payments.POST("/:paymentId/fail", s.FailPayment)
	payments.POST("/:paymentId/reverse", s.ReversePayment)
}
