package server

import (
	"context"
	"net/http"
	"time"

	"github.com/empresia/walletadmin/internal/config"
	"github.com/empresia/walletadmin/internal/telemetry"
	"github.com/empresia/walletadmin/internal/tenantstore"
	storedomain "github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	tenantstore.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterRoutes()
	}),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(telemetry.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Params struct {
	fx.In

	Cfg    config.Config
	Log    *zap.Logger
	Engine *gin.Engine
	Store  storedomain.Service
}

type Server struct {
	cfg    config.Config
	log    *zap.Logger
	engine *gin.Engine
	store  storedomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:    p.Cfg,
		log:    p.Log.Named("http.server"),
		engine: p.Engine,
		store:  p.Store,
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.POST("/auth/login", s.Login)
	s.engine.POST("/auth/logout", s.Logout)

	api := s.engine.Group("/api/v1", s.TenantMiddleware())

	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.POST("/customers/import", s.ImportCustomers)
	api.GET("/customers/export", s.ExportCustomers)

	api.GET("/dashboard", s.GetDashboard)

	api.GET("/push/immediate", s.ListImmediatePushes)
	api.POST("/push/immediate", s.SendImmediatePush)
	api.GET("/push/scheduled", s.ListScheduledPushes)
	api.POST("/push/scheduled", s.CreateScheduledPush)
	api.PATCH("/push/scheduled/:id", s.UpdateScheduledPush)

	api.GET("/geofence", s.GetGeofence)
	api.PUT("/geofence", s.SaveGeofence)

	api.GET("/wallets", s.ListWallets)
	api.POST("/wallets", s.CreateWallet)
	api.PATCH("/wallets/:id", s.UpdateWallet)
}

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					// Ask fx to unwind so OnStop hooks still run.
					log.Error("http server failed", zap.Error(err))
					if err := shutdowner.Shutdown(); err != nil {
						log.Error("shutdown request failed", zap.Error(err))
					}
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
