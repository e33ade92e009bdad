package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/hopelink/hopelink/internal/auth"
	authdomain "github.com/hopelink/hopelink/internal/auth/domain"
	"github.com/hopelink/hopelink/internal/auth/session"
	"github.com/hopelink/hopelink/internal/checkout"
	checkoutdomain "github.com/hopelink/hopelink/internal/checkout/domain"
	"github.com/hopelink/hopelink/internal/config"
	"github.com/hopelink/hopelink/internal/contact"
	contactdomain "github.com/hopelink/hopelink/internal/contact/domain"
	"github.com/hopelink/hopelink/internal/donation"
	donationdomain "github.com/hopelink/hopelink/internal/donation/domain"
	"github.com/hopelink/hopelink/internal/newsletter"
	newsletterdomain "github.com/hopelink/hopelink/internal/newsletter/domain"
	"github.com/hopelink/hopelink/internal/observability"
	obsmiddleware "github.com/hopelink/hopelink/internal/observability/logger"
	obsmetrics "github.com/hopelink/hopelink/internal/observability/metrics"
	obstracing "github.com/hopelink/hopelink/internal/observability/tracing"
	"github.com/hopelink/hopelink/internal/payment"
	paymentdomain "github.com/hopelink/hopelink/internal/payment/domain"
	"github.com/hopelink/hopelink/internal/project"
	projectdomain "github.com/hopelink/hopelink/internal/project/domain"
	"github.com/hopelink/hopelink/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	project.Module,
	payment.Module,
	checkout.Module,
	donation.Module,
	contact.Module,
	newsletter.Module,
	email.Module,
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
	r.Use(obstracing.GinMiddleware(obsCfg.ServiceName))
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
			log.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
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
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	sessions      *session.Manager
	authsvc       authdomain.Service
	projectSvc    projectdomain.Service
	checkoutSvc   checkoutdomain.Service
	donationSvc   donationdomain.Service
	contactSvc    contactdomain.Service
	newsletterSvc newsletterdomain.Service
	webhooks      paymentdomain.WebhookVerifier
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Sessions      *session.Manager
	Authsvc       authdomain.Service
	ProjectSvc    projectdomain.Service
	CheckoutSvc   checkoutdomain.Service
	DonationSvc   donationdomain.Service
	ContactSvc    contactdomain.Service
	NewsletterSvc newsletterdomain.Service
	Webhooks      paymentdomain.WebhookVerifier
	ObsMetrics    *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		sessions:      p.Sessions,
		authsvc:       p.Authsvc,
		projectSvc:    p.ProjectSvc,
		checkoutSvc:   p.CheckoutSvc,
		donationSvc:   p.DonationSvc,
		contactSvc:    p.ContactSvc,
		newsletterSvc: p.NewsletterSvc,
		webhooks:      p.Webhooks,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.SignUp)
	auth.POST("/login", s.SignIn)
	auth.POST("/logout", s.SignOut)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Projects --------
	api.GET("/projects", s.ListProjects)
	api.GET("/projects/:id", s.GetProjectByID)

	// -------- Donations --------
	api.POST("/donations/checkout", s.OptionalAuth(), s.CreateDonationCheckout)
	api.GET("/donations/confirm", s.ConfirmDonation)
	api.GET("/donations/history", s.AuthRequired(), s.ListMyDonations)
	api.GET("/donations/recent", s.ListRecentDonations)
	api.GET("/donations/stats", s.GetDonationStats)

	// -------- Payment Webhooks --------
	api.POST("/stripe/webhook", s.HandleStripeWebhook)

	// -------- Contact / Newsletter --------
	api.POST("/contact", s.SubmitContactMessage)
	api.POST("/newsletter/subscribe", s.SubscribeNewsletter)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.AuthRequired())
	admin.Use(s.RequireRole(authdomain.RoleAdmin))

	admin.GET("/projects", s.ListAllProjects)
	admin.POST("/projects", s.CreateProject)
	admin.PATCH("/projects/:id", s.UpdateProject)
	admin.POST("/projects/:id/archive", s.ArchiveProject)
	// DELETE archives rather than removing the row, so recorded
	// donations keep a valid project reference.
	admin.DELETE("/projects/:id", s.ArchiveProject)
}
