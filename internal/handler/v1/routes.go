package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labpoint/labportal/internal/service"
	"github.com/labpoint/labportal/pkg/auth"
	"github.com/labpoint/labportal/pkg/metrics"
	"go.uber.org/zap"
)

type Router struct {
	authSvc    *service.AuthService
	bookingSvc *service.BookingService
	reportSvc  *service.ReportService
	catalogSvc *service.CatalogService
	jwtManager *auth.JWTManager
	collector  *metrics.Collector
	log        *zap.Logger
}

func NewRouter(
	authSvc *service.AuthService,
	bookingSvc *service.BookingService,
	reportSvc *service.ReportService,
	catalogSvc *service.CatalogService,
	jwtManager *auth.JWTManager,
	collector *metrics.Collector,
	log *zap.Logger,
) *Router {
	return &Router{
		authSvc:    authSvc,
		bookingSvc: bookingSvc,
		reportSvc:  reportSvc,
		catalogSvc: catalogSvc,
		jwtManager: jwtManager,
		collector:  collector,
		log:        log,
	}
}

func (r *Router) Register(engine *gin.Engine) {
	engine.Use(Observe(r.collector, r.log))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authH := NewAuthHandler(r.authSvc)
	bookingH := NewBookingHandler(r.bookingSvc, r.collector)
	reportH := NewReportHandler(r.reportSvc, r.collector)
	catalogH := NewCatalogHandler(r.catalogSvc)

	patientOnly := RequireAuth(r.jwtManager, auth.ActorPatient)
	adminOnly := RequireAuth(r.jwtManager, auth.ActorAdmin)

	api := engine.Group("/api")
	{
		authGrp := api.Group("/auth")
		{
			authGrp.POST("/register-email", authH.RegisterEmail)
			authGrp.POST("/login-email", authH.LoginEmail)
			authGrp.POST("/verify-email", authH.VerifyEmail)
			authGrp.POST("/resend-verification", authH.ResendVerification)
			authGrp.POST("/forgot-password", authH.ForgotPassword)
			authGrp.POST("/reset-password", authH.ResetPassword)
			authGrp.POST("/login-external", authH.LoginExternal)
			authGrp.POST("/admin/login", authH.LoginAdmin)
		}

		api.GET("/tests", catalogH.List)
		api.GET("/tests/:id", catalogH.Get)

		// Bookings are open to guests; ownership and role checks happen
		// per-operation below.
		api.POST("/bookings", bookingH.Create)
		api.POST("/bookings/:id/payment-order", bookingH.CreatePaymentOrder)
		api.POST("/bookings/:id/confirm-payment", bookingH.ConfirmPayment)

		// The token itself is the capability; no session required.
		api.GET("/reports/download/:token", reportH.Download)

		patient := api.Group("/patient", patientOnly)
		{
			patient.GET("/bookings", bookingH.ListOwn)
			patient.PATCH("/bookings/:id/payment", bookingH.RecordPayment)
			patient.GET("/reports", reportH.ListOwn)
		}

		admin := api.Group("/admin", adminOnly)
		{
			admin.GET("/bookings", bookingH.List)
			admin.GET("/bookings/:id", bookingH.Get)
			admin.PATCH("/bookings/:id/status", bookingH.UpdateStatus)
			admin.PATCH("/bookings/:id/verify-payment", bookingH.VerifyPayment)

			admin.POST("/reports/generate", reportH.Generate)

			admin.POST("/tests", catalogH.Create)
			admin.PUT("/tests/:id", catalogH.Update)
			admin.DELETE("/tests/:id", catalogH.Delete)
		}
	}
}
