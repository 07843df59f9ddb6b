package router

import (
	"context"
	"time"

	"telecare/config"
	"telecare/internal/handler"
	"telecare/internal/middleware"
	"telecare/internal/repository"
	"telecare/internal/service"
	"telecare/internal/ws"
	"telecare/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(ctx context.Context, cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, mirror *ws.Mirror) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	consultationRepo := repository.NewConsultationRepository(db)
	rxRepo := repository.NewPrescriptionRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc)
	consultationSvc := service.NewConsultationService(consultationRepo, apptRepo)
	go consultationSvc.RunMissedSweeper(ctx, cfg.Consultation.RingTimeout, cfg.Consultation.SweepInterval)

	// Signaling
	registry := ws.NewMemoryRegistry(mirror)
	relay := ws.NewRelay(registry, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, doctorRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, doctorRepo, cloud)
	doctorHandler := handler.NewDoctorHandler(doctorRepo, userRepo, registry)
	apptHandler := handler.NewAppointmentHandler(apptRepo, userRepo, notifSvc)
	consultationHandler := handler.NewConsultationHandler(consultationSvc)
	rxHandler := handler.NewPrescriptionHandler(rxRepo, apptRepo, userRepo, notifSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackRepo, apptRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	doctorOnly := middleware.RequireRole("DOCTOR")
	patientOnly := middleware.RequireRole("PATIENT")

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		api.GET("/doctors", authMw, doctorHandler.List)
		api.GET("/doctors/:id", authMw, doctorHandler.Get)
		api.GET("/doctors/:id/feedback", authMw, feedbackHandler.ListForDoctor)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.POST("/avatar", meHandler.UploadAvatar)
			me.POST("/fcm-token", meHandler.RegisterFCMToken)
			me.GET("/appointments", apptHandler.ListMine)
			me.GET("/consultations/active", consultationHandler.Active)
			me.GET("/prescriptions", rxHandler.ListMine)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		api.POST("/appointments", authMw, patientOnly, apptHandler.Book)
		api.POST("/appointments/:id/approve", authMw, doctorOnly, apptHandler.Approve)
		api.POST("/appointments/:id/cancel", authMw, apptHandler.Cancel)

		api.POST("/consultations/start", authMw, doctorOnly, consultationHandler.Start)
		api.POST("/consultations/:id/end", authMw, consultationHandler.End)
		api.PATCH("/consultations/:id/notes", authMw, doctorOnly, consultationHandler.SaveNotes)

		api.POST("/prescriptions", authMw, doctorOnly, rxHandler.Issue)
		api.POST("/feedback", authMw, patientOnly, feedbackHandler.Create)
	}

	r.GET("/ws/signal", handler.UpgradeSignalWS(&cfg.JWT, registry, relay))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
