package app

import (
	"context"
	"fmt"
	"log"

	"dabbatrack-service/internal/config"
	"dabbatrack-service/internal/db"
	attendanceHandler "dabbatrack-service/internal/handlers/attendance"
	authHandler "dabbatrack-service/internal/handlers/auth"
	billingHandler "dabbatrack-service/internal/handlers/billing"
	customerHandler "dabbatrack-service/internal/handlers/customer"
	dashboardHandler "dabbatrack-service/internal/handlers/dashboard"
	pauseHandler "dabbatrack-service/internal/handlers/pause"
	userHandler "dabbatrack-service/internal/handlers/user"
	"dabbatrack-service/internal/middleware"
	"dabbatrack-service/internal/pkg/jwt"
	"dabbatrack-service/internal/pkg/session"
	"dabbatrack-service/internal/repository/postgres"
	attendanceUsecase "dabbatrack-service/internal/service/attendance"
	authUsecase "dabbatrack-service/internal/service/auth"
	billingUsecase "dabbatrack-service/internal/service/billing"
	customerUsecase "dabbatrack-service/internal/service/customer"
	dashboardUsecase "dabbatrack-service/internal/service/dashboard"
	pauseUsecase "dabbatrack-service/internal/service/pause"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := postgres.Connect(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- JWT, Sessions, Rate Limiting -----
	tokenGenerator := jwt.NewGenerator(s.cfg.JWT)
	tokenVerifier := jwt.NewVerifier(s.cfg.JWT)
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	attendanceRepo := postgres.NewAttendanceRepository(pool)
	pauseRepo := postgres.NewPauseWindowRepository(pool)
	planRepo := postgres.NewTiffinPlanRepository(pool)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		userRepo,
		sessionManager,
		rateLimiter,
		tokenGenerator,
		tokenVerifier,
		authUsecase.OTPConfig{
			CustomerOTP: s.cfg.CustomerOTP,
			VendorOTP:   s.cfg.VendorOTP,
		},
		logger,
	)
	customerService := customerUsecase.NewCustomerService(customerRepo, logger)
	attendanceService := attendanceUsecase.NewAttendanceService(attendanceRepo, logger)
	pauseService := pauseUsecase.NewPauseService(pauseRepo, logger)
	billingService := billingUsecase.NewBillingService(
		planRepo,
		attendanceRepo,
		customerRepo,
		pauseRepo,
		logger,
	)
	dashboardService := dashboardUsecase.NewDashboardService(
		customerRepo,
		planRepo,
		attendanceRepo,
		pauseRepo,
		logger,
	)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
		middleware.Identify(authService, logger),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:       authHandler.NewAuthHandler(authService),
		UserHandler:       userHandler.NewUserHandler(authService),
		CustomerHandler:   customerHandler.NewCustomerHandler(customerService),
		AttendanceHandler: attendanceHandler.NewAttendanceHandler(attendanceService),
		PauseHandler:      pauseHandler.NewPauseHandler(pauseService),
		BillingHandler:    billingHandler.NewBillingHandler(billingService),
		DashboardHandler:  dashboardHandler.NewDashboardHandler(dashboardService),
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
