package app

import (
	"database/sql"
	"path/filepath"

	"driftpro/internal/absence"
	"driftpro/internal/auth"
	"driftpro/internal/brreg"
	"driftpro/internal/chat"
	"driftpro/internal/company"
	"driftpro/internal/department"
	"driftpro/internal/deviation"
	"driftpro/internal/emailsettings"
	"driftpro/internal/messaging/kafka"
	"driftpro/internal/notification"
	"driftpro/internal/rbac"
	"driftpro/internal/rbac/infra"
	"driftpro/internal/realtime"
	"driftpro/internal/report"
	"driftpro/internal/shared/counter"
	"driftpro/internal/shift"
	"driftpro/internal/survey"
	"driftpro/internal/timeclock"
	"driftpro/internal/user"
	"driftpro/internal/vacation"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	shiftRepo := shift.NewRepository(gormDB)
	vacationRepo := vacation.NewRepository(gormDB)
	absenceRepo := absence.NewRepository(gormDB)
	deviationRepo := deviation.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	chatRepo := chat.NewRepository(gormDB)
	surveyRepo := survey.NewRepository(gormDB)
	emailRepo := emailsettings.NewRepository(gormDB)
	timeclockRepo := timeclock.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Realtime hub ---
	hub := realtime.NewHub()

	// --- Registry client ---
	registryClient := brreg.NewClient()

	// --- Services ---
	authService := auth.NewService(userRepo, rbacService)
	userService := user.NewService(db, userRepo)
	companyService := company.NewService(db, companyRepo, registryClient)
	departmentService := department.NewService(db, departmentRepo, rdb)
	shiftService := shift.NewService(db, shiftRepo)
	vacationService := vacation.NewService(db, vacationRepo, outboxRepo)
	absenceService := absence.NewService(db, absenceRepo, outboxRepo)
	deviationService := deviation.NewService(db, deviationRepo, counterRepo)
	notificationService := notification.NewService(db, notificationRepo, hub)
	chatService := chat.NewService(db, chatRepo, hub)
	surveyService := survey.NewService(db, surveyRepo)
	emailService := emailsettings.NewService(emailRepo, emailsettings.NewSMTPMailer())
	timeclockService := timeclock.NewService(db, timeclockRepo)
	reportService := report.NewService(reportRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	companyHandler := company.NewHandler(companyService)
	departmentHandler := department.NewHandler(departmentService)
	shiftHandler := shift.NewHandler(shiftService)
	vacationHandler := vacation.NewHandler(vacationService)
	absenceHandler := absence.NewHandler(absenceService)
	deviationHandler := deviation.NewHandler(deviationService)
	notificationHandler := notification.NewHandler(notificationService)
	chatHandler := chat.NewHandler(chatService)
	surveyHandler := survey.NewHandler(surveyService)
	emailHandler := emailsettings.NewHandler(emailService)
	timeclockHandler := timeclock.NewHandler(timeclockService)
	reportHandler := report.NewHandler(reportService)
	realtimeHandler := realtime.NewHandler(hub)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService)
		company.RegisterRoutes(api, companyHandler, rbacService)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		shift.RegisterRoutes(api, shiftHandler, rbacService)
		vacation.RegisterRoutes(api, vacationHandler, rbacService, rdb)
		absence.RegisterRoutes(api, absenceHandler, rbacService, rdb)
		deviation.RegisterRoutes(api, deviationHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		chat.RegisterRoutes(api, chatHandler)
		survey.RegisterRoutes(api, surveyHandler, rbacService)
		emailsettings.RegisterRoutes(api, emailHandler, rbacService)
		timeclock.RegisterRoutes(api, timeclockHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		realtime.RegisterRoutes(api, realtimeHandler)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
