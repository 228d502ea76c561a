package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dailylog/dailylog-backend-go/internal/config"
	appHTTP "github.com/dailylog/dailylog-backend-go/internal/handler/http"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/database"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/email"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/jwt"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/token"
	"github.com/dailylog/dailylog-backend-go/internal/repository/postgresql"
	attendanceService "github.com/dailylog/dailylog-backend-go/internal/service/attendance"
	serviceAuth "github.com/dailylog/dailylog-backend-go/internal/service/auth"
	employeeService "github.com/dailylog/dailylog-backend-go/internal/service/employee"
	reportService "github.com/dailylog/dailylog-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	adminRepo := postgresql.NewAdminRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	resetTokens := token.NewStore(serviceAuth.ResetTokenTTL)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	authService := serviceAuth.NewAuthService(employeeRepo, adminRepo, JWTService, resetTokens, emailService, cfg.App.FrontendURL)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, cfg.Workday)
	reportSvc := reportService.NewReportService(attendanceRepo, employeeRepo, cfg.Workday)

	authHandler := appHTTP.NewAuthHandler(authService, JWTService)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		authHandler,
		employeeHandler,
		attendanceHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
