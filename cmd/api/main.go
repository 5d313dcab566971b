package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/authsphere/authsphere-backend-go/internal/config"
	appHTTP "github.com/authsphere/authsphere-backend-go/internal/handler/http"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/cron"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/database"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/email"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/jwt"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/oauth"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/sse"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/storage"
	"github.com/authsphere/authsphere-backend-go/internal/repository/postgresql"
	attendanceService "github.com/authsphere/authsphere-backend-go/internal/service/attendance"
	authService "github.com/authsphere/authsphere-backend-go/internal/service/auth"
	"github.com/authsphere/authsphere-backend-go/internal/service/file"
	notificationService "github.com/authsphere/authsphere-backend-go/internal/service/notification"
	taskService "github.com/authsphere/authsphere-backend-go/internal/service/task"
	userService "github.com/authsphere/authsphere-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "authsphere-backend"),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	removedUserRepo := postgresql.NewRemovedUserRepository(db)
	loginHistoryRepo := postgresql.NewLoginHistoryRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	emailService, err := email.NewService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	hub := sse.NewHub()
	publisher := notificationService.NewSSEPublisher(hub, logger)

	loc := cfg.AttendanceLocation()

	fileSvc := file.NewFileService(fileStorage)
	authSvc := authService.NewAuthService(userRepo, loginHistoryRepo, jwtService, emailService, googleService, cfg.App.FrontendURL, logger)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, loc, cfg.Attendance.HistoryLimit)
	taskSvc := taskService.NewTaskService(taskRepo, userRepo, publisher)
	userSvc := userService.NewUserService(db, userRepo, removedUserRepo, loginHistoryRepo, attendanceRepo, publisher, emailService, logger)

	scheduler := cron.NewScheduler()
	cron.NewMaintenanceJobs(attendanceRepo, userRepo, loc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, jwtService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc, jwtService, googleService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Task:       appHTTP.NewTaskHandler(taskSvc, fileSvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Admin:      appHTTP.NewAdminHandler(userSvc),
		Events:     appHTTP.NewEventsHandler(hub),
	})

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
