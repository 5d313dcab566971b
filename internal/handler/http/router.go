package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/authsphere/authsphere-backend-go/internal/config"
	"github.com/authsphere/authsphere-backend-go/internal/handler/http/middleware"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Task       TaskHandler
	User       UserHandler
	Admin      AdminHandler
	Events     EventsHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "authsphere-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Get("/verify-email", h.Auth.VerifyEmail)
			r.Post("/resend-verification", h.Auth.ResendVerification)
			r.Get("/google", h.Auth.GoogleLogin)
			r.Get("/google/callback", h.Auth.GoogleCallback)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires a verified access token.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/reset", h.Attendance.ResetToday)
				r.Get("/today", h.Attendance.Today)
				r.Get("/history", h.Attendance.MyHistory)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/team", h.Attendance.TeamHistory)
					r.Patch("/{id}/status", h.Attendance.OverrideStatus)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", h.Task.Create)
				r.Get("/", h.Task.ListMine)
				r.Post("/reply-attachments", h.Task.UploadReplyAttachment)
				r.Get("/{id}", h.Task.Get)
				r.Patch("/{id}/status", h.Task.SetStatus)
				r.Post("/{id}/complete", h.Task.Complete)
				r.Post("/{id}/reply", h.Task.SubmitReply)
				r.Delete("/{id}", h.Task.Delete)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/assign", h.Task.Assign)
					r.Get("/assigned", h.Task.ListAssigned)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.User.List)
				r.With(middleware.RequireManager).Get("/team", h.User.Team)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Put("/users/{id}", h.Admin.UpdateUser)
				r.Delete("/users/{id}", h.Admin.SoftDeleteUser)
				r.Get("/users/{id}/login-history", h.Admin.LoginHistory)
				r.Get("/removed-users", h.Admin.ListRemoved)
				r.Post("/removed-users/{id}/restore", h.Admin.RestoreUser)
				r.Delete("/removed-users/{id}", h.Admin.PermanentDeleteUser)
			})

			r.Get("/events", h.Events.Stream)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return r
}
