package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/limbo/habit-tracker/docs"
	"github.com/limbo/habit-tracker/internal/service"
	"github.com/limbo/habit-tracker/pkg/cleanup"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

type Server struct {
	mx               *chi.Mux
	userService      service.UserServiceI
	habitsService    service.HabitsServiceI
	habitLogsService service.HabitLogsServiceI
	jwtService       JWTServiceI
	store            Pinger
}

type ServicesList struct {
	UserService      service.UserServiceI
	HabitsService    service.HabitsServiceI
	HabitLogsService service.HabitLogsServiceI
	JwtService       JWTServiceI
	// Optional, used by /healthz
	Store Pinger
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:               chi.NewMux(),
		userService:      servicesOptions.UserService,
		habitsService:    servicesOptions.HabitsService,
		habitLogsService: servicesOptions.HabitLogsService,
		jwtService:       servicesOptions.JwtService,
		store:            servicesOptions.Store,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware, middleware.Recoverer, s.AccessLogMiddleware, MetricsMiddleware)

	s.mx.Get("/", s.Root)
	s.mx.Get("/healthz", s.Health)
	s.mx.Handle("/metrics", MetricsHandler())
	s.mx.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	s.mx.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.Login)
			r.With(s.AuthMiddleware, s.LoggerExtensionMiddleware).Get("/me", s.Me)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.ListUsers)
			r.Post("/", s.CreateUser)
			r.Get("/{email}", s.GetUserByEmail)
			r.Delete("/{id}", s.DeleteUser)
		})
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.ListHabits)
			r.Get("/{id}", s.GetUserHabits)
			r.Post("/{id}", s.CreateHabit)
			r.Put("/{id}", s.UpdateHabit)
			r.Delete("/{id}", s.DeleteHabit)
			r.Get("/{id}/logs", s.GetHabitLogs)
			r.Post("/{id}/logs", s.LogHabit)
			r.Delete("/{id}/logs/{date}", s.UnlogHabit)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run blocks until the server stops. Shutdown is registered as a cleanup job.
func (s *Server) Run(address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	cleanup.Register(&cleanup.Job{
		Name: "shutting down api server",
		F: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
	slog.Info("api server started", slog.String("address", address))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
