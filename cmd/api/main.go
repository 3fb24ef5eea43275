// @title Habit-tracker API
// @description API for habit-tracker app "Discipline"
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/limbo/habit-tracker/internal/api"
	"github.com/limbo/habit-tracker/internal/repository"
	"github.com/limbo/habit-tracker/internal/service"
	"github.com/limbo/habit-tracker/pkg/cleanup"
	"github.com/limbo/habit-tracker/pkg/config"
	jwtservice "github.com/limbo/habit-tracker/pkg/jwt_service"
	"github.com/limbo/habit-tracker/pkg/logger"
	"github.com/pressly/goose"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("config error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat))

	dbCfg := &repository.PGCfg{
		URL:      cfg.DatabaseURL,
		Address:  cfg.PostgresAddress,
		Username: cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DB:       cfg.PostgresDB,
	}
	if cfg.MigrateOnStart {
		if err = migrate(dbCfg.ConnString(), cfg.MigrationsDir); err != nil {
			slog.Error("migrations error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	pool, err := repository.Connect(ctx, dbCfg)
	if err != nil {
		slog.Error("db connection error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is empty, login and signup will fail until it is set")
	}
	usersRepo := repository.NewUsersRepo(pool)
	habitsRepo := repository.NewHabitsRepo(pool)
	serv := api.New(&api.ServicesList{
		UserService:      service.NewUserService(usersRepo),
		HabitsService:    service.NewHabitsService(habitsRepo, usersRepo),
		HabitLogsService: service.NewHabitLogsService(habitsRepo, repository.NewHabitLogsRepo(pool)),
		JwtService:       jwtservice.New(cfg.JWTSecret),
		Store:            pool,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- serv.Run(cfg.APIAddress)
	}()
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err = <-errCh:
		if err != nil {
			slog.Error("server error", slog.String("error", err.Error()))
		}
	}
	cleanup.CleanUp()
}

func migrate(connString, dir string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return errors.New("opening db for migrations error: " + err.Error())
	}
	defer db.Close()
	if err = goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err = goose.Up(db, dir); err != nil {
		return errors.New("applying migrations error: " + err.Error())
	}
	return nil
}
