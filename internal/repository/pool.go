package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/limbo/habit-tracker/pkg/cleanup"
)

// Connect opens the pool shared by all repositories and registers its shutdown.
func Connect(ctx context.Context, cfg DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, errors.New("creating pgxpool error: " + err.Error())
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.New("error while pinging pgxpool: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return pool, nil
}

// withTx runs fn inside a transaction. The transaction is committed only when
// fn returns nil; any error or panic rolls it back.
func withTx(ctx context.Context, conn PgConnection, fn func(tx pgx.Tx) error) (err error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return errors.New("begin tx error: " + err.Error())
	}
	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Default().Error("tx rollback failed", slog.String("error", rbErr.Error()))
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	// A failed commit closes the tx as well, nothing left to roll back.
	finished = true
	if err = tx.Commit(ctx); err != nil {
		return errors.New("commit tx error: " + err.Error())
	}
	return nil
}

// ResetTables wipes every table. Development and integration tests only.
func ResetTables(ctx context.Context, conn PgConnection) error {
	return withTx(ctx, conn, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `TRUNCATE notifications, group_members, groups, habit_logs, habits, user_stats, profiles, users;`)
		if err != nil {
			return errors.New("resetting tables error: " + err.Error())
		}
		return nil
	})
}
