package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/habit-tracker/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates user, its profile and zeroed stats in one transaction
	Create(ctx context.Context, user *entity.NewUser) (*entity.User, error)
	// Looks up user by email. Used for login and duplicate checks
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Returns role stored in user's profile
	GetRole(ctx context.Context, uid uuid.UUID) (entity.Role, error)
	// Lists users joined with profiles, stats, habits and groups
	ListViews(ctx context.Context) ([]*entity.UserView, error)
	// Same view as ListViews but for one user
	GetViewByEmail(ctx context.Context, email string) (*entity.UserView, error)
	GetViewByID(ctx context.Context, uid uuid.UUID) (*entity.UserView, error)
	// Deletes user. Dependent rows are removed by FK cascades
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Inserts habit and increments owner's total_habits atomically. Returns stored habit
	Create(ctx context.Context, habit *entity.Habit) (*entity.Habit, error)
	// Searches habit with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists every habit with its owner summary
	List(ctx context.Context) ([]*entity.Habit, error)
	// Lists habits owned by user with uid
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	// Updates habit by ID (ID in habit is necessary)
	Update(ctx context.Context, habit *entity.Habit) (*entity.Habit, error)
	// Deletes habit and decrements owner's total_habits atomically
	Delete(ctx context.Context, id uuid.UUID) error
}

type HabitLogsRepositoryI interface {
	// Creates new log on habit with habitID for a day
	Create(ctx context.Context, habitID uuid.UUID, date time.Time) (*entity.HabitLog, error)
	// Deletes log on habit with habitID for a day
	Delete(ctx context.Context, habitID uuid.UUID, date time.Time) error
	// Provides logs of habitID for a period, both ends included
	GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.HabitLog, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	// URL takes precedence over the separate fields when set
	URL      string
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	if pgcfg.URL != "" {
		return pgcfg.URL
	}
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
