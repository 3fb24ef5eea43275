package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habit-tracker/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_services.go -package=mocks

type CreateUserRequest struct {
	Email     string `validate:"required,email,max=254"`
	Password  string `validate:"required,bcryptmax"`
	Gender    string `validate:"required,max=32"`
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
	Role      string `validate:"omitempty,role"`
}

type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type HabitRequest struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=2000"`
	Frequency   string `validate:"omitempty,frequency"`
}

type UserServiceI interface {
	// Validates input, rejects taken emails, creates user with profile and stats
	Register(ctx context.Context, req *CreateUserRequest) (*entity.User, error)
	// Checks credentials. Unknown email and wrong password give the same error
	Login(ctx context.Context, req *LoginRequest) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetView(ctx context.Context, id uuid.UUID) (*entity.UserView, error)
	GetByEmail(ctx context.Context, email string) (*entity.UserView, error)
	ListUsers(ctx context.Context) ([]*entity.UserView, error)
	// Deletes non-admin user with everything it owns
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type HabitsServiceI interface {
	CreateHabit(ctx context.Context, uid uuid.UUID, req HabitRequest) (*entity.Habit, error)
	ListHabits(ctx context.Context) ([]*entity.Habit, error)
	GetUserHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	UpdateHabit(ctx context.Context, habitID uuid.UUID, req HabitRequest) (*entity.Habit, error)
	DeleteHabit(ctx context.Context, habitID uuid.UUID) error
}

type HabitLogsServiceI interface {
	LogHabit(ctx context.Context, habitID uuid.UUID, date time.Time) (*entity.HabitLog, error)
	UnlogHabit(ctx context.Context, habitID uuid.UUID, date time.Time) error
	GetHabitLogs(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.HabitLog, error)
}
