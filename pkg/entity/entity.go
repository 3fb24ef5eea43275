package entity

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Profile struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Gender    string    `json:"gender"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserStats holds counters denormalized from habits and group memberships.
type UserStats struct {
	TotalHabits int `json:"totalHabits"`
	TotalGroups int `json:"totalGroups"`
}

type Habit struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"userId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Frequency   Frequency    `json:"frequency"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Owner       *UserSummary `json:"user,omitempty"`
}

type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type HabitLog struct {
	ID        uuid.UUID `json:"id"`
	HabitID   uuid.UUID `json:"habitId"`
	LogDate   time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProfileView is a profile joined with everything it owns.
type ProfileView struct {
	Profile
	Groups    []Group   `json:"groups"`
	Habits    []Habit   `json:"habits"`
	UserStats UserStats `json:"userStats"`
}

type UserView struct {
	User
	Profile ProfileView `json:"profile"`
}

// NewUser carries everything needed to create a user with its profile.
type NewUser struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Gender       string
	Role         Role
}
