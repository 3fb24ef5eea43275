package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/internal/repository"
	"github.com/limbo/habit-tracker/pkg/entity"
)

type HabitLogsService struct {
	habitsRepo repository.HabitsRepositoryI
	logsRepo   repository.HabitLogsRepositoryI
	now        func() time.Time
}

func NewHabitLogsService(habitsRepo repository.HabitsRepositoryI, logsRepo repository.HabitLogsRepositoryI) *HabitLogsService {
	if habitsRepo == nil || logsRepo == nil {
		log.Fatal("on habit logs service provided nil repos")
	}
	return &HabitLogsService{
		habitsRepo: habitsRepo,
		logsRepo:   logsRepo,
		now:        time.Now,
	}
}

// Logs are stored per calendar day in UTC.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (serv *HabitLogsService) LogHabit(ctx context.Context, habitID uuid.UUID, date time.Time) (*entity.HabitLog, error) {
	if err := serv.ensureHabit(ctx, habitID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = serv.now()
	}
	date = day(date)
	if date.After(day(serv.now())) {
		return nil, errorvalues.ErrFutureDate
	}
	habitLog, err := serv.logsRepo.Create(ctx, habitID, date)
	if err != nil {
		if errors.Is(err, errorvalues.ErrLogExists) || errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return habitLog, nil
}

func (serv *HabitLogsService) UnlogHabit(ctx context.Context, habitID uuid.UUID, date time.Time) error {
	if err := serv.ensureHabit(ctx, habitID); err != nil {
		return err
	}
	err := serv.logsRepo.Delete(ctx, habitID, day(date))
	if err != nil {
		if errors.Is(err, errorvalues.ErrLogNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

// GetHabitLogs defaults to the last 30 days when the range is not given.
func (serv *HabitLogsService) GetHabitLogs(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.HabitLog, error) {
	if err := serv.ensureHabit(ctx, habitID); err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = serv.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	from, to = day(from), day(to)
	if from.After(to) {
		return nil, errorvalues.ErrInvalidDate
	}
	logs, err := serv.logsRepo.GetByHabitAndDateRange(ctx, habitID, from, to)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return logs, nil
}

func (serv *HabitLogsService) ensureHabit(ctx context.Context, habitID uuid.UUID) error {
	_, err := serv.habitsRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}
