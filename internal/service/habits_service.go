package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/internal/repository"
	"github.com/limbo/habit-tracker/pkg/entity"
)

type HabitsService struct {
	repo      repository.HabitsRepositoryI
	usersRepo repository.UsersRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI, usersRepo repository.UsersRepositoryI) *HabitsService {
	if habitsRepo == nil || usersRepo == nil {
		log.Fatal("on habits service provided nil repos")
	}
	return &HabitsService{
		repo:      habitsRepo,
		usersRepo: usersRepo,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req HabitRequest) (*entity.Habit, error) {
	if err := hs.ensureUser(ctx, uid); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	habit, err := hs.repo.Create(ctx, &entity.Habit{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   frequencyOrDefault(req.Frequency),
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) ListHabits(ctx context.Context) ([]*entity.Habit, error) {
	habits, err := hs.repo.List(ctx)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	if err := hs.ensureUser(ctx, uid); err != nil {
		return nil, err
	}
	habits, err := hs.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID uuid.UUID, req HabitRequest) (*entity.Habit, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	habit, err := hs.repo.Update(ctx, &entity.Habit{
		ID:          habitID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   frequencyOrDefault(req.Frequency),
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID uuid.UUID) error {
	err := hs.repo.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) ensureUser(ctx context.Context, uid uuid.UUID) error {
	_, err := hs.usersRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return err
		}
		return errors.New("users repository error: " + err.Error())
	}
	return nil
}

func frequencyOrDefault(f string) entity.Frequency {
	if f == "" {
		return entity.FrequencyDaily
	}
	return entity.Frequency(f)
}
