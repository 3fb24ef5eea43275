package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/internal/repository"
	"github.com/limbo/habit-tracker/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo repository.UsersRepositoryI
}

func NewUserService(usersRepo repository.UsersRepositoryI) *UserService {
	if usersRepo == nil {
		log.Fatal("provided nil usersRepo")
	}
	return &UserService{
		repo: usersRepo,
	}
}

func (us *UserService) Register(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	if req == nil {
		return nil, errorvalues.ErrMissingFields
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	// Checked before hashing so duplicates are rejected cheaply; the unique
	// index still catches concurrent signups.
	_, err := us.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, errorvalues.ErrEmailTaken
	case !errors.Is(err, errorvalues.ErrUserNotFound):
		return nil, errors.New("repository searching error: " + err.Error())
	}
	passwordHash, err := Hash(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errorvalues.ErrPasswordTooLong
		}
		return nil, errors.New("hashing password error: " + err.Error())
	}
	role := entity.RoleUser
	if req.Role != "" {
		role = entity.Role(req.Role)
	}
	user, err := us.repo.Create(ctx, &entity.NewUser{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrEmailTaken) {
			return nil, err
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) Login(ctx context.Context, req *LoginRequest) (*entity.User, error) {
	if req == nil {
		return nil, errorvalues.ErrMissingFields
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := us.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			checkPassword(string(dummyHash()), req.Password)
			return nil, errorvalues.ErrInvalidCredentials
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if !checkPassword(user.PasswordHash, req.Password) {
		return nil, errorvalues.ErrInvalidCredentials
	}
	return user, nil
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) GetView(ctx context.Context, id uuid.UUID) (*entity.UserView, error) {
	view, err := us.repo.GetViewByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return view, nil
}

func (us *UserService) GetByEmail(ctx context.Context, email string) (*entity.UserView, error) {
	if email == "" {
		return nil, errorvalues.ErrMissingFields
	}
	view, err := us.repo.GetViewByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return view, nil
}

func (us *UserService) ListUsers(ctx context.Context) ([]*entity.UserView, error) {
	views, err := us.repo.ListViews(ctx)
	if err != nil {
		return nil, errors.New("repository listing error: " + err.Error())
	}
	return views, nil
}

func (us *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	role, err := us.repo.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return err
		}
		return errors.New("repository searching error: " + err.Error())
	}
	if role == entity.RoleAdmin {
		return errorvalues.ErrAdminProtected
	}
	err = us.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return err
		}
		return errors.New("repository deletion error: " + err.Error())
	}
	return nil
}
