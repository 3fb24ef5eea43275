package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/pkg/entity"
)

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(conn PgConnection) *UsersRepository {
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) Create(ctx context.Context, nu *entity.NewUser) (*entity.User, error) {
	if nu == nil {
		return nil, errors.New("user is nil")
	}
	user := entity.User{
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
	}
	err := withTx(ctx, ur.conn, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id, created_at, updated_at;`,
			nu.Email,
			nu.PasswordHash,
		)
		if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				// Unique violation
				case "23505":
					return errorvalues.ErrEmailTaken
				}
			}
			return errors.New("creating user db error: " + err.Error())
		}
		_, err := tx.Exec(ctx, `INSERT INTO profiles (user_id, first_name, last_name, gender, role) VALUES ($1, $2, $3, $4, $5);`,
			user.ID,
			nu.FirstName,
			nu.LastName,
			nu.Gender,
			string(nu.Role),
		)
		if err != nil {
			return errors.New("creating profile db error: " + err.Error())
		}
		_, err = tx.Exec(ctx, `INSERT INTO user_stats (user_id, total_habits, total_groups) VALUES ($1, 0, 0);`, user.ID)
		if err != nil {
			return errors.New("creating user stats db error: " + err.Error())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *UsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	row := ur.conn.QueryRow(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1;`, email)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by email error: " + err.Error())
	}
	return &user, nil
}

func (ur *UsersRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	var user entity.User
	row := ur.conn.QueryRow(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1;`, uid)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by id error: " + err.Error())
	}
	return &user, nil
}

func (ur *UsersRepository) GetRole(ctx context.Context, uid uuid.UUID) (entity.Role, error) {
	var role string
	row := ur.conn.QueryRow(ctx, `SELECT role::text FROM profiles WHERE user_id = $1;`, uid)
	if err := row.Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorvalues.ErrUserNotFound
		}
		return "", errors.New("getting user role error: " + err.Error())
	}
	return entity.Role(role), nil
}

func (ur *UsersRepository) ListViews(ctx context.Context) ([]*entity.UserView, error) {
	return ur.loadViews(ctx, "")
}

func (ur *UsersRepository) GetViewByEmail(ctx context.Context, email string) (*entity.UserView, error) {
	views, err := ur.loadViews(ctx, "WHERE u.email = $1", email)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, errorvalues.ErrUserNotFound
	}
	return views[0], nil
}

func (ur *UsersRepository) GetViewByID(ctx context.Context, uid uuid.UUID) (*entity.UserView, error) {
	views, err := ur.loadViews(ctx, "WHERE u.id = $1", uid)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, errorvalues.ErrUserNotFound
	}
	return views[0], nil
}

func (ur *UsersRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	ct, err := ur.conn.Exec(ctx, `DELETE FROM users WHERE id = $1;`, uid)
	if err != nil {
		return errors.New("deleting user error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}
