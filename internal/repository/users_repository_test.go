package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/internal/repository"
	"github.com/limbo/habit-tracker/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	nu := entity.NewUser{
		Email:        "a@x.com",
		PasswordHash: "test_password_hash",
		FirstName:    "A",
		LastName:     "B",
		Gender:       "F",
		Role:         entity.RoleUser,
	}
	insertUser := regexp.QuoteMeta(`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id, created_at, updated_at;`)
	insertProfile := regexp.QuoteMeta(`INSERT INTO profiles (user_id, first_name, last_name, gender, role) VALUES ($1, $2, $3, $4, $5);`)
	insertStats := regexp.QuoteMeta(`INSERT INTO user_stats (user_id, total_habits, total_groups) VALUES ($1, 0, 0);`)
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	uid := uuid.New()
	now := time.Now()

	t.Run("successfully created", func(t *testing.T) {
		conn.ExpectBegin()
		conn.ExpectQuery(insertUser).
			WithArgs(nu.Email, nu.PasswordHash).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(uid, now, now))
		conn.ExpectExec(insertProfile).
			WithArgs(uid, nu.FirstName, nu.LastName, nu.Gender, string(nu.Role)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		conn.ExpectExec(insertStats).
			WithArgs(uid).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		conn.ExpectCommit()
		user, err := repo.Create(ctx, &nu)
		require.NoError(t, err)
		assert.Equal(t, uid, user.ID)
		assert.Equal(t, nu.Email, user.Email)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("unique violation error", func(t *testing.T) {
		conn.ExpectBegin()
		conn.ExpectQuery(insertUser).
			WithArgs(nu.Email, nu.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		conn.ExpectRollback()
		_, err := repo.Create(ctx, &nu)
		assert.ErrorIs(t, err, errorvalues.ErrEmailTaken)
		assert.ErrorIs(t, err, errorvalues.ErrConflict)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("stats insert fails, everything rolled back", func(t *testing.T) {
		conn.ExpectBegin()
		conn.ExpectQuery(insertUser).
			WithArgs(nu.Email, nu.PasswordHash).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(uid, now, now))
		conn.ExpectExec(insertProfile).
			WithArgs(uid, nu.FirstName, nu.LastName, nu.Gender, string(nu.Role)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		conn.ExpectExec(insertStats).
			WithArgs(uid).
			WillReturnError(errors.New("db error"))
		conn.ExpectRollback()
		user, err := repo.Create(ctx, &nu)
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("begin error", func(t *testing.T) {
		conn.ExpectBegin().WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &nu)
		assert.Error(t, err)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("nil user", func(t *testing.T) {
		_, err := repo.Create(ctx, nil)
		assert.Error(t, err)
	})
}

func TestFindByEmail(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	user := entity.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		PasswordHash: "test_password_hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	query := regexp.QuoteMeta(`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1;`)
	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.Email).
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
				AddRow(user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt))
		result, err := repo.FindByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user, *result)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(user.Email).WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByEmail(ctx, user.Email)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(user.Email).WillReturnError(errors.New("db error"))
		_, err := repo.FindByEmail(ctx, user.Email)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestFindByID(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	uid := uuid.New()
	query := regexp.QuoteMeta(`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1;`)
	t.Run("found", func(t *testing.T) {
		now := time.Now()
		conn.ExpectQuery(query).
			WithArgs(uid).
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
				AddRow(uid, "a@x.com", "hash", now, now))
		result, err := repo.FindByID(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, uid, result.ID)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(uid).WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByID(ctx, uid)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestGetRole(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	uid := uuid.New()
	query := regexp.QuoteMeta(`SELECT role::text FROM profiles WHERE user_id = $1;`)
	t.Run("admin", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(uid).WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("ADMIN"))
		role, err := repo.GetRole(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, role)
	})
	t.Run("no profile", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(uid).WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetRole(ctx, uid)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestUserViews(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	now := time.Now()
	first, second := uuid.New(), uuid.New()
	viewCols := []string{"id", "email", "created_at", "updated_at", "profile_id", "first_name", "last_name", "gender", "role", "profile_created_at", "total_habits", "total_groups"}
	habitCols := []string{"id", "user_id", "title", "description", "frequency", "created_at", "updated_at"}
	groupCols := []string{"user_id", "id", "name", "description", "created_at"}
	usersQuery := regexp.QuoteMeta(`FROM users u`)
	habitsQuery := regexp.QuoteMeta(`FROM habits WHERE user_id = ANY($1::uuid[])`)
	groupsQuery := regexp.QuoteMeta(`FROM group_members gm JOIN groups g`)

	t.Run("list joins habits and groups", func(t *testing.T) {
		habitID, groupID := uuid.New(), uuid.New()
		conn.ExpectQuery(usersQuery).
			WillReturnRows(pgxmock.NewRows(viewCols).
				AddRow(first, "a@x.com", now, now, uuid.New(), "A", "B", "F", "USER", now, 1, 1).
				AddRow(second, "c@x.com", now, now, uuid.New(), "C", "D", "M", "ADMIN", now, 0, 0))
		conn.ExpectQuery(habitsQuery).
			WithArgs([]string{first.String(), second.String()}).
			WillReturnRows(pgxmock.NewRows(habitCols).AddRow(habitID, first, "Run", "daily run", "DAILY", now, now))
		conn.ExpectQuery(groupsQuery).
			WithArgs([]string{first.String(), second.String()}).
			WillReturnRows(pgxmock.NewRows(groupCols).AddRow(first, groupID, "runners", "", now))
		views, err := repo.ListViews(ctx)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, first, views[0].Profile.UserID)
		assert.Equal(t, 1, views[0].Profile.UserStats.TotalHabits)
		require.Len(t, views[0].Profile.Habits, 1)
		assert.Equal(t, entity.FrequencyDaily, views[0].Profile.Habits[0].Frequency)
		require.Len(t, views[0].Profile.Groups, 1)
		assert.Equal(t, groupID, views[0].Profile.Groups[0].ID)
		assert.Equal(t, entity.RoleAdmin, views[1].Profile.Role)
		assert.Empty(t, views[1].Profile.Habits)
		assert.NotNil(t, views[1].Profile.Habits)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("empty list skips nested queries", func(t *testing.T) {
		conn.ExpectQuery(usersQuery).WillReturnRows(pgxmock.NewRows(viewCols))
		views, err := repo.ListViews(ctx)
		require.NoError(t, err)
		assert.Empty(t, views)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("view by email not found", func(t *testing.T) {
		conn.ExpectQuery(usersQuery).WithArgs("none@x.com").WillReturnRows(pgxmock.NewRows(viewCols))
		_, err := repo.GetViewByEmail(ctx, "none@x.com")
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("view by id", func(t *testing.T) {
		conn.ExpectQuery(usersQuery).
			WithArgs(first).
			WillReturnRows(pgxmock.NewRows(viewCols).AddRow(first, "a@x.com", now, now, uuid.New(), "A", "B", "F", "USER", now, 0, 0))
		conn.ExpectQuery(habitsQuery).WithArgs([]string{first.String()}).WillReturnRows(pgxmock.NewRows(habitCols))
		conn.ExpectQuery(groupsQuery).WithArgs([]string{first.String()}).WillReturnRows(pgxmock.NewRows(groupCols))
		view, err := repo.GetViewByID(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", view.Email)
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(usersQuery).WillReturnError(errors.New("db error"))
		_, err := repo.ListViews(ctx)
		assert.Error(t, err)
	})
}

func TestDeleteUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	uid := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM users WHERE id = $1;`)
	t.Run("deleted", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(uid).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(ctx, uid))
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(uid).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, uid), errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(uid).WillReturnError(errors.New("db error"))
		assert.Error(t, repo.Delete(ctx, uid))
	})
}

func TestResetTables(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	conn.ExpectBegin()
	conn.ExpectExec(regexp.QuoteMeta(`TRUNCATE notifications`)).WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	conn.ExpectCommit()
	assert.NoError(t, repository.ResetTables(context.Background(), conn))
	assert.NoError(t, conn.ExpectationsWereMet())
}
