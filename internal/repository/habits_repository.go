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

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(conn PgConnection) *HabitsRepository {
	return &HabitsRepository{
		conn: conn,
	}
}

// Create inserts the habit and bumps the owner's counter in one transaction.
// The counter is changed by a relative delta so concurrent writers settle
// to the real row count.
func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	if habit == nil {
		return nil, errors.New("habit is nil")
	}
	created := *habit
	err := withTx(ctx, hr.conn, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `INSERT INTO habits (user_id, title, description, frequency) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at;`,
			habit.UserID,
			habit.Title,
			habit.Description,
			string(habit.Frequency),
		)
		if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				// FK violation
				case "23503":
					return errorvalues.ErrUserNotFound
				}
			}
			return errors.New("creating habit db error: " + err.Error())
		}
		ct, err := tx.Exec(ctx, `UPDATE user_stats SET total_habits = total_habits + 1 WHERE user_id = $1;`, habit.UserID)
		if err != nil {
			return errors.New("incrementing total habits error: " + err.Error())
		}
		if ct.RowsAffected() == 0 {
			return errorvalues.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	row := hr.conn.QueryRow(ctx, `SELECT id, user_id, title, description, frequency::text, created_at, updated_at FROM habits WHERE id = $1;`, id)
	habit, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return habit, nil
}

func (hr *HabitsRepository) List(ctx context.Context) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx, `SELECT h.id, h.user_id, h.title, h.description, h.frequency::text, h.created_at, h.updated_at, u.email
		FROM habits h JOIN users u ON u.id = h.user_id ORDER BY h.created_at;`)
	if err != nil {
		return nil, errors.New("listing habits error: " + err.Error())
	}
	defer rows.Close()
	habits := make([]*entity.Habit, 0)
	for rows.Next() {
		var (
			h         entity.Habit
			frequency string
			email     string
		)
		err = rows.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &frequency, &h.CreatedAt, &h.UpdatedAt, &email)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		h.Frequency = entity.Frequency(frequency)
		h.Owner = &entity.UserSummary{ID: h.UserID, Email: email}
		habits = append(habits, &h)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning: " + err.Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx, `SELECT id, user_id, title, description, frequency::text, created_at, updated_at
		FROM habits WHERE user_id = $1 ORDER BY created_at;`, uid)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	habits := make([]*entity.Habit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning: " + err.Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	row := hr.conn.QueryRow(ctx, `UPDATE habits SET title = $1, description = $2, frequency = $3, updated_at = NOW() WHERE id = $4
		RETURNING id, user_id, title, description, frequency::text, created_at, updated_at;`,
		habit.Title, habit.Description, string(habit.Frequency), habit.ID,
	)
	updated, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("error updating habit: " + err.Error())
	}
	return updated, nil
}

// Delete removes the habit and decrements the owner's counter in one
// transaction. The owner is resolved by the DELETE itself, so a second
// delete of the same id finds no row.
func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, hr.conn, func(tx pgx.Tx) error {
		var owner uuid.UUID
		row := tx.QueryRow(ctx, `DELETE FROM habits WHERE id = $1 RETURNING user_id;`, id)
		if err := row.Scan(&owner); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errorvalues.ErrHabitNotFound
			}
			return errors.New("error deleting habit: " + err.Error())
		}
		ct, err := tx.Exec(ctx, `UPDATE user_stats SET total_habits = total_habits - 1 WHERE user_id = $1;`, owner)
		if err != nil {
			return errors.New("decrementing total habits error: " + err.Error())
		}
		if ct.RowsAffected() == 0 {
			return errorvalues.ErrUserNotFound
		}
		return nil
	})
}

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	var (
		h         entity.Habit
		frequency string
	)
	if err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &frequency, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, errors.New("unmarshalling habit error: " + err.Error())
	}
	h.Frequency = entity.Frequency(frequency)
	return &h, nil
}
