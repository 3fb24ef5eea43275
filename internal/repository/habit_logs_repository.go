package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/pkg/entity"
)

type HabitLogsRepository struct {
	conn PgConnection
}

func NewHabitLogsRepo(conn PgConnection) *HabitLogsRepository {
	return &HabitLogsRepository{
		conn: conn,
	}
}

func (logsRepo *HabitLogsRepository) Create(ctx context.Context, habitID uuid.UUID, date time.Time) (*entity.HabitLog, error) {
	log := entity.HabitLog{
		HabitID: habitID,
	}
	row := logsRepo.conn.QueryRow(
		ctx,
		`INSERT INTO habit_logs (habit_id, log_date) VALUES ($1, $2) RETURNING id, log_date, created_at;`,
		habitID,
		date,
	)
	if err := row.Scan(&log.ID, &log.LogDate, &log.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return nil, errorvalues.ErrLogExists
			// FK violation
			case "23503":
				return nil, errorvalues.ErrHabitNotFound
			}
		}
		return nil, errors.New("creating habit log error: " + err.Error())
	}
	return &log, nil
}

func (logsRepo *HabitLogsRepository) Delete(ctx context.Context, habitID uuid.UUID, date time.Time) error {
	ct, err := logsRepo.conn.Exec(
		ctx,
		`DELETE FROM habit_logs WHERE habit_id = $1 AND log_date = $2;`,
		habitID,
		date,
	)
	if err != nil {
		return errors.New("deleting habit log error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrLogNotFound
	}
	return nil
}

func (logsRepo *HabitLogsRepository) GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.HabitLog, error) {
	rows, err := logsRepo.conn.Query(
		ctx,
		`SELECT id, habit_id, log_date, created_at FROM habit_logs WHERE habit_id = $1 AND log_date >= $2 AND log_date <= $3 ORDER BY log_date;`,
		habitID,
		from,
		to,
	)
	if err != nil {
		return nil, errors.New("getting logs for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.HabitLog, 0)
	for rows.Next() {
		log := entity.HabitLog{}
		err = rows.Scan(&log.ID, &log.HabitID, &log.LogDate, &log.CreatedAt)
		if err != nil {
			return nil, errors.New("habit log row parsing error: " + err.Error())
		}
		result = append(result, log)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected habit log rows error: " + err.Error())
	}
	return result, nil
}
