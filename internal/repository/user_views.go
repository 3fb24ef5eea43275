package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/limbo/habit-tracker/pkg/entity"
)

const (
	userViewsQuery = `SELECT u.id, u.email, u.created_at, u.updated_at, p.id, p.first_name, p.last_name, p.gender, p.role::text, p.created_at, s.total_habits, s.total_groups
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		JOIN user_stats s ON s.user_id = u.id `
	userViewsOrder = ` ORDER BY u.created_at;`

	viewHabitsQuery = `SELECT id, user_id, title, description, frequency::text, created_at, updated_at
		FROM habits WHERE user_id = ANY($1::uuid[]) ORDER BY created_at;`

	viewGroupsQuery = `SELECT gm.user_id, g.id, g.name, g.description, g.created_at
		FROM group_members gm JOIN groups g ON g.id = gm.group_id
		WHERE gm.user_id = ANY($1::uuid[]) ORDER BY gm.joined_at;`
)

// loadViews builds user views in three queries: users with profile and
// stats, then habits and groups of the selected users.
func (ur *UsersRepository) loadViews(ctx context.Context, where string, args ...any) ([]*entity.UserView, error) {
	rows, err := ur.conn.Query(ctx, userViewsQuery+where+userViewsOrder, args...)
	if err != nil {
		return nil, errors.New("listing users error: " + err.Error())
	}
	defer rows.Close()
	views := make([]*entity.UserView, 0)
	index := make(map[uuid.UUID]*entity.UserView)
	ids := make([]string, 0)
	for rows.Next() {
		v := entity.UserView{}
		var role string
		err = rows.Scan(
			&v.ID, &v.Email, &v.CreatedAt, &v.UpdatedAt,
			&v.Profile.ID, &v.Profile.FirstName, &v.Profile.LastName, &v.Profile.Gender, &role, &v.Profile.CreatedAt,
			&v.Profile.UserStats.TotalHabits, &v.Profile.UserStats.TotalGroups,
		)
		if err != nil {
			return nil, errors.New("unmarshalling user view error: " + err.Error())
		}
		v.Profile.UserID = v.ID
		v.Profile.Role = entity.Role(role)
		v.Profile.Habits = make([]entity.Habit, 0)
		v.Profile.Groups = make([]entity.Group, 0)
		views = append(views, &v)
		index[v.ID] = &v
		ids = append(ids, v.ID.String())
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning users: " + err.Error())
	}
	if len(views) == 0 {
		return views, nil
	}
	if err = ur.attachHabits(ctx, ids, index); err != nil {
		return nil, err
	}
	if err = ur.attachGroups(ctx, ids, index); err != nil {
		return nil, err
	}
	return views, nil
}

func (ur *UsersRepository) attachHabits(ctx context.Context, ids []string, index map[uuid.UUID]*entity.UserView) error {
	rows, err := ur.conn.Query(ctx, viewHabitsQuery, ids)
	if err != nil {
		return errors.New("listing users habits error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return err
		}
		if v, ok := index[h.UserID]; ok {
			v.Profile.Habits = append(v.Profile.Habits, *h)
		}
	}
	if err = rows.Err(); err != nil {
		return errors.New("unexpected error after scanning habits: " + err.Error())
	}
	return nil
}

func (ur *UsersRepository) attachGroups(ctx context.Context, ids []string, index map[uuid.UUID]*entity.UserView) error {
	rows, err := ur.conn.Query(ctx, viewGroupsQuery, ids)
	if err != nil {
		return errors.New("listing users groups error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var uid uuid.UUID
		g := entity.Group{}
		if err = rows.Scan(&uid, &g.ID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return errors.New("unmarshalling group error: " + err.Error())
		}
		if v, ok := index[uid]; ok {
			v.Profile.Groups = append(v.Profile.Groups, g)
		}
	}
	if err = rows.Err(); err != nil {
		return errors.New("unexpected error after scanning groups: " + err.Error())
	}
	return nil
}
