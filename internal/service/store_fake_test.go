package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/pkg/entity"
)

var errDB = errors.New("db error")

// memStore mimics the relational store: user, profile and stats live and
// die together, habit writes move total_habits in the same critical section.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	profiles map[uuid.UUID]*entity.Profile
	stats    map[uuid.UUID]*entity.UserStats
	habits   map[uuid.UUID]*entity.Habit
	logs     map[uuid.UUID]map[time.Time]entity.HabitLog
	// fail makes every call return errDB
	fail bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*entity.User),
		profiles: make(map[uuid.UUID]*entity.Profile),
		stats:    make(map[uuid.UUID]*entity.UserStats),
		habits:   make(map[uuid.UUID]*entity.Habit),
		logs:     make(map[uuid.UUID]map[time.Time]entity.HabitLog),
	}
}

func (m *memStore) totalHabits(uid uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stats[uid]; ok {
		return s.TotalHabits
	}
	return -1
}

func (m *memStore) habitRows(uid uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.habits {
		if h.UserID == uid {
			n++
		}
	}
	return n
}

func (m *memStore) setRole(uid uuid.UUID, role entity.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[uid].Role = role
}

func (m *memStore) rowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users) + len(m.profiles) + len(m.stats) + len(m.habits)
}

// users

type memUsers struct{ *memStore }

func (r memUsers) Create(ctx context.Context, nu *entity.NewUser) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	for _, u := range r.users {
		if u.Email == nu.Email {
			return nil, errorvalues.ErrEmailTaken
		}
	}
	now := time.Now()
	u := &entity.User{ID: uuid.New(), Email: nu.Email, PasswordHash: nu.PasswordHash, CreatedAt: now, UpdatedAt: now}
	r.users[u.ID] = u
	r.profiles[u.ID] = &entity.Profile{
		ID: uuid.New(), UserID: u.ID, FirstName: nu.FirstName, LastName: nu.LastName,
		Gender: nu.Gender, Role: nu.Role, CreatedAt: now,
	}
	r.stats[u.ID] = &entity.UserStats{}
	cp := *u
	return &cp, nil
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

func (r memUsers) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	u, ok := r.users[uid]
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetRole(ctx context.Context, uid uuid.UUID) (entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return "", errDB
	}
	p, ok := r.profiles[uid]
	if !ok {
		return "", errorvalues.ErrUserNotFound
	}
	return p.Role, nil
}

func (r memUsers) view(u *entity.User) *entity.UserView {
	v := &entity.UserView{User: *u}
	v.Profile.Profile = *r.profiles[u.ID]
	v.Profile.UserStats = *r.stats[u.ID]
	v.Profile.Groups = make([]entity.Group, 0)
	v.Profile.Habits = make([]entity.Habit, 0)
	for _, h := range r.habits {
		if h.UserID == u.ID {
			v.Profile.Habits = append(v.Profile.Habits, *h)
		}
	}
	return v
}

func (r memUsers) ListViews(ctx context.Context) ([]*entity.UserView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	views := make([]*entity.UserView, 0, len(r.users))
	for _, u := range r.users {
		views = append(views, r.view(u))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.Before(views[j].CreatedAt) })
	return views, nil
}

func (r memUsers) GetViewByEmail(ctx context.Context, email string) (*entity.UserView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	for _, u := range r.users {
		if u.Email == email {
			return r.view(u), nil
		}
	}
	return nil, errorvalues.ErrUserNotFound
}

func (r memUsers) GetViewByID(ctx context.Context, uid uuid.UUID) (*entity.UserView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	u, ok := r.users[uid]
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	return r.view(u), nil
}

func (r memUsers) Delete(ctx context.Context, uid uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errDB
	}
	if _, ok := r.users[uid]; !ok {
		return errorvalues.ErrUserNotFound
	}
	delete(r.users, uid)
	delete(r.profiles, uid)
	delete(r.stats, uid)
	for id, h := range r.habits {
		if h.UserID == uid {
			delete(r.habits, id)
			delete(r.logs, id)
		}
	}
	return nil
}

// habits

type memHabits struct{ *memStore }

func (r memHabits) Create(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	s, ok := r.stats[habit.UserID]
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	h := *habit
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	r.habits[h.ID] = &h
	s.TotalHabits++
	cp := h
	return &cp, nil
}

func (r memHabits) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	h, ok := r.habits[id]
	if !ok {
		return nil, errorvalues.ErrHabitNotFound
	}
	cp := *h
	return &cp, nil
}

func (r memHabits) List(ctx context.Context) ([]*entity.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	habits := make([]*entity.Habit, 0, len(r.habits))
	for _, h := range r.habits {
		cp := *h
		cp.Owner = &entity.UserSummary{ID: h.UserID, Email: r.users[h.UserID].Email}
		habits = append(habits, &cp)
	}
	return habits, nil
}

func (r memHabits) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	habits := make([]*entity.Habit, 0)
	for _, h := range r.habits {
		if h.UserID == uid {
			cp := *h
			habits = append(habits, &cp)
		}
	}
	return habits, nil
}

func (r memHabits) Update(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	h, ok := r.habits[habit.ID]
	if !ok {
		return nil, errorvalues.ErrHabitNotFound
	}
	h.Title, h.Description, h.Frequency = habit.Title, habit.Description, habit.Frequency
	h.UpdatedAt = time.Now()
	cp := *h
	return &cp, nil
}

func (r memHabits) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errDB
	}
	h, ok := r.habits[id]
	if !ok {
		return errorvalues.ErrHabitNotFound
	}
	delete(r.habits, id)
	delete(r.logs, id)
	r.stats[h.UserID].TotalHabits--
	return nil
}

// habit logs

type memLogs struct{ *memStore }

func (r memLogs) Create(ctx context.Context, habitID uuid.UUID, date time.Time) (*entity.HabitLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	if _, ok := r.habits[habitID]; !ok {
		return nil, errorvalues.ErrHabitNotFound
	}
	byDate, ok := r.logs[habitID]
	if !ok {
		byDate = make(map[time.Time]entity.HabitLog)
		r.logs[habitID] = byDate
	}
	if _, ok := byDate[date]; ok {
		return nil, errorvalues.ErrLogExists
	}
	l := entity.HabitLog{ID: uuid.New(), HabitID: habitID, LogDate: date, CreatedAt: time.Now()}
	byDate[date] = l
	return &l, nil
}

func (r memLogs) Delete(ctx context.Context, habitID uuid.UUID, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errDB
	}
	if _, ok := r.logs[habitID][date]; !ok {
		return errorvalues.ErrLogNotFound
	}
	delete(r.logs[habitID], date)
	return nil
}

func (r memLogs) GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.HabitLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errDB
	}
	result := make([]entity.HabitLog, 0)
	for d, l := range r.logs[habitID] {
		if !d.Before(from) && !d.After(to) {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LogDate.Before(result[j].LogDate) })
	return result, nil
}
