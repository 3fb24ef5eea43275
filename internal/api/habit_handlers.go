package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/habit-tracker/internal/service"
	"github.com/limbo/habit-tracker/pkg/entity"
	"github.com/limbo/habit-tracker/pkg/httputil"
)

const dateLayout = "2006-01-02"

type HabitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency,omitempty"`
}

type LogHabitRequest struct {
	// YYYY-MM-DD, today when empty
	Date string `json:"date"`
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}

// ListHabits godoc
// @Summary List every habit with its owner
// @Tags habits
// @Produce json
// @Success 200 {object} httputil.Envelope
// @Failure 500 {object} httputil.Envelope
// @Router /habits [get]
func (s *Server) ListHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habits, err := s.habitsService.ListHabits(ctx)
	if err != nil {
		writeServiceError(w, logger, "list habits", err)
		return
	}
	if habits == nil {
		habits = []*entity.Habit{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habits)
}

// GetUserHabits godoc
// @Summary List habits of a user
// @Tags habits
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} httputil.Envelope
// @Failure 400,404,500 {object} httputil.Envelope
// @Router /habits/{id} [get]
func (s *Server) GetUserHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := pathID(r)
	if !ok {
		logger.Error("get habits error: invalid user id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habits, err := s.habitsService.GetUserHabits(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get habits", err)
		return
	}
	if habits == nil {
		habits = []*entity.Habit{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habits)
}

// CreateHabit godoc
// @Summary Create habit for a user
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "user id"
// @Param habit body HabitRequest true "habit"
// @Success 201 {object} httputil.Envelope
// @Failure 400,404,500 {object} httputil.Envelope
// @Router /habits/{id} [post]
func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := pathID(r)
	if !ok {
		logger.Error("create habit error: invalid user id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	var req HabitRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.habitsService.CreateHabit(ctx, uid, service.HabitRequest{
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
	})
	if err != nil {
		writeServiceError(w, logger, "create habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created", slog.String("habit_id", habit.ID.String()))
}

// UpdateHabit godoc
// @Summary Update habit
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "habit id"
// @Param habit body HabitRequest true "habit"
// @Success 200 {object} httputil.Envelope
// @Failure 400,404,500 {object} httputil.Envelope
// @Router /habits/{id} [put]
func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, ok := pathID(r)
	if !ok {
		logger.Error("update habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	var req HabitRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.habitsService.UpdateHabit(ctx, id, service.HabitRequest{
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
	})
	if err != nil {
		writeServiceError(w, logger, "update habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
}

// DeleteHabit godoc
// @Summary Delete habit
// @Tags habits
// @Produce json
// @Param id path string true "habit id"
// @Success 200 {object} httputil.Envelope
// @Failure 400,404,500 {object} httputil.Envelope
// @Router /habits/{id} [delete]
func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, ok := pathID(r)
	if !ok {
		logger.Error("habit deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err := s.habitsService.DeleteHabit(ctx, id)
	if err != nil {
		writeServiceError(w, logger, "habit deletion", err)
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "Habit Deleted")
	logger.Info("habit deleted", slog.String("habit_id", id.String()))
}

// LogHabit godoc
// @Summary Mark habit as done for a day
// @Tags habit logs
// @Accept json
// @Produce json
// @Param id path string true "habit id"
// @Param log body LogHabitRequest false "day, today by default"
// @Success 201 {object} httputil.Envelope
// @Failure 400,404,409,500 {object} httputil.Envelope
// @Router /habits/{id}/logs [post]
func (s *Server) LogHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, ok := pathID(r)
	if !ok {
		logger.Error("log habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	var req LogHabitRequest
	defer r.Body.Close()
	if r.ContentLength != 0 {
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("log habit error: invalid request body")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
	}
	var date time.Time
	if req.Date != "" {
		var err error
		date, err = time.Parse(dateLayout, req.Date)
		if err != nil {
			logger.Error("log habit error: invalid date", slog.String("date", req.Date))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidDate)
			return
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habitLog, err := s.habitLogsService.LogHabit(ctx, id, date)
	if err != nil {
		writeServiceError(w, logger, "log habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habitLog)
}

// UnlogHabit godoc
// @Summary Remove habit mark for a day
// @Tags habit logs
// @Produce json
// @Param id path string true "habit id"
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} httputil.Envelope
// @Failure 400,404,500 {object} httputil.Envelope
// @Router /habits/{id}/logs/{date} [delete]
func (s *Server) UnlogHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, ok := pathID(r)
	if !ok {
		logger.Error("unlog habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	date, err := time.Parse(dateLayout, r.PathValue("date"))
	if err != nil {
		logger.Error("unlog habit error: invalid date in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidDate)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err = s.habitLogsService.UnlogHabit(ctx, id, date); err != nil {
		writeServiceError(w, logger, "unlog habit", err)
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "Habit Log Deleted")
}

// GetHabitLogs godoc
// @Summary Habit logs for a period, last 30 days by default
// @Tags habit logs
// @Produce json
// @Param id path string true "habit id"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} httputil.Envelope
// @Failure 400,404,500 {object} httputil.Envelope
// @Router /habits/{id}/logs [get]
func (s *Server) GetHabitLogs(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, ok := pathID(r)
	if !ok {
		logger.Error("get habit logs error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	var from, to time.Time
	for param, dst := range map[string]*time.Time{"from": &from, "to": &to} {
		raw := r.URL.Query().Get(param)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			logger.Error("get habit logs error: invalid date in query", slog.String(param, raw))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidDate)
			return
		}
		*dst = parsed
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	logs, err := s.habitLogsService.GetHabitLogs(ctx, id, from, to)
	if err != nil {
		writeServiceError(w, logger, "get habit logs", err)
		return
	}
	if logs == nil {
		logs = []entity.HabitLog{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, logs)
}
