package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/internal/service"
	"github.com/limbo/habit-tracker/pkg/entity"
	"github.com/limbo/habit-tracker/pkg/httputil"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Gender    string `json:"gender"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role,omitempty"`
}

type AuthResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Discipline API is running"))
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		httputil.WriteMessageResponse(w, http.StatusOK, "ok")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		GetLoggerFromCtx(r.Context()).Error("health check failed", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "ok")
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "credentials"
// @Success 200 {object} httputil.Envelope
// @Failure 400,401,500 {object} httputil.Envelope
// @Router /auth/login [post]
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.Login(ctx, &service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, logger, "login", err)
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		writeServiceError(w, logger, "login: generating token", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, AuthResponse{
		User:  user,
		Token: token,
	})
	logger.Info("successful login", slog.String("uid", user.ID.String()))
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httputil.Envelope
// @Failure 401,404,500 {object} httputil.Envelope
// @Router /auth/me [get]
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("me error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	view, err := s.userService.GetView(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "me", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, view)
}

// CreateUser godoc
// @Summary Sign up
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "new user"
// @Success 201 {object} httputil.Envelope
// @Failure 400,409,500 {object} httputil.Envelope
// @Router /users [post]
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateUserRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create user error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.CreateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		Gender:    req.Gender,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		writeServiceError(w, logger, "create user", err)
		return
	}
	// The account is already stored at this point, a missing secret only
	// prevents issuing the token.
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		writeServiceError(w, logger, "create user: generating token", err)
		return
	}
	var body any = user
	view, err := s.userService.GetView(ctx, user.ID)
	if err != nil {
		logger.Warn("create user: loading view failed, responding with bare user", slog.String("error", err.Error()))
	} else {
		body = view
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, AuthResponse{
		User:  body,
		Token: token,
	})
	logger.Info("user created", slog.String("uid", user.ID.String()))
}

// ListUsers godoc
// @Summary List users with profiles, habits and stats
// @Tags users
// @Produce json
// @Success 200 {object} httputil.Envelope
// @Failure 500 {object} httputil.Envelope
// @Router /users [get]
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		writeServiceError(w, logger, "list users", err)
		return
	}
	if users == nil {
		users = []*entity.UserView{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, users)
}

// GetUserByEmail godoc
// @Summary Get user by email
// @Tags users
// @Produce json
// @Param email path string true "email"
// @Success 200 {object} httputil.Envelope
// @Failure 404,500 {object} httputil.Envelope
// @Router /users/{email} [get]
func (s *Server) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	view, err := s.userService.GetByEmail(ctx, r.PathValue("email"))
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Warn("get user error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, msgUserNotExist)
			return
		}
		writeServiceError(w, logger, "get user", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, view)
}

// DeleteUser godoc
// @Summary Delete user with everything it owns
// @Tags users
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} httputil.Envelope
// @Failure 400,403,404,500 {object} httputil.Envelope
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("user deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err = s.userService.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Warn("user deletion error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, msgUserNotExist)
			return
		}
		writeServiceError(w, logger, "user deletion", err)
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "User Deleted")
	logger.Info("user deleted", slog.String("uid", id.String()))
}
