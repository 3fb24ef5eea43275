package api_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/golang/mock/gomock"
	"github.com/limbo/habit-tracker/internal/api"
	"github.com/limbo/habit-tracker/internal/service/mocks"
	jwtservice "github.com/limbo/habit-tracker/pkg/jwt_service"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

type testServer struct {
	serv      *api.Server
	users     *mocks.MockUserServiceI
	habits    *mocks.MockHabitsServiceI
	habitLogs *mocks.MockHabitLogsServiceI
	jwt       *jwtservice.JWTService
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	ts := &testServer{
		users:     mocks.NewMockUserServiceI(ctrl),
		habits:    mocks.NewMockHabitsServiceI(ctrl),
		habitLogs: mocks.NewMockHabitLogsServiceI(ctrl),
		jwt:       jwtservice.New(secret),
	}
	ts.serv = api.New(&api.ServicesList{
		UserService:      ts.users,
		HabitsService:    ts.habits,
		HabitLogsService: ts.habitLogs,
		JwtService:       ts.jwt,
		Store:            pingerFunc(func(ctx context.Context) error { return nil }),
	})
	return ts
}

func (ts *testServer) do(method, target string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	ts.serv.ServeHTTP(rr, req)
	return rr
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	body, err := sonic.ConfigDefault.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&env))
	return env
}

var errService = errors.New("service error")
