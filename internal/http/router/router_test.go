package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/app"
	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/config"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/http/router"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/handler"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/service"
	"github.com/ignatzorin/lexsuite-backend/internal/ws"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type testServer struct {
	engine *gin.Engine
	tokens *service.TokenManager
	firm   uuid.UUID
	matter uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Silence()

	store := memory.NewStore()
	firm, matter := uuid.New(), uuid.New()
	store.PutMatter(entity.MatterTeam{MatterID: matter, FirmID: firm, Reference: "LIT-1", Title: "Дело"})

	clk := clock.Fixed(now)
	application := app.New(store, app.Options{Clock: clk})
	tokens := service.NewTokenManager("router-test-secret-router-test-secret", time.Hour)

	cfg := &config.Config{
		Env:             "test",
		RateLimitLimit:  1000,
		RateLimitPeriod: time.Minute,
		Scheduler:       config.SchedulerConfig{RecomputeRateLimit: 2},
	}

	engine := router.SetupRouter(
		cfg,
		tokens,
		handler.NewHealthHandler(nil, clk),
		handler.NewWSHandler(ws.NewHub(), tokens, nil),
		application.KeyDateHandler(),
		application.DirectionHandler(),
		application.CalendarHandler(),
		application.NotificationHandler(),
		application.PolicyHandler(),
		application.EscalationHandler(),
	)
	return &testServer{engine: engine, tokens: tokens, firm: firm, matter: matter}
}

func (s *testServer) request(t *testing.T, role valueobject.Role, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := s.tokens.Issue(service.Principal{UserID: uuid.New(), FirmID: s.firm, Role: role}, time.Now())
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, "", http.MethodGet, "/api/key-dates", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.request(t, "", http.MethodGet, "/api/ws", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RoleMatrix(t *testing.T) {
	s := newTestServer(t)
	keyDate := map[string]any{
		"matter_id": s.matter.String(),
		"owner_id":  uuid.NewString(),
		"title":     "Срок подачи возражений",
		"due_at":    now.Add(10 * 24 * time.Hour).Format(time.RFC3339),
	}
	policy := map[string]any{"offset_hours": 72, "escalate_to": "SUPERVISOR", "channels": []string{"IN_APP"}}

	tests := []struct {
		name   string
		role   valueobject.Role
		method string
		path   string
		body   any
		want   int
	}{
		{"помощник не создаёт ключевые даты", valueobject.RoleParalegal, http.MethodPost, "/api/key-dates", keyDate, http.StatusForbidden},
		{"юрист создаёт ключевые даты", valueobject.RoleSolicitor, http.MethodPost, "/api/key-dates", keyDate, http.StatusCreated},
		{"стажёр видит список", valueobject.RoleTrainee, http.MethodGet, "/api/key-dates", nil, http.StatusOK},
		{"юрист не видит политики", valueobject.RoleSolicitor, http.MethodGet, "/api/escalation-policies", nil, http.StatusForbidden},
		{"руководитель видит политики", valueobject.RoleSupervisor, http.MethodGet, "/api/escalation-policies", nil, http.StatusOK},
		{"партнёр не меняет политики", valueobject.RolePartner, http.MethodPut, "/api/escalation-policies/T_7D", policy, http.StatusForbidden},
		{"администратор меняет политики", valueobject.RoleAdmin, http.MethodPut, "/api/escalation-policies/T_48H", policy, http.StatusOK},
		{"удаление только администратором", valueobject.RoleColp, http.MethodDelete, "/api/key-dates/" + uuid.NewString(), nil, http.StatusForbidden},
		{"юрист не запускает пересчёт", valueobject.RoleSolicitor, http.MethodPost, "/api/escalation/recompute", nil, http.StatusForbidden},
		{"руководитель запускает пересчёт", valueobject.RoleSupervisor, http.MethodPost, "/api/escalation/recompute", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.request(t, tt.role, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_RejectsMalformedID(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, valueobject.RoleSolicitor, http.MethodGet, "/api/key-dates/123", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RecomputeRateLimited(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 2; i++ {
		w := s.request(t, valueobject.RoleAdmin, http.MethodPost, "/api/escalation/recompute", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := s.request(t, valueobject.RoleAdmin, http.MethodPost, "/api/escalation/recompute", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
