package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/handler"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/calendar"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/direction"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/keydate"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type apiEnv struct {
	store  *memory.Store
	router *gin.Engine
	firm   uuid.UUID
	user   uuid.UUID
	matter uuid.UUID
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &apiEnv{
		store:  memory.NewStore(),
		firm:   uuid.New(),
		user:   uuid.New(),
		matter: uuid.New(),
	}
	owner := e.user
	e.store.PutFirm(e.firm, nil)
	e.store.PutMatter(entity.MatterTeam{MatterID: e.matter, FirmID: e.firm, Reference: "LIT-7", Title: "Петров против Банка", OwnerID: &owner})

	clk := clock.Fixed(now)
	repos := e.store.Repositories()

	keyDates := handler.NewKeyDateHandler(
		keydate.NewCreateKeyDateUseCase(repos.KeyDates, e.store, clk),
		keydate.NewUpdateKeyDateUseCase(repos.KeyDates, clk),
		keydate.NewCompleteKeyDateUseCase(repos.KeyDates, clk),
		keydate.NewDeleteKeyDateUseCase(repos.KeyDates),
		keydate.NewGetKeyDateUseCase(repos.KeyDates, clk),
		keydate.NewListKeyDatesUseCase(repos.KeyDates, clk),
		keydate.NewExportICSUseCase(repos.KeyDates, clk),
		clk,
	)
	directions := handler.NewDirectionHandler(
		direction.NewCreateDirectionUseCase(repos.Directions, e.store, clk),
		direction.NewGetDirectionUseCase(repos.Directions),
		direction.NewListDirectionsUseCase(repos.Directions),
		direction.NewUpdateDirectionUseCase(e.store, clk),
		direction.NewSubmitDirectionUseCase(repos.Directions, clk),
		direction.NewVacateDirectionUseCase(e.store, clk),
		direction.NewConfirmDirectionUseCase(e.store, e.store, repos.Notifications, nil, clk),
	)
	cal := handler.NewCalendarHandler(
		calendar.NewListCalendarUseCase(repos.CalendarEvents, clk),
		calendar.NewCreateDeadlineUseCase(repos.CalendarEvents, e.store, clk),
		calendar.NewCompleteEventUseCase(repos.CalendarEvents, clk),
	)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", e.user)
		c.Set("firm_id", e.firm)
		c.Next()
	})
	r.GET("/key-dates", keyDates.List)
	r.POST("/key-dates", keyDates.Create)
	r.GET("/key-dates/:id", keyDates.Get)
	r.PATCH("/key-dates/:id", keyDates.Update)
	r.POST("/key-dates/:id/complete", keyDates.Complete)
	r.GET("/key-dates/:id/ics", keyDates.ExportICS)
	r.POST("/directions", directions.Create)
	r.POST("/directions/:id/confirm", directions.Confirm)
	r.GET("/calendar", cal.List)
	e.router = r
	return e
}

func (e *apiEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Pagination *struct {
		Total int `json:"total"`
	} `json:"pagination"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (e *apiEnv) createKeyDate(t *testing.T, title string, due time.Time) string {
	t.Helper()
	w := e.do(http.MethodPost, "/key-dates", map[string]any{
		"matter_id": e.matter.String(),
		"owner_id":  e.user.String(),
		"title":     title,
		"due_at":    due.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var kd struct {
		ID string `json:"id"`
	}
	decode(t, w, &kd)
	return kd.ID
}

func TestKeyDateHandler_CreateAndList(t *testing.T) {
	e := newAPIEnv(t)
	e.createKeyDate(t, "Подать апелляцию", now.Add(20*24*time.Hour))
	e.createKeyDate(t, "Раскрытие документов", now.Add(-72*time.Hour))

	w := e.do(http.MethodGet, "/key-dates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []struct {
		Title           string `json:"title"`
		Status          string `json:"status"`
		MatterReference string `json:"matter_reference"`
	}
	env := decode(t, w, &items)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Total)
	require.Len(t, items, 2)
	assert.Equal(t, "BREACH", items[0].Status)
	assert.Equal(t, "ON_TRACK", items[1].Status)
	assert.Equal(t, "LIT-7", items[0].MatterReference)
}

func TestKeyDateHandler_Create_BadInput(t *testing.T) {
	e := newAPIEnv(t)

	w := e.do(http.MethodPost, "/key-dates", map[string]any{"title": "Без дела"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/key-dates", map[string]any{
		"matter_id": e.matter.String(),
		"owner_id":  e.user.String(),
		"title":     "Кривая дата",
		"due_at":    "10.03.2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperror.ErrCodeValidation), decode(t, w, nil).Error.Code)
}

func TestKeyDateHandler_GetUnknown(t *testing.T) {
	e := newAPIEnv(t)

	w := e.do(http.MethodGet, "/key-dates/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodGet, "/key-dates/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKeyDateHandler_UpdateAndComplete(t *testing.T) {
	e := newAPIEnv(t)
	id := e.createKeyDate(t, "Слушание", now.Add(24*time.Hour))

	w := e.do(http.MethodPatch, "/key-dates/"+id, map[string]any{
		"due_at": now.Add(30 * 24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var kd struct {
		Status      string     `json:"status"`
		CompletedAt *time.Time `json:"completed_at"`
	}
	decode(t, w, &kd)
	assert.Equal(t, "ON_TRACK", kd.Status)

	w = e.do(http.MethodPost, "/key-dates/"+id+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &kd)
	assert.NotNil(t, kd.CompletedAt)
}

func TestKeyDateHandler_ExportICS(t *testing.T) {
	e := newAPIEnv(t)
	id := e.createKeyDate(t, "Ответ на претензию", now.Add(48*time.Hour))

	w := e.do(http.MethodGet, "/key-dates/"+id+"/ics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, w.Header().Get("Content-Disposition"), id)
}

func TestDirectionHandler_ConfirmCreatesDeadline(t *testing.T) {
	e := newAPIEnv(t)

	w := e.do(http.MethodPost, "/directions", map[string]any{
		"matter_id": e.matter.String(),
		"title":     "Представить экспертное заключение",
		"due_at":    now.Add(-24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var d struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &d)
	assert.Equal(t, "DRAFT", d.Status)

	w = e.do(http.MethodPost, "/directions/"+d.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Direction struct {
			Status string `json:"status"`
		} `json:"direction"`
		CalendarEvent *struct {
			DirectionID string `json:"direction_id"`
			IsDeadline  bool   `json:"is_deadline"`
		} `json:"calendar_event"`
	}
	decode(t, w, &out)
	assert.Equal(t, "CONFIRMED", out.Direction.Status)
	require.NotNil(t, out.CalendarEvent)
	assert.Equal(t, d.ID, out.CalendarEvent.DirectionID)
	assert.True(t, out.CalendarEvent.IsDeadline)

	w = e.do(http.MethodPost, "/directions/"+d.ID+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodGet, "/calendar?overdue_only=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []struct {
		IsOverdue bool `json:"is_overdue"`
	}
	decode(t, w, &events)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsOverdue)
}

type stubRunner struct {
	err error
}

func (s stubRunner) RunPass(_ context.Context, firmID uuid.UUID) (*escalation.PassSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &escalation.PassSummary{PassID: uuid.New(), FirmID: firmID, Now: now, Evaluated: 3}, nil
}

func TestEscalationHandler_Recompute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	firm := uuid.New()

	serve := func(runner handler.PassRunner) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("user_id", uuid.New())
			c.Set("firm_id", firm)
		})
		r.POST("/recompute", handler.NewEscalationHandler(runner).Recompute)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recompute", nil))
		return w
	}

	w := serve(stubRunner{})
	require.Equal(t, http.StatusOK, w.Code)
	var summary escalation.PassSummary
	decode(t, w, &summary)
	assert.Equal(t, firm, summary.FirmID)
	assert.Equal(t, 3, summary.Evaluated)

	w = serve(stubRunner{err: apperror.ErrPassInProgress})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandlers_RequireCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/recompute", handler.NewEscalationHandler(stubRunner{}).Recompute)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recompute", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
