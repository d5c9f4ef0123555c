package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/session"
	"github.com/katrinawoods/rsc2/internal/store"
)

type memSource struct {
	exercises map[string]*model.Exercise
}

func (m *memSource) Get(_ context.Context, p store.GetParams) (*model.Exercise, error) {
	e, ok := m.exercises[p.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, p.ID)
	}
	return e, nil
}

func (m *memSource) List(_ context.Context, _ store.ListParams) ([]model.Exercise, error) {
	var out []model.Exercise
	for _, e := range m.exercises {
		out = append(out, *e)
	}
	return out, nil
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	src := &memSource{exercises: map[string]*model.Exercise{
		"ex1": {
			ID: "ex1", NS: "default", Key: "abc",
			InitialOrder: []model.SeedCard{{ID: "1", Content: "B"}, {ID: "2", Content: "A"}, {ID: "3", Content: "C"}},
			CorrectOrder: []string{"A", "B", "C"},
			Size:         3,
		},
		"broken": {
			ID:           "broken",
			InitialOrder: []model.SeedCard{{ID: "1", Content: "A"}},
			CorrectOrder: []string{"A", "B"},
		},
	}}
	identity := func(s model.Seed) model.Seed { return s }
	srv := New(src, WithLogger(zaptest.NewLogger(t)), WithPresentation(identity))
	return srv, srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func startSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/sessions", map[string]string{"exercise_id": "ex1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeSession(t, rec).SessionID
}

func texts(v session.View) []string {
	var out []string
	for _, c := range v.Cards {
		out = append(out, c.Text)
	}
	return out
}

func TestSessionFlow(t *testing.T) {
	_, h := newTestServer(t)
	id := startSession(t, h)
	base := "/api/sessions/" + id

	rec := do(t, h, http.MethodPost, base+"/activate", map[string]string{"card_id": "1"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, session.Picked, resp.Outcome)
	assert.Equal(t, model.CardID("1"), resp.View.Holding)
	assert.True(t, resp.View.Cards[0].Selected)

	resp = decodeSession(t, do(t, h, http.MethodPost, base+"/activate", map[string]string{"card_id": "2"}))
	assert.Equal(t, session.Swapped, resp.Outcome)
	assert.Equal(t, []string{"A", "B", "C"}, texts(resp.View))

	rec = do(t, h, http.MethodPost, base+"/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.AllMatch)
	assert.Equal(t, session.MessageSuccess, resp.View.Message)
	assert.True(t, resp.View.FeedbackMode)

	resp = decodeSession(t, do(t, h, http.MethodPost, base+"/activate", map[string]string{"card_id": "3"}))
	assert.Equal(t, session.Ignored, resp.Outcome)

	resp = decodeSession(t, do(t, h, http.MethodGet, base, nil))
	assert.Equal(t, []string{"A", "B", "C"}, texts(resp.View))
}

func TestResetReseeds(t *testing.T) {
	_, h := newTestServer(t)
	id := startSession(t, h)
	base := "/api/sessions/" + id

	do(t, h, http.MethodPost, base+"/activate", map[string]string{"card_id": "1"})
	do(t, h, http.MethodPost, base+"/activate", map[string]string{"card_id": "2"})
	do(t, h, http.MethodPost, base+"/check", nil)

	rec := do(t, h, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, id, resp.SessionID)
	assert.False(t, resp.View.FeedbackMode)
	assert.Empty(t, resp.View.Message)
	assert.Equal(t, []string{"B", "A", "C"}, texts(resp.View))

	resp = decodeSession(t, do(t, h, http.MethodPost, base+"/activate", map[string]string{"card_id": "3"}))
	assert.Equal(t, session.Picked, resp.Outcome)
}

func TestDeleteSession(t *testing.T) {
	srv, h := newTestServer(t)
	id := startSession(t, h)
	assert.Equal(t, 1, srv.sessions.len())

	rec := do(t, h, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, srv.sessions.len())

	rec = do(t, h, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpireDropsIdleSessions(t *testing.T) {
	srv, h := newTestServer(t)
	stale := startSession(t, h)
	fresh := startSession(t, h)

	e, ok := srv.sessions.get(uuid.MustParse(stale))
	require.True(t, ok)
	e.touch(time.Now().Add(-time.Hour))

	assert.Equal(t, 1, srv.sessions.expire(time.Now().Add(-time.Minute)))
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/sessions/"+stale, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/sessions/"+fresh, nil).Code)
}

func TestServeExpiresIdleSessions(t *testing.T) {
	srv, _ := newTestServer(t)
	WithIdleTimeout(20 * time.Millisecond)(srv)
	startSession(t, srv.Handler())
	require.Equal(t, 1, srv.sessions.len())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	assert.Eventually(t, func() bool { return srv.sessions.len() == 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestErrors(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"missing exercise id", http.MethodPost, "/api/sessions", map[string]string{}, http.StatusBadRequest},
		{"unknown exercise", http.MethodPost, "/api/sessions", map[string]string{"exercise_id": "nope"}, http.StatusNotFound},
		{"misaligned exercise", http.MethodPost, "/api/sessions", map[string]string{"exercise_id": "broken"}, http.StatusUnprocessableEntity},
		{"bad session id", http.MethodGet, "/api/sessions/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown session", http.MethodPost, "/api/sessions/6f1c3c8e-1111-4a4a-9c9c-0123456789ab/check", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			var e errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestActivateRequiresCardID(t *testing.T) {
	_, h := newTestServer(t)
	id := startSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/activate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListExercisesAndHealth(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/exercises", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Exercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestConcurrentActivationsKeepOneHolder(t *testing.T) {
	_, h := newTestServer(t)
	id := startSession(t, h)
	base := "/api/sessions/" + id

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			card := fmt.Sprint(i%3 + 1)
			do(t, h, http.MethodPost, base+"/activate", map[string]string{"card_id": card})
		}(i)
	}
	wg.Wait()

	resp := decodeSession(t, do(t, h, http.MethodGet, base, nil))
	selected := 0
	for _, c := range resp.View.Cards {
		if c.Selected {
			selected++
		}
	}
	assert.LessOrEqual(t, selected, 1)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, texts(resp.View))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.NoError(t, <-done)
	http.DefaultClient.CloseIdleConnections()
}
