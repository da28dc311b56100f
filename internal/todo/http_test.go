package todo

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todokeep/internal/telemetry"
)

func newHandlerForTests(t *testing.T) (*Handler, *Store, *countingKV) {
	t.Helper()
	s, backing, _ := newTestStore(t)
	h := NewHandler(s, nil)
	h.SetEvents(telemetry.NewMemoryRepository())
	s.events = h.events
	return h, s, backing
}

func jsonReq(method, path string, body any) *http.Request {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) Summary {
	t.Helper()
	var out Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestTasksRoot_AddAndList(t *testing.T) {
	h, _, _ := newHandlerForTests(t)

	rec := httptest.NewRecorder()
	h.TasksRoot(rec, jsonReq(http.MethodPost, "/api/tasks", map[string]any{"text": "  Buy milk "}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Buy milk", created.Text)

	rec = httptest.NewRecorder()
	h.TasksRoot(rec, jsonReq(http.MethodGet, "/api/tasks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeList(t, rec)
	assert.Equal(t, FilterAll, list.Filter)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, created.ID, list.Tasks[0].ID)
}

func TestTasksRoot_RejectsBlankText(t *testing.T) {
	h, s, backing := newHandlerForTests(t)

	rec := httptest.NewRecorder()
	h.TasksRoot(rec, jsonReq(http.MethodPost, "/api/tasks", map[string]any{"text": "   "}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, s.Len())
	assert.Zero(t, backing.writes())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{"))
	h.TasksRoot(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasksRoot_FilterQuery(t *testing.T) {
	h, s, _ := newHandlerForTests(t)
	a, _, _ := s.Add("a")
	_, _, _ = s.Add("b")
	_, _, _ = s.Toggle(a.ID)

	tests := []struct {
		query string
		want  []string
	}{
		{"?filter=all", []string{"b", "a"}},
		{"?filter=active", []string{"b"}},
		{"?filter=completed", []string{"a"}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.TasksRoot(rec, jsonReq(http.MethodGet, "/api/tasks"+tc.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			list := decodeList(t, rec)
			assert.Equal(t, tc.want, texts(list.Tasks))
			assert.Equal(t, 1, list.CompletedCount)
			assert.Equal(t, 1, list.ActiveCount)
		})
	}

	rec := httptest.NewRecorder()
	h.TasksRoot(rec, jsonReq(http.MethodGet, "/api/tasks?filter=done", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilter_SetModeAppliesToList(t *testing.T) {
	h, s, _ := newHandlerForTests(t)
	a, _, _ := s.Add("a")
	_, _, _ = s.Add("b")
	_, _, _ = s.Toggle(a.ID)

	rec := httptest.NewRecorder()
	h.Filter(rec, jsonReq(http.MethodPut, "/api/filter", map[string]any{"filter": "completed"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.TasksRoot(rec, jsonReq(http.MethodGet, "/api/tasks", nil))
	list := decodeList(t, rec)
	assert.Equal(t, FilterCompleted, list.Filter)
	assert.Equal(t, []string{"a"}, texts(list.Tasks))

	rec = httptest.NewRecorder()
	h.Filter(rec, jsonReq(http.MethodPut, "/api/filter", map[string]any{"filter": "nope"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Filter(rec, jsonReq(http.MethodGet, "/api/filter", nil))
	assert.JSONEq(t, `{"filter":"completed"}`, rec.Body.String())
}

func TestTasksSub_ToggleAndDelete(t *testing.T) {
	h, s, _ := newHandlerForTests(t)
	a, _, _ := s.Add("a")

	rec := httptest.NewRecorder()
	h.TasksSub(rec, jsonReq(http.MethodPost, "/api/tasks/"+a.ID+"/toggle", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var toggled Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.True(t, toggled.Done)

	rec = httptest.NewRecorder()
	h.TasksSub(rec, jsonReq(http.MethodGet, "/api/tasks/"+a.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.TasksSub(rec, jsonReq(http.MethodDelete, "/api/tasks/"+a.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, s.Len())

	for _, req := range []*http.Request{
		jsonReq(http.MethodPost, "/api/tasks/missing/toggle", nil),
		jsonReq(http.MethodDelete, "/api/tasks/missing", nil),
		jsonReq(http.MethodGet, "/api/tasks/missing", nil),
		jsonReq(http.MethodGet, "/api/tasks/a/b/c", nil),
	} {
		rec = httptest.NewRecorder()
		h.TasksSub(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, req.URL.Path)
	}
}

func TestTasksSub_ClearCompleted(t *testing.T) {
	h, s, _ := newHandlerForTests(t)
	a, _, _ := s.Add("a")
	_, _, _ = s.Add("b")
	_, _, _ = s.Toggle(a.ID)

	rec := httptest.NewRecorder()
	h.TasksSub(rec, jsonReq(http.MethodPost, "/api/tasks/clear-completed", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"removed":1}`, rec.Body.String())
	assert.Equal(t, []string{"b"}, texts(s.Snapshot()))
}

func TestTasksSub_ClearAllNeedsConfirm(t *testing.T) {
	h, s, _ := newHandlerForTests(t)
	_, _, _ = s.Add("a")
	_, _, _ = s.Add("b")

	rec := httptest.NewRecorder()
	h.TasksSub(rec, jsonReq(http.MethodPost, "/api/tasks/clear-all", map[string]any{"confirm": false}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cleared":false`)
	assert.Equal(t, 2, s.Len())

	rec = httptest.NewRecorder()
	h.TasksSub(rec, jsonReq(http.MethodPost, "/api/tasks/clear-all", map[string]any{"confirm": true}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cleared":true`)
	assert.Zero(t, s.Len())

	rec = httptest.NewRecorder()
	h.TasksSub(rec, jsonReq(http.MethodGet, "/api/tasks/clear-all", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTasksRoot_PersistFailureIs500(t *testing.T) {
	h, s, backing := newHandlerForTests(t)
	backing.fail = errDiskFull

	rec := httptest.NewRecorder()
	h.TasksRoot(rec, jsonReq(http.MethodPost, "/api/tasks", map[string]any{"text": "a"}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk full")
	assert.Equal(t, 1, s.Len())
}

func TestStats(t *testing.T) {
	h, s, _ := newHandlerForTests(t)
	a, _, _ := s.Add("a")
	_, _, _ = s.Toggle(a.ID)

	rec := httptest.NewRecorder()
	h.Stats(rec, jsonReq(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats telemetry.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TasksAdded)
	assert.Equal(t, 1, stats.TasksCompleted)

	rec = httptest.NewRecorder()
	h.Stats(rec, jsonReq(http.MethodGet, "/api/stats?since=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
