package todo

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"todokeep/internal/telemetry"
)

type Handler struct {
	store    *Store
	selector *Selector
	events   telemetry.Repository
}

func NewHandler(store *Store, selector *Selector) *Handler {
	if selector == nil {
		selector = NewSelector()
	}
	return &Handler{store: store, selector: selector}
}

func (h *Handler) SetEvents(repo telemetry.Repository) {
	h.events = repo
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

// modeForRequest reads ?filter=, falling back to the selector's mode.
func (h *Handler) modeForRequest(r *http.Request) (FilterMode, error) {
	raw := r.URL.Query().Get("filter")
	if strings.TrimSpace(raw) == "" {
		return h.selector.Mode(), nil
	}
	return ParseFilterMode(raw)
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		mode, err := h.modeForRequest(r)
		if err != nil {
			writeErr(w, 400, err.Error())
			return
		}
		writeJSON(w, 200, h.store.Summary(mode))
		return

	case http.MethodPost:
		var in struct {
			Text string `json:"text"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		t, created, err := h.store.Add(in.Text)
		if !created {
			writeErr(w, 400, ErrEmptyText.Error())
			return
		}
		if err != nil {
			writeErr(w, 500, "task added but not saved: "+err.Error())
			return
		}
		writeJSON(w, 201, t)
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/tasks/{id}, /api/tasks/{id}/toggle, /api/tasks/clear-completed,
// /api/tasks/clear-all
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, 404, "not found")
		return
	}

	parts := strings.Split(tail, "/")

	if len(parts) == 1 {
		switch parts[0] {
		case "clear-completed":
			h.clearCompleted(w, r)
			return
		case "clear-all":
			h.clearAll(w, r)
			return
		}
	}

	id := parts[0]

	// /api/tasks/{id}
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			t, err := h.store.Get(id)
			if err == ErrNotFound {
				writeErr(w, 404, "not found")
				return
			}
			writeJSON(w, 200, t)
			return

		case http.MethodDelete:
			found, err := h.store.Remove(id)
			if !found {
				writeErr(w, 404, "not found")
				return
			}
			if err != nil {
				writeErr(w, 500, "task removed but not saved: "+err.Error())
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true, "id": id})
			return

		default:
			writeErr(w, 405, "method not allowed")
			return
		}
	}

	// /api/tasks/{id}/toggle
	if len(parts) == 2 && parts[1] == "toggle" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		t, found, err := h.store.Toggle(id)
		if !found {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, "task toggled but not saved: "+err.Error())
			return
		}
		writeJSON(w, 200, t)
		return
	}

	writeErr(w, 404, "not found")
}

func (h *Handler) clearCompleted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	removed, err := h.store.ClearCompleted()
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "removed": removed})
}

func (h *Handler) clearAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in struct {
		Confirm bool `json:"confirm"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	cleared, err := h.store.ClearAll(Answer(in.Confirm))
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":      true,
		"cleared": cleared,
		"message": h.store.ConfirmMessage(),
	})
}

// /api/filter
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, map[string]any{"filter": h.selector.Mode()})
		return

	case http.MethodPut:
		var in struct {
			Filter string `json:"filter"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		mode, err := ParseFilterMode(in.Filter)
		if err != nil {
			writeErr(w, 400, err.Error())
			return
		}
		h.selector.SetMode(mode)
		writeJSON(w, 200, map[string]any{"filter": mode})
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	if h.events == nil {
		writeErr(w, 404, "stats disabled")
		return
	}

	since := time.Time{}
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeErr(w, 400, "since must be RFC3339")
			return
		}
		since = parsed
	}

	events, err := h.events.GetEvents(since, nil)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, telemetry.CalculateStats(events, since))
}
