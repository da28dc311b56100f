package serverapp

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"todokeep/internal/todo"
	"todokeep/ui/page"
)

const noticeUnsaved = "unsaved"

// uiHandler serves the HTML page and its plain form posts. Every post
// redirects back to the list (post/redirect/get).
type uiHandler struct {
	app *App
}

func (u *uiHandler) index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	mode := u.app.Selector.Mode()
	if raw := strings.TrimSpace(r.URL.Query().Get("filter")); raw != "" {
		if parsed, err := todo.ParseFilterMode(raw); err == nil {
			mode = parsed
			u.app.Selector.SetMode(mode)
		}
	}

	sum := u.app.Store.Summary(mode)
	data := page.TasksData{
		Title:          u.app.Config.UI.Title,
		Filter:         sum.Filter,
		Tasks:          sum.Tasks,
		CompletedCount: sum.CompletedCount,
		Total:          sum.Total,
		ConfirmMessage: u.app.Store.ConfirmMessage(),
	}
	if r.URL.Query().Get("notice") == noticeUnsaved {
		data.Notice = "Changes could not be saved. Try again."
	}
	templ.Handler(page.TasksPage(data)).ServeHTTP(w, r)
}

func (u *uiHandler) add(w http.ResponseWriter, r *http.Request) {
	if !u.parsePost(w, r) {
		return
	}
	_, _, err := u.app.Store.Add(r.PostFormValue("text"))
	u.back(w, r, err)
}

func (u *uiHandler) toggle(w http.ResponseWriter, r *http.Request) {
	if !u.parsePost(w, r) {
		return
	}
	_, _, err := u.app.Store.Toggle(r.PostFormValue("id"))
	u.back(w, r, err)
}

func (u *uiHandler) remove(w http.ResponseWriter, r *http.Request) {
	if !u.parsePost(w, r) {
		return
	}
	_, err := u.app.Store.Remove(r.PostFormValue("id"))
	u.back(w, r, err)
}

func (u *uiHandler) clearCompleted(w http.ResponseWriter, r *http.Request) {
	if !u.parsePost(w, r) {
		return
	}
	_, err := u.app.Store.ClearCompleted()
	u.back(w, r, err)
}

// clearAll trusts the page script: it sets confirm=yes only after the
// browser's confirm() dialog was accepted.
func (u *uiHandler) clearAll(w http.ResponseWriter, r *http.Request) {
	if !u.parsePost(w, r) {
		return
	}
	answer := todo.Answer(isYes(r.PostFormValue("confirm")))
	_, err := u.app.Store.ClearAll(answer)
	u.back(w, r, err)
}

func (u *uiHandler) parsePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return false
	}
	return true
}

func (u *uiHandler) back(w http.ResponseWriter, r *http.Request, err error) {
	q := url.Values{}
	if mode, perr := todo.ParseFilterMode(r.PostFormValue("filter")); perr == nil {
		q.Set("filter", string(mode))
	}
	if err != nil {
		q.Set("notice", noticeUnsaved)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
