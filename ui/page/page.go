// Package page holds the server-rendered HTML views. The components are
// written in tasks.templ; run `templ generate` after editing it.
package page

import (
	"fmt"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"todokeep/internal/todo"
)

// TasksData is everything the list page shows.
type TasksData struct {
	Title          string
	Filter         todo.FilterMode
	Tasks          []todo.Task
	CompletedCount int
	Total          int
	ConfirmMessage string
	Notice         string
}

var filterLabels = map[todo.FilterMode]string{
	todo.FilterAll:       "All",
	todo.FilterActive:    "Active",
	todo.FilterCompleted: "Completed",
}

func filterURL(m todo.FilterMode) templ.SafeURL {
	return templ.SafeURL("/?filter=" + url.QueryEscape(string(m)))
}

func summaryText(d TasksData) string {
	return fmt.Sprintf("%d of %d done", d.CompletedCount, d.Total)
}

// FormatCreated renders a creation time in the server's local zone.
func FormatCreated(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
