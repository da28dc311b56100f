package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todokeep/internal/todo"
)

var (
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F848E")).Strikethrough(true)
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F848E"))
	summaryStyle = lipgloss.NewStyle().Bold(true)
)

func renderList(store *todo.Store, mode todo.FilterMode) string {
	var b strings.Builder

	sum := store.Summary(mode)
	if len(sum.Tasks) == 0 {
		b.WriteString(metaStyle.Render("No tasks to show."))
		b.WriteString("\n")
	}
	for _, t := range sum.Tasks {
		box := "[ ]"
		text := t.Text
		if t.Done {
			box = "[x]"
			text = doneStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s %s %s  %s\n",
			box,
			idStyle.Render(t.ID),
			text,
			metaStyle.Render("created "+t.Created().Local().Format("2006-01-02 15:04")),
		)
	}

	b.WriteString(summaryStyle.Render(fmt.Sprintf("%d of %d done · showing %s", sum.CompletedCount, sum.Total, mode)))
	b.WriteString("\n")
	return b.String()
}
