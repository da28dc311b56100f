package todo

// DefaultConfirmMessage is asked before ClearAll wipes the list.
const DefaultConfirmMessage = "Delete all tasks?"

// Prompt asks the user a yes/no question and blocks until answered.
type Prompt interface {
	Confirm(message string) bool
}

type PromptFunc func(message string) bool

func (f PromptFunc) Confirm(message string) bool { return f(message) }

// Answer is a Prompt for callers that asked the user before calling in,
// e.g. an HTTP body flag or a TUI confirmation mode.
type Answer bool

const (
	Confirmed Answer = true
	Declined  Answer = false
)

func (a Answer) Confirm(string) bool { return bool(a) }
