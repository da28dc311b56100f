package todo

import (
	"math/rand/v2"
	"strconv"
	"time"
)

type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"createdAt"` // milliseconds since epoch
}

// Created returns CreatedAt as a local time.
func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

const (
	idAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSuffixLen = 4
)

// newID is the base-36 creation time followed by a short random base-36
// suffix. Good enough to avoid collisions within one list, not a global id.
func newID(now time.Time, suffix func() string) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + suffix()
}

func randomSuffix() string {
	b := make([]byte, idSuffixLen)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}
