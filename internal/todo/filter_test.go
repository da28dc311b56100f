package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterMode(t *testing.T) {
	cases := map[string]FilterMode{
		"":           FilterAll,
		"all":        FilterAll,
		"Active":     FilterActive,
		" completed": FilterCompleted,
	}
	for in, want := range cases {
		got, err := ParseFilterMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFilterMode("done")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestSelector(t *testing.T) {
	sel := NewSelector()
	assert.Equal(t, FilterAll, sel.Mode())

	sel.SetMode(FilterCompleted)
	assert.Equal(t, FilterCompleted, sel.Mode())

	assert.Equal(t, FilterAll, sel.Cycle())
	assert.Equal(t, FilterActive, sel.Cycle())
	assert.Equal(t, FilterCompleted, sel.Cycle())
}

func TestSelector_ViewDoesNotMutate(t *testing.T) {
	s, _, _ := newTestStore(t)
	a, _, _ := s.Add("a")
	_, _, _ = s.Add("b")
	_, _, _ = s.Toggle(a.ID)

	sel := NewSelector()
	sel.SetMode(FilterActive)
	assert.Equal(t, []string{"b"}, texts(sel.View(s)))

	sel.SetMode(FilterCompleted)
	assert.Equal(t, []string{"a"}, texts(sel.View(s)))
	assert.Equal(t, 2, s.Len())
}

func TestFilterModes(t *testing.T) {
	modes := FilterModes()
	assert.Equal(t, []FilterMode{FilterAll, FilterActive, FilterCompleted}, modes)

	modes[0] = "changed"
	assert.Equal(t, FilterAll, FilterModes()[0])
}
