package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComparison(t *testing.T) {
	for token, want := range map[string]Comparison{
		"lt": Lt, "le": Le, "gt": Gt, "ge": Ge, "eq": Eq, "ne": Ne,
	} {
		got, err := ParseComparison(token)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, token, got.String())
	}

	_, err := ParseComparison("like")
	assert.Error(t, err)
}

func TestComparisonMatches(t *testing.T) {
	assert.True(t, Lt.Matches(70, 75))
	assert.False(t, Lt.Matches(75, 75))
	assert.True(t, Le.Matches(75, 75))
	assert.True(t, Gt.Matches(80, 75))
	assert.True(t, Ge.Matches(75, 75))
	assert.True(t, Eq.Matches(75, 75))
	assert.True(t, Ne.Matches(74, 75))
	assert.False(t, Ne.Matches(75, 75))
}

func TestQueryGrades(t *testing.T) {
	e := buildEngine(t, campusFixture())

	// ENG101 grades: 70, 80, plus one drop that must never match,
	// not even Ne.
	below := e.QueryGrades("eng1", Lt, PassingGrade)
	require.Len(t, below, 1)
	assert.Equal(t, "s1", below[0].StudentID)

	any := e.QueryGrades("eng1", Ne, -1)
	assert.Len(t, any, 2)

	exact := e.QueryGrades("eng1", Eq, 80)
	require.Len(t, exact, 1)
	assert.Equal(t, "s2", exact[0].StudentID)
}
