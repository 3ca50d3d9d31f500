package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

func TestCurriculumPassFailReconciles(t *testing.T) {
	e := buildEngine(t, campusFixture())

	// s1: MATH101 passed (95), ENG101 failed (70), PHYS101 pending,
	// MATH102 never taken.
	summary, err := e.CurriculumPassFail("s1")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalRequired)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Incomplete)
	assert.Equal(t, 1, summary.NotYetTaken)
	assert.Equal(t, summary.TotalRequired,
		summary.Passed+summary.Failed+summary.Incomplete+summary.NotYetTaken)
}

func TestCurriculumPassFailDropCountsIncomplete(t *testing.T) {
	e := buildEngine(t, campusFixture())

	// s3 dropped ENG101: attempted but never numerically graded.
	summary, err := e.CurriculumPassFail("s3")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Incomplete)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, summary.TotalRequired,
		summary.Passed+summary.Failed+summary.Incomplete+summary.NotYetTaken)
}

func TestCurriculumPassFailBestAttemptWins(t *testing.T) {
	res := campusFixture()
	// s1 retakes ENG101 in t2 and passes.
	res.Enrollments = append(res.Enrollments, enrollment("s1", "eng1", "t2", numeric(82)))
	e := buildEngine(t, res)

	summary, err := e.CurriculumPassFail("s1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 0, summary.Failed)
}

func TestCurriculumPassFailErrors(t *testing.T) {
	e := buildEngine(t, campusFixture())

	_, err := e.CurriculumPassFail("ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	res := campusFixture()
	res.Curricula = nil
	e = buildEngine(t, res)
	_, err = e.CurriculumPassFail("s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCurriculumNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectPassFail(t *testing.T) {
	e := buildEngine(t, campusFixture())

	// ENG101 t1: 70 fail, 80 pass, one drop in its own bucket.
	split := e.SubjectPassFail("eng1", "t1")
	assert.Equal(t, 1, split.Passed)
	assert.Equal(t, 1, split.Failed)
	assert.Equal(t, 0, split.Incomplete)
	assert.Equal(t, 1, split.Dropped)
	assert.Equal(t, 50.0, split.PassPct)
	assert.Equal(t, 50.0, split.FailPct)

	empty := e.SubjectPassFail("eng1", "t2")
	assert.Zero(t, empty.Passed+empty.Failed+empty.Incomplete+empty.Dropped)
	assert.Zero(t, empty.PassPct)
}
