package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveRun(t *testing.T, a *App, text string) uint64 {
	t.Helper()
	res, err := a.Scan(context.Background(), ScanRequest{
		Patterns:    []string{"cat"},
		Sources:     []Source{{Name: "-", Text: text}},
		ScanOptions: ScanOptions{Save: true},
	})
	require.NoError(t, err)
	return res.Run.ID
}

func TestHistory_RunsNewestFirst(t *testing.T) {
	a := newTestApp(t)
	saveRun(t, a, "cat")
	saveRun(t, a, "cat cat")
	third := saveRun(t, a, "cat cat cat")

	runs, err := a.Runs(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, third, runs[0].ID)
	assert.Equal(t, 3, runs[0].MatchCount)
	assert.Equal(t, 2, runs[1].MatchCount)
}

func TestHistory_LatestRun(t *testing.T) {
	a := newTestApp(t)

	_, err := a.LatestRun()
	assert.ErrorIs(t, err, ErrRunNotFound)

	saveRun(t, a, "cat")
	id := saveRun(t, a, "a cat")

	run, err := a.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
}

func TestHistory_RunNotFound(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Run(99)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestHistory_DeleteRun(t *testing.T) {
	a := newTestApp(t)
	id := saveRun(t, a, "cat")

	require.NoError(t, a.DeleteRun(id))
	_, err := a.Run(id)
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.ErrorIs(t, a.DeleteRun(id), ErrRunNotFound, "second delete reports the missing run")
}
