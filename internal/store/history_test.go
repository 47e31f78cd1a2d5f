package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nondiv/internal/problem"
	"nondiv/internal/subset"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func solved(t *testing.T, name string, k int, elements ...int64) problem.Solution {
	t.Helper()
	sol, err := problem.Solve(problem.Problem{Name: name, K: k, Elements: elements}, problem.Options{Duplicates: problem.PolicyDedupe})
	require.NoError(t, err)
	return sol
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	run, err := s.Record(ctx, solved(t, "sample", 4, 19, 10, 12, 10, 24, 25, 22))
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)

	want := Run{
		ID:         run.ID,
		Name:       "sample",
		K:          4,
		N:          6,
		Size:       3,
		Duplicates: 1,
		Counts:     subset.Counts{2, 1, 2, 1},
		CreatedAt:  fixed,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRecent_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		_, err := s.Record(ctx, solved(t, string(rune('a'+i)), 3, int64(i)))
		require.NoError(t, err)
	}

	runs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"e", "d", "c"}, []string{runs[0].Name, runs[1].Name, runs[2].Name})

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	run, err := s.Record(ctx, solved(t, "", 2, 1, 2))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Size)
}

func TestCountsEncoding_Sparse(t *testing.T) {
	counts := make(subset.Counts, 1000)
	counts[3] = 2
	counts[999] = 1

	encoded, err := encodeCounts(counts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"3":2,"999":1}`, encoded)

	decoded, err := decodeCounts(encoded, 1000)
	require.NoError(t, err)
	assert.Equal(t, counts, decoded)

	_, err = decodeCounts(`{"5":1}`, 4)
	assert.Error(t, err)
}
