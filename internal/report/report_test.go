package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"nondiv/internal/problem"
	"nondiv/internal/subset"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solve(t *testing.T, k int, elements ...int64) problem.Solution {
	t.Helper()
	sol, err := problem.Solve(problem.Problem{K: k, Elements: elements}, problem.Options{Duplicates: problem.PolicyDedupe})
	require.NoError(t, err)
	return sol
}

func TestGroups(t *testing.T) {
	groups, err := Groups([]int64{19, 10, 12, 24, 25, 22}, 4)
	require.NoError(t, err)

	want := []Group{
		{Remainder: 0, Members: []int64{12, 24}},
		{Remainder: 1, Members: []int64{25}},
		{Remainder: 2, Members: []int64{10, 22}},
		{Remainder: 3, Members: []int64{19}},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroups_OmitsEmptyAndNormalizesNegatives(t *testing.T) {
	groups, err := Groups([]int64{-1, 3, 5}, 4)
	require.NoError(t, err)

	want := []Group{
		{Remainder: 1, Members: []int64{5}},
		{Remainder: 3, Members: []int64{-1, 3}},
	}
	assert.Equal(t, want, groups)

	_, err = Groups(nil, 0)
	assert.ErrorIs(t, err, subset.ErrInvalidModulus)
}

func TestRationale(t *testing.T) {
	sol := solve(t, 4, 19, 10, 12, 24, 25, 22)

	assert.Equal(t, []string{
		"remainder 0: 2 elements, pick at most 1 (any two sum to a multiple of 4)",
		"remainders 1 & 3: 1 vs 1, take all 1 from remainder 1 (1+3=4)",
		"remainder 2 (k/2): 2 elements, pick at most 1 (2+2=4)",
	}, Rationale(sol.Selection))

	empty := solve(t, 5)
	assert.Equal(t, []string{
		"remainder 0: empty",
		"remainders 1 & 4: both empty",
		"remainders 2 & 3: both empty",
	}, Rationale(empty.Selection))
}

func TestRender_Plain(t *testing.T) {
	sol, err := problem.Solve(problem.Problem{Name: "sample", K: 4, Elements: []int64{19, 10, 12, 10, 24, 25, 22}},
		problem.Options{Duplicates: problem.PolicyDedupe})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sol, Options{}))
	out := buf.String()

	for _, want := range []string{
		"Non-divisible subset: sample",
		"k: 4",
		"Distinct input: [19, 10, 12, 24, 25, 22]",
		"Removed duplicates: [10]",
		"  19 % 4 = 3",
		"  Remainder 2: [10, 22]",
		"  • remainder 2 (k/2)",
		"Maximal subset size: 3",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRender_TruncatesElementListing(t *testing.T) {
	sol := solve(t, 3, 1, 2, 3, 4, 5)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sol, Options{MaxElements: 2}))
	out := buf.String()

	assert.Contains(t, out, "  2 % 3 = 2")
	assert.NotContains(t, out, "  3 % 3 = 0")
	assert.Contains(t, out, "... 3 more")
}

func TestRender_Color(t *testing.T) {
	sol := solve(t, 2, 1, 2)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sol, Options{Color: true}))
	assert.Contains(t, buf.String(), "Maximal subset size:")
	assert.True(t, strings.Contains(buf.String(), "2"))
}

func TestRenderJSON(t *testing.T) {
	sol := solve(t, 3, 1, 7, 2, 4)

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, sol))

	var decoded struct {
		Size      int           `json:"size"`
		Counts    subset.Counts `json:"counts"`
		Groups    []Group       `json:"groups"`
		Rationale []string      `json:"rationale"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Size)
	assert.Equal(t, subset.Counts{0, 3, 1}, decoded.Counts)
	assert.Len(t, decoded.Groups, 2)
	assert.Len(t, decoded.Rationale, 2)
}

func TestRenderJSON_SeveralSolutionsFormOneArray(t *testing.T) {
	first := solve(t, 3, 1, 7, 2, 4)
	second := solve(t, 2, 1, 2)

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, first, second))

	var decoded []struct {
		Size      int      `json:"size"`
		Rationale []string `json:"rationale"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 3, decoded[0].Size)
	assert.Equal(t, 2, decoded[1].Size)
	assert.NotEmpty(t, decoded[1].Rationale)
}
