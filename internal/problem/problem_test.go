package problem

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nondiv/internal/subset"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultOpts = Options{Duplicates: PolicyDedupe}

func TestParseElements(t *testing.T) {
	got, err := ParseElements([]string{"19", "-4", "0", "+7"})
	require.NoError(t, err)
	assert.Equal(t, []int64{19, -4, 0, 7}, got)

	for _, bad := range []string{"1.5", "x", "", "99999999999999999999"} {
		_, err := ParseElements([]string{"1", bad})
		assert.ErrorIs(t, err, ErrInvalidInput, "token %q", bad)
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyDedupe, p)

	p, err = ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParsePolicy("keep")
	assert.Error(t, err)
}

func TestPrepare_Dedupe(t *testing.T) {
	p := Problem{K: 4, Elements: []int64{19, 10, 12, 10, 24, 25, 22}}

	got, dups, err := Prepare(p, defaultOpts)
	require.NoError(t, err)
	assert.Equal(t, []int64{19, 10, 12, 24, 25, 22}, got.Elements)
	assert.Equal(t, []int64{10}, dups)
}

func TestPrepare_Strict(t *testing.T) {
	p := Problem{Name: "dup", K: 4, Elements: []int64{1, 2, 1}}

	_, _, err := Prepare(p, Options{Duplicates: PolicyStrict})
	require.ErrorIs(t, err, subset.ErrDuplicateElement)
	assert.Contains(t, err.Error(), "dup")

	_, dups, err := Prepare(Problem{K: 4, Elements: []int64{1, 2}}, Options{Duplicates: PolicyStrict})
	require.NoError(t, err)
	assert.Empty(t, dups)
}

func TestPrepare_InvalidModulus(t *testing.T) {
	_, _, err := Prepare(Problem{K: 0, Elements: []int64{1}}, defaultOpts)
	require.ErrorIs(t, err, subset.ErrInvalidModulus)
	assert.Contains(t, err.Error(), "k must be >= 1, got 0")

	_, _, err = Prepare(Problem{K: 100}, Options{MaxModulus: 10})
	require.ErrorIs(t, err, subset.ErrInvalidModulus)
	assert.Contains(t, err.Error(), "exceeds limit 10")
}

func TestPrepare_ModulusLimit(t *testing.T) {
	tests := []struct {
		name    string
		k       int
		max     int
		wantErr string
	}{
		{"at configured limit", 10, 10, ""},
		{"above configured limit", 11, 10, "k=11 exceeds limit 10"},
		{"unlimited accepts large k", 1 << 20, 0, ""},
		{"unlimited still capped", subset.MaxModulus + 1, 0, "exceeds limit"},
		{"max int with unlimited", math.MaxInt, 0, "exceeds limit"},
		{"configured above solver cap", subset.MaxModulus + 1, math.MaxInt, "exceeds limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Prepare(Problem{K: tt.k, Elements: []int64{1, 2}}, Options{MaxModulus: tt.max})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, subset.ErrInvalidModulus)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSolve_HugeModulusReturnsError(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := Solve(Problem{K: math.MaxInt, Elements: []int64{1, 2}}, Options{})
		assert.ErrorIs(t, err, subset.ErrInvalidModulus)
	})
}

func TestSolve_ScenarioA(t *testing.T) {
	sol, err := Solve(Problem{K: 4, Elements: []int64{19, 10, 12, 10, 24, 25, 22}}, defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, 3, sol.Size)
	assert.Equal(t, sol.Selection.Size, sol.Size)
	if diff := cmp.Diff(subset.Counts{2, 1, 2, 1}, sol.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int64{10}, sol.Duplicates)
}

func TestParseText(t *testing.T) {
	p, err := ParseText(strings.NewReader("4 3\n1 7 2 4\n"))
	require.NoError(t, err)
	assert.Equal(t, Problem{K: 3, Elements: []int64{1, 7, 2, 4}}, p)

	p, err = ParseText(strings.NewReader("3 5\n1\n2\n3"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, p.Elements)

	p, err = ParseText(strings.NewReader("0 2\n"))
	require.NoError(t, err)
	assert.Empty(t, p.Elements)
}

func TestParseText_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"missing k":      "3",
		"bad count":      "x 3\n1 2 3",
		"negative count": "-1 3\n",
		"bad k":          "3 k\n1 2 3",
		"count mismatch": "3 4\n1 2",
		"bad element":    "2 4\n1 two",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseText(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseYAML(t *testing.T) {
	single, err := ParseYAML([]byte("name: sample\nk: 4\nelements: [19, 10, 12, 24, 25, 22]\n"))
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, Problem{Name: "sample", K: 4, Elements: []int64{19, 10, 12, 24, 25, 22}}, single[0])

	multi, err := ParseYAML([]byte(`
problems:
  - name: a
    k: 3
    elements: [1, 7, 2, 4]
  - k: 2
    elements:
      - 1
      - -2
`))
	require.NoError(t, err)
	want := []Problem{
		{Name: "a", K: 3, Elements: []int64{1, 7, 2, 4}},
		{K: 2, Elements: []int64{1, -2}},
	}
	if diff := cmp.Diff(want, multi); diff != "" {
		t.Errorf("ParseYAML() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAML_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"missing k":     "elements: [1, 2]\n",
		"float element": "k: 3\nelements: [1, 2.5]\n",
		"malformed":     "k: [3\n",
		"bad in list":   "problems:\n  - k: 3\n    elements: [a]\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("4 3\n1 7 2 4\n"), 0644))
	problems, err := LoadFile(textPath)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "input.txt", problems[0].Name)

	yamlPath := filepath.Join(dir, "set.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("problems:\n  - k: 1\n    elements: [5]\n  - name: named\n    k: 2\n    elements: []\n"), 0644))
	problems, err = LoadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, problems, 2)
	assert.Equal(t, "set.yml#1", problems[0].Name)
	assert.Equal(t, "named", problems[1].Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	badPath := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(badPath, []byte("2 3\n1 x"), 0644))
	_, err = LoadFile(badPath)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), badPath)
}
