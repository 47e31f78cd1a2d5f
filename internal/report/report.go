// Package report formats solver output for people: the remainder of every
// element, the remainder groups, and the reasoning behind each selection.
// It only reads solver results and never feeds anything back into them.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"nondiv/internal/problem"
	"nondiv/internal/subset"
)

// Group is one non-empty remainder class and its members in input order.
type Group struct {
	Remainder int     `json:"remainder"`
	Members   []int64 `json:"members"`
}

// Groups buckets elements by remainder. Empty classes are omitted and the
// result is ordered by remainder.
func Groups(elements []int64, k int) ([]Group, error) {
	counts, err := subset.Partition(elements, k)
	if err != nil {
		return nil, err
	}

	index := make(map[int]int)
	groups := make([]Group, 0)
	for r, n := range counts {
		if n == 0 {
			continue
		}
		index[r] = len(groups)
		groups = append(groups, Group{Remainder: r, Members: make([]int64, 0, n)})
	}
	for _, x := range elements {
		g := &groups[index[subset.Remainder(x, k)]]
		g.Members = append(g.Members, x)
	}
	return groups, nil
}

// Rationale returns one sentence per selection decision.
func Rationale(sel subset.Selection) []string {
	k := sel.K
	lines := make([]string, 0, len(sel.Contributions))
	for _, c := range sel.Contributions {
		lines = append(lines, explain(k, c))
	}
	return lines
}

func explain(k int, c subset.Contribution) string {
	switch c.Kind {
	case subset.KindZero:
		if c.ClassCount == 0 {
			return "remainder 0: empty"
		}
		return fmt.Sprintf("remainder 0: %s, pick at most 1 (any two sum to a multiple of %d)", plural(c.ClassCount), k)
	case subset.KindHalf:
		if c.ClassCount == 0 {
			return fmt.Sprintf("remainder %d (k/2): empty", c.Class)
		}
		return fmt.Sprintf("remainder %d (k/2): %s, pick at most 1 (%d+%d=%d)", c.Class, plural(c.ClassCount), c.Class, c.Class, k)
	default:
		if c.Taken == 0 {
			return fmt.Sprintf("remainders %d & %d: both empty", c.Class, c.Complement)
		}
		return fmt.Sprintf("remainders %d & %d: %d vs %d, take all %d from remainder %d (%d+%d=%d)",
			c.Class, c.Complement, c.ClassCount, c.ComplementCount, c.Taken, c.Chosen, c.Class, c.Complement, k)
	}
}

func plural(n int) string {
	if n == 1 {
		return "1 element"
	}
	return fmt.Sprintf("%d elements", n)
}

// Options controls Render.
type Options struct {
	Color bool
	// MaxElements caps the per-element remainder listing; 0 lists all.
	MaxElements int
}

// Render writes a human-readable report for sol.
func Render(w io.Writer, sol problem.Solution, opts Options) error {
	theme := PlainTheme()
	if opts.Color {
		theme = ColorTheme()
	}

	p := sol.Problem
	var b strings.Builder

	title := "Non-divisible subset"
	if p.Name != "" {
		title += ": " + p.Name
	}
	fmt.Fprintln(&b, theme.Title.Render(title))
	fmt.Fprintf(&b, "%s %s\n", theme.Label.Render("k:"), theme.Value.Render(fmt.Sprint(p.K)))
	fmt.Fprintf(&b, "%s %s\n", theme.Label.Render("Distinct input:"), formatList(p.Elements))
	if len(sol.Duplicates) > 0 {
		fmt.Fprintln(&b, theme.Warn.Render("Removed duplicates: "+formatList(sol.Duplicates)))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, theme.Section.Render("Remainders"))
	listed := p.Elements
	if opts.MaxElements > 0 && len(listed) > opts.MaxElements {
		listed = listed[:opts.MaxElements]
	}
	for _, x := range listed {
		fmt.Fprintf(&b, "  %d %% %d = %d\n", x, p.K, subset.Remainder(x, p.K))
	}
	if hidden := len(p.Elements) - len(listed); hidden > 0 {
		fmt.Fprintln(&b, theme.Muted.Render(fmt.Sprintf("  ... %d more", hidden)))
	}

	groups, err := Groups(p.Elements, p.K)
	if err != nil {
		return err
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, theme.Section.Render("Remainder groups"))
	if len(groups) == 0 {
		fmt.Fprintln(&b, theme.Muted.Render("  (none)"))
	}
	for _, g := range groups {
		fmt.Fprintf(&b, "  Remainder %d: %s\n", g.Remainder, formatList(g.Members))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, theme.Section.Render("Selection"))
	for _, line := range Rationale(sol.Selection) {
		fmt.Fprintf(&b, "  • %s\n", line)
	}

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%s %s\n", theme.Label.Render("Maximal subset size:"), theme.Result.Render(fmt.Sprint(sol.Size)))

	_, err = io.WriteString(w, b.String())
	return err
}

// jsonReport is the machine-readable form of Render.
type jsonReport struct {
	problem.Solution
	Groups    []Group  `json:"groups"`
	Rationale []string `json:"rationale"`
}

// RenderJSON writes each solution with its groups and rationale as one
// indented JSON document: an object for a single solution, else an array.
func RenderJSON(w io.Writer, sols ...problem.Solution) error {
	reports := make([]jsonReport, 0, len(sols))
	for _, sol := range sols {
		groups, err := Groups(sol.Problem.Elements, sol.Problem.K)
		if err != nil {
			return err
		}
		reports = append(reports, jsonReport{
			Solution:  sol,
			Groups:    groups,
			Rationale: Rationale(sol.Selection),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

func formatList(xs []int64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
