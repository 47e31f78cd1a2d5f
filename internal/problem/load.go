package problem

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawProblem keeps elements as strings so that YAML scalars go through the
// same parser as command-line tokens.
type rawProblem struct {
	Name     string   `yaml:"name"`
	K        *int     `yaml:"k"`
	Elements []string `yaml:"elements"`
}

type problemFile struct {
	Name     string       `yaml:"name"`
	K        *int         `yaml:"k"`
	Elements []string     `yaml:"elements"`
	Problems []rawProblem `yaml:"problems"`
}

// ParseText reads the line-oriented layout
//
//	n k
//	a1 a2 ... an
//
// Elements may wrap across lines; their count must equal n.
func ParseText(r io.Reader) (Problem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(bufio.ScanWords)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Problem{}, fmt.Errorf("failed to read input: %w", err)
	}

	if len(tokens) < 2 {
		return Problem{}, fmt.Errorf("%w: expected header \"n k\"", ErrInvalidInput)
	}
	n, err := strconv.Atoi(tokens[0])
	if err != nil || n < 0 {
		return Problem{}, fmt.Errorf("%w: element count %q is not a non-negative integer", ErrInvalidInput, tokens[0])
	}
	k, err := strconv.Atoi(tokens[1])
	if err != nil {
		return Problem{}, fmt.Errorf("%w: modulus %q is not an integer", ErrInvalidInput, tokens[1])
	}

	elements, err := ParseElements(tokens[2:])
	if err != nil {
		return Problem{}, err
	}
	if len(elements) != n {
		return Problem{}, fmt.Errorf("%w: header declares %d elements, found %d", ErrInvalidInput, n, len(elements))
	}

	return Problem{K: k, Elements: elements}, nil
}

// ParseYAML decodes either a single problem or a {problems: [...]} list.
func ParseYAML(data []byte) ([]Problem, error) {
	var file problemFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	raws := file.Problems
	if len(raws) == 0 {
		raws = []rawProblem{{Name: file.Name, K: file.K, Elements: file.Elements}}
	}

	problems := make([]Problem, 0, len(raws))
	for i, raw := range raws {
		p, err := raw.toProblem()
		if err != nil {
			return nil, fmt.Errorf("problem %d: %w", i, err)
		}
		problems = append(problems, p)
	}
	return problems, nil
}

// LoadFile reads problems from path. YAML files (.yaml, .yml) may hold
// several problems; anything else is parsed with ParseText. Unnamed problems
// are named after the file.
func LoadFile(path string) ([]Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file: %w", err)
	}

	var problems []Problem
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		problems, err = ParseYAML(data)
	default:
		var p Problem
		p, err = ParseText(bytes.NewReader(data))
		problems = []Problem{p}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Base(path)
	for i := range problems {
		if problems[i].Name != "" {
			continue
		}
		if len(problems) == 1 {
			problems[i].Name = base
		} else {
			problems[i].Name = fmt.Sprintf("%s#%d", base, i+1)
		}
	}
	return problems, nil
}

func (r rawProblem) toProblem() (Problem, error) {
	if r.K == nil {
		return Problem{}, fmt.Errorf("%w: missing k", ErrInvalidInput)
	}
	elements, err := ParseElements(r.Elements)
	if err != nil {
		return Problem{}, err
	}
	return Problem{Name: r.Name, K: *r.K, Elements: elements}, nil
}
