// Package manifest parses pip requirements files, preserving the order
// in which requirements are declared.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// ErrCycle indicates a -r include loop between requirements files.
var ErrCycle = errors.New("requirements include cycle")

// A Requirement is a single dependency declaration.
type Requirement struct {
	Name       string // distribution name, lowercased, extras stripped
	Constraint string // raw version constraint, e.g. ">=6.4", may be empty
}

// A Manifest is an ordered set of requirements read from a file.
type Manifest struct {
	Path string

	reqs *orderedmap.OrderedMap
}

// Parse reads and parses the requirements file at path, following
// nested `-r` includes relative to their containing file.
func Parse(path string) (*Manifest, error) {
	m := &Manifest{Path: path, reqs: orderedmap.New()}
	if err := m.parseFile(path, map[string]bool{}); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) parseFile(path string, seen map[string]bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if seen[abs] {
		return fmt.Errorf("%w: %s", ErrCycle, path)
	}
	seen[abs] = true

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open requirements manifest: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		if included, ok := strings.CutPrefix(line, "-r "); ok {
			include := strings.TrimSpace(included)
			if !filepath.IsAbs(include) {
				include = filepath.Join(filepath.Dir(path), include)
			}
			if err := m.parseFile(include, seen); err != nil {
				return err
			}
			continue
		}
		if strings.HasPrefix(line, "-") {
			// Other pip options (--index-url etc.) are not dependencies.
			continue
		}

		req := parseLine(line)
		if req.Name != "" {
			m.reqs.Set(req.Name, req.Constraint)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read requirements manifest: %w", err)
	}
	return nil
}

// stripComment drops full-line and trailing comments and trims space.
func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	// A trailing comment must be preceded by whitespace per pip's format.
	if i := strings.Index(line, " #"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

var constraintOps = []string{"===", "==", ">=", "<=", "~=", "!=", ">", "<"}

// parseLine splits a requirement line into name and constraint.
func parseLine(line string) Requirement {
	// Environment markers apply to pip, not to the manifest listing.
	if i := strings.Index(line, ";"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	name, constraint := line, ""
	for _, op := range constraintOps {
		if i := strings.Index(line, op); i >= 0 {
			name = strings.TrimSpace(line[:i])
			constraint = strings.TrimSpace(line[i:])
			break
		}
	}

	// Extras like PyQt6[multimedia] select optional features of the
	// same distribution.
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}

	return Requirement{Name: strings.ToLower(strings.TrimSpace(name)), Constraint: constraint}
}

// Count returns the number of distinct requirements.
func (m *Manifest) Count() int {
	return len(m.reqs.Keys())
}

// Requirements returns all requirements in declaration order.
func (m *Manifest) Requirements() []Requirement {
	var reqs []Requirement
	for _, name := range m.reqs.Keys() {
		constraint, _ := m.reqs.Get(name)
		reqs = append(reqs, Requirement{Name: name, Constraint: constraint.(string)})
	}
	return reqs
}

// Get returns the constraint for a requirement, if declared.
func (m *Manifest) Get(name string) (string, bool) {
	v, ok := m.reqs.Get(strings.ToLower(name))
	if !ok {
		return "", false
	}
	return v.(string), true
}
