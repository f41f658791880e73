// Package workload reads process sets from YAML files. A workload is the
// editable input to the scheduler: a named list of processes with arrival and
// burst times.
package workload

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
)

// Workload is one named process set.
type Workload struct {
	ID          string        `json:"id" yaml:"id,omitempty"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Processes   []sjf.Process `json:"processes" yaml:"processes"`
}

// File pairs a parsed workload with its on-disk source.
type File struct {
	Workload Workload
	Path     string
}

// Builtin returns the classic four-process example used when no workload
// files exist.
func Builtin() Workload {
	return Workload{
		ID:          "textbook",
		Name:        "Textbook",
		Description: "Four processes with staggered arrivals",
		Processes: []sjf.Process{
			{ID: "p1", Name: "P1", Arrival: 0, Burst: 6},
			{ID: "p2", Name: "P2", Arrival: 2, Burst: 4},
			{ID: "p3", Name: "P3", Arrival: 4, Burst: 2},
			{ID: "p4", Name: "P4", Arrival: 5, Burst: 3},
		},
	}
}

// Normalized returns a trimmed copy with default names and IDs filled in.
// Processes without a name become P<n>; processes without an ID use their
// lower-cased name.
func (w Workload) Normalized() Workload {
	clone := Workload{
		ID:          strings.TrimSpace(w.ID),
		Name:        strings.TrimSpace(w.Name),
		Description: strings.TrimSpace(w.Description),
	}
	if len(w.Processes) > 0 {
		clone.Processes = make([]sjf.Process, len(w.Processes))
		for i, p := range w.Processes {
			p.Name = strings.TrimSpace(p.Name)
			p.ID = strings.TrimSpace(p.ID)
			if p.Name == "" {
				p.Name = fmt.Sprintf("P%d", i+1)
			}
			if p.ID == "" {
				p.ID = strings.ToLower(p.Name)
			}
			clone.Processes[i] = p
		}
	}
	if clone.ID == "" {
		clone.ID = slug(clone.Name)
	}
	return clone
}

// Validate ensures the workload has an identity and a schedulable process set.
func (w Workload) Validate() error {
	normalized := w.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("workload: id or name is required")
	}
	if err := sjf.Validate(normalized.Processes); err != nil {
		return fmt.Errorf("workload %s: %w", normalized.ID, err)
	}
	return nil
}

// Parse decodes and validates a single workload payload. Unknown keys are
// rejected so typos such as "brust" do not silently default to zero.
func Parse(data []byte) (Workload, error) {
	return parseWithFallbackID(data, "")
}

// Marshal encodes a workload as YAML.
func Marshal(w Workload) ([]byte, error) {
	data, err := yaml.Marshal(w.Normalized())
	if err != nil {
		return nil, fmt.Errorf("workload: encode: %w", err)
	}
	return data, nil
}

// LoadFile reads a YAML file from disk and returns the parsed workload. A
// workload without id or name takes its ID from the file name.
func LoadFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("workload: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("workload: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("workload: read %s: %w", path, err)
	}
	w, err := parseWithFallbackID(data, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return File{}, fmt.Errorf("workload: %s: %w", path, err)
	}
	return File{Workload: w, Path: filepath.Clean(path)}, nil
}

// LoadDir scans a directory for *.yaml workloads. Missing directories are
// treated as "no workloads".
func LoadDir(dir string) ([]File, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("workload: read %s: %w", trimmed, err)
	}
	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		file, err := LoadFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Find returns the workload with the given ID from dir, falling back to the
// builtin set when id names it and no file overrides it.
func Find(dir, id string) (Workload, error) {
	id = strings.TrimSpace(id)
	files, err := LoadDir(dir)
	if err != nil {
		return Workload{}, err
	}
	for _, f := range files {
		if strings.EqualFold(f.Workload.ID, id) {
			return f.Workload, nil
		}
	}
	if builtin := Builtin(); id == "" || strings.EqualFold(builtin.ID, id) {
		return builtin, nil
	}
	return Workload{}, fmt.Errorf("workload: %q not found in %s", id, dir)
}

// WriteFile stores w as <dir>/<id>.yaml.
func WriteFile(dir string, w Workload) (string, error) {
	if err := w.Validate(); err != nil {
		return "", err
	}
	data, err := Marshal(w)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("workload: ensure dir: %w", err)
	}
	path := filepath.Join(dir, w.Normalized().ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("workload: write %s: %w", path, err)
	}
	return path, nil
}

func parseWithFallbackID(data []byte, fallback string) (Workload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Workload{}, fmt.Errorf("workload: payload is empty")
	}
	var w Workload
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		return Workload{}, fmt.Errorf("workload: decode: %w", err)
	}
	if strings.TrimSpace(w.ID) == "" && strings.TrimSpace(w.Name) == "" {
		w.ID = fallback
	}
	if err := w.Validate(); err != nil {
		return Workload{}, err
	}
	return w.Normalized(), nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

func slug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "-")
}
