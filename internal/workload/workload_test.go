package workload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/sjf"
)

const sampleWorkload = `name: Convoy Effect
description: One long job ahead of many short ones
processes:
  - {name: Long, arrival: 0, burst: 12}
  - {arrival: 1, burst: 1}
  - {id: tiny, name: Tiny, arrival: 2, burst: 1}
`

func TestParseFillsDefaults(t *testing.T) {
	w, err := Parse([]byte(sampleWorkload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w.ID != "convoy-effect" {
		t.Fatalf("expected slug id, got %q", w.ID)
	}
	want := []sjf.Process{
		{ID: "long", Name: "Long", Arrival: 0, Burst: 12},
		{ID: "p2", Name: "P2", Arrival: 1, Burst: 1},
		{ID: "tiny", Name: "Tiny", Arrival: 2, Burst: 1},
	}
	for i, p := range w.Processes {
		if p != want[i] {
			t.Fatalf("process %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"no processes":  "name: nothing\n",
		"zero burst":    "name: bad\nprocesses:\n  - {name: A, arrival: 0, burst: 0}\n",
		"unknown field": "name: typo\nprocesses:\n  - {name: A, arrival: 0, brust: 3}\n",
		"duplicate ids": "name: dup\nprocesses:\n  - {id: a, burst: 1}\n  - {id: a, burst: 2}\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	_, err := Parse([]byte("name: bad\nprocesses:\n  - {name: A, arrival: -1, burst: 2}\n"))
	if !errors.Is(err, sjf.ErrInvalidInput) {
		t.Fatalf("expected scheduler validation error, got %v", err)
	}
}

func TestLoadDirAndFind(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "convoy.yaml"), []byte(sampleWorkload), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	anonymous := "processes:\n  - {name: Solo, arrival: 0, burst: 5}\n"
	if err := os.WriteFile(filepath.Join(root, "solo.yml"), []byte(anonymous), 0o644); err != nil {
		t.Fatalf("write anonymous: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	files, err := LoadDir(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 workloads, got %d", len(files))
	}
	if files[1].Workload.ID != "solo" {
		t.Fatalf("expected file name fallback id, got %q", files[1].Workload.ID)
	}
	w, err := Find(root, "CONVOY-EFFECT")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(w.Processes) != 3 {
		t.Fatalf("unexpected workload: %+v", w)
	}
	if w, err := Find(root, "textbook"); err != nil || w.ID != "textbook" {
		t.Fatalf("expected builtin fallback, got %+v, %v", w, err)
	}
	if _, err := Find(root, "missing"); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestLoadDirMissing(t *testing.T) {
	files, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no workloads, got %d", len(files))
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workloads")
	path, err := WriteFile(dir, Builtin())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "textbook.yaml" {
		t.Fatalf("unexpected path %s", path)
	}
	file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(file.Workload.Processes) != 4 || file.Workload.Processes[2].Burst != 2 {
		t.Fatalf("unexpected round trip: %+v", file.Workload)
	}
}
