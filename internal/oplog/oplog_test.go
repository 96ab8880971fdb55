package oplog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oplog.txt")
	l := New(path)

	if err := l.Append(4*time.Hour+55*time.Minute, "takeoff"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(6*time.Hour+15*time.Minute, "on target Mira  "); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := l.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].At != 4*time.Hour+55*time.Minute || entries[0].Text != "takeoff" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Text != "on target Mira" {
		t.Errorf("entry 1 text = %q, want trimmed", entries[1].Text)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "04:55:00\ttakeoff\n06:15:00\ton target Mira\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestReadSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oplog.txt")
	content := "04:55:00\ttakeoff\nhand-written note without a stamp\nnot-a-time\talso bad\n06:00:00\tfine\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := New(path).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestReadMissingFile(t *testing.T) {
	entries, err := New(filepath.Join(t.TempDir(), "absent.txt")).Read()
	if err != nil {
		t.Fatalf("Read on a missing file should be empty, got %v", err)
	}
	if entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
}
