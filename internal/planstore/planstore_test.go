package planstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	ts := FormatTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local))
	if len(ts) != 19 {
		t.Fatalf("expected length 19, got %d (%q)", len(ts), ts)
	}
	if ts[4:5] != "-" || ts[7:8] != "-" || ts[10:11] != " " || ts[13:14] != ":" || ts[16:17] != ":" {
		t.Fatalf("unexpected format: %q", ts)
	}
}

func TestFormatTimestampForFilename(t *testing.T) {
	ts := FormatTimestampForFilename(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local))
	if len(ts) != 19 {
		t.Fatalf("expected length 19, got %d (%q)", len(ts), ts)
	}
	if strings.Contains(ts, ":") {
		t.Fatalf("filename timestamp must not contain colons: %q", ts)
	}
	if ts[10:11] != "_" || ts[13:14] != "-" || ts[16:17] != "-" {
		t.Fatalf("unexpected format: %q", ts)
	}
}

func TestEnsureHistoryFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	historyPath := filepath.Join(dir, HistoryFile)
	if _, err := os.Stat(historyPath); !os.IsNotExist(err) {
		t.Fatalf("expected history file to not exist yet")
	}
	if err := s.EnsureHistoryFile(); err != nil {
		t.Fatalf("EnsureHistoryFile: %v", err)
	}
	if _, err := os.Stat(historyPath); err != nil {
		t.Fatalf("expected history file to exist: %v", err)
	}
	// idempotent
	if err := s.EnsureHistoryFile(); err != nil {
		t.Fatalf("second EnsureHistoryFile: %v", err)
	}
}

func TestWriteEntries(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)

	if err := s.WriteRefiningRequirements(now); err != nil {
		t.Fatalf("WriteRefiningRequirements: %v", err)
	}
	if err := s.WriteGitHead(now, "abc123def456"); err != nil {
		t.Fatalf("WriteGitHead: %v", err)
	}
	if err := s.WriteStartImplementing(now, "Test summary line 1\nTest summary line 2"); err != nil {
		t.Fatalf("WriteStartImplementing: %v", err)
	}
	if err := s.WriteAttemptingRecovery(now); err != nil {
		t.Fatalf("WriteAttemptingRecovery: %v", err)
	}
	if err := s.WriteSkippedRecovery(now); err != nil {
		t.Fatalf("WriteSkippedRecovery: %v", err)
	}
	if err := s.WriteCompletedRequirements(now, "completed_requirements_2025-01-01_12-00-00.md", "completed_todo_2025-01-01_12-00-00.md"); err != nil {
		t.Fatalf("WriteCompletedRequirements: %v", err)
	}
	if err := s.WriteGitCommit(now, "Add feature X"); err != nil {
		t.Fatalf("WriteGitCommit: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, HistoryFile))
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	content := string(b)

	for _, want := range []string{
		"REFINING REQUIREMENTS",
		"GIT HEAD (abc123def456)",
		"START IMPLEMENTING",
		"Test summary line 1",
		"2025-01-01 12:00:00   ATTEMPTING RECOVERY",
		"2025-01-01 12:00:00  USER SKIPPED RECOVERY",
		"COMPLETED REQUIREMENTS",
		"GIT COMMIT",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected history to contain %q, got:\n%s", want, content)
		}
	}
}

func TestTruncateCommitMessage(t *testing.T) {
	short := "Add feature X"
	if got := TruncateCommitMessage(short); got != short {
		t.Fatalf("expected unchanged, got %q", got)
	}
	long := strings.Repeat("a", 100)
	got := TruncateCommitMessage(long)
	if len(got) != 72 {
		t.Fatalf("expected length 72, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
}

func TestCompletedFilenames(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	reqFile := CompletedRequirementsFilename(now)
	todoFile := CompletedTodoFilename(now)

	if !strings.HasPrefix(reqFile, "completed_requirements_") || !strings.HasSuffix(reqFile, ".md") {
		t.Fatalf("unexpected req filename: %q", reqFile)
	}
	if !strings.HasPrefix(todoFile, "completed_todo_") || !strings.HasSuffix(todoFile, ".md") {
		t.Fatalf("unexpected todo filename: %q", todoFile)
	}
	if strings.Contains(reqFile, ":") || strings.Contains(todoFile, ":") {
		t.Fatal("filenames must not contain colons")
	}
}

func TestAllComplete(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"nested checked only", "# T\n\n- [x] a\n  - [x] b\n", true},
		{"mixed", "- [x] a\n    - [ ] b\n", false},
		{"empty", "", false},
		{"uppercase X", "- [X] done\n", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := AllComplete(c.in); got != c.want {
				t.Fatalf("AllComplete(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestArchiveCompleted(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.WriteNewRequirements("req body"); err != nil {
		t.Fatalf("WriteNewRequirements: %v", err)
	}
	if err := s.PromoteNewToCurrent(); err != nil {
		t.Fatalf("PromoteNewToCurrent: %v", err)
	}
	if err := s.WriteTodo("- [x] done\n"); err != nil {
		t.Fatalf("WriteTodo: %v", err)
	}
	if !s.HasCurrentRequirements() || !s.HasTodo() {
		t.Fatal("expected both files to exist before archive")
	}

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	reqFile, todoFile, err := s.ArchiveCompleted(now)
	if err != nil {
		t.Fatalf("ArchiveCompleted: %v", err)
	}
	if s.HasCurrentRequirements() || s.HasTodo() {
		t.Fatal("expected originals to be gone after archive")
	}
	if _, err := os.Stat(filepath.Join(dir, reqFile)); err != nil {
		t.Fatalf("expected archived req file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, todoFile)); err != nil {
		t.Fatalf("expected archived todo file: %v", err)
	}
}
