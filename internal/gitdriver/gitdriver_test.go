package gitdriver

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestShouldExcludeTarget(t *testing.T) {
	if !shouldExclude("target/debug/something") {
		t.Fatal("expected target/debug/something to be excluded")
	}
	if !shouldExclude("some/path/target/release/bin") {
		t.Fatal("expected nested target/ to be excluded")
	}
}

func TestShouldExcludeNodeModules(t *testing.T) {
	if !shouldExclude("node_modules/package/index.js") {
		t.Fatal("expected node_modules to be excluded")
	}
	if !shouldExclude("frontend/node_modules/react/index.js") {
		t.Fatal("expected nested node_modules to be excluded")
	}
}

func TestShouldExcludeLogFiles(t *testing.T) {
	if !shouldExclude("app.log") {
		t.Fatal("expected app.log to be excluded")
	}
	if !shouldExclude("logs/debug.log") {
		t.Fatal("expected logs/debug.log to be excluded")
	}
}

func TestShouldExcludeTempFiles(t *testing.T) {
	for _, f := range []string{"file.tmp", "file.bak", "file.swp"} {
		if !shouldExclude(f) {
			t.Fatalf("expected %s to be excluded", f)
		}
	}
}

func TestShouldNotExcludeNormalFiles(t *testing.T) {
	for _, f := range []string{"src/main.rs", "Cargo.toml", "README.md", "package.json"} {
		if shouldExclude(f) {
			t.Fatalf("expected %s to NOT be excluded", f)
		}
	}
}

func TestDirtyFilesDisplay(t *testing.T) {
	dirty := DirtyFiles{
		Modified:  []string{"src/main.rs"},
		Untracked: []string{"new_file.txt"},
		Staged:    []string{"Cargo.toml"},
	}
	display := dirty.ToDisplayString()
	for _, want := range []string{"Modified:", "src/main.rs", "Untracked:", "new_file.txt", "Staged:", "Cargo.toml"} {
		if !contains(display, want) {
			t.Fatalf("expected display to contain %q, got:\n%s", want, display)
		}
	}
}

func contains(s, substr string) bool {
	return len(substr) == 0 || (len(s) >= len(substr) && indexOf(s, substr) >= 0)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// initRepo creates a throwaway git repository for the driver integration
// tests that need a real `git` binary on PATH.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Skipf("git not usable in this environment: %v: %s", err, out)
		}
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	return dir
}

func TestIsRepoAndHeadSHA(t *testing.T) {
	dir := initRepo(t)
	d := New(dir)
	if !d.IsRepo() {
		t.Fatal("expected fresh git init to be a repo")
	}

	readme := filepath.Join(dir, "README.md")
	writeFile(t, readme, "hello\n")

	if _, err := d.StageFiles(filepath.Join(dir, "g3-plan")); err != nil {
		t.Fatalf("StageFiles: %v", err)
	}
	if _, err := d.Commit("initial commit", ""); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	sha, err := d.HeadSHA()
	if err != nil {
		t.Fatalf("HeadSHA: %v", err)
	}
	if len(sha) < 7 {
		t.Fatalf("unexpected sha: %q", sha)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}
