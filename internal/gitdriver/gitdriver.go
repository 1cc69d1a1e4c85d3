// Package gitdriver shells out to git for the repo queries, staging, and
// commit operations the Planner needs: status/branch/HEAD, staging with an
// exclusion list, and committing.
package gitdriver

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// excludePatterns are the exact, ordered patterns the driver refuses to
// auto-stage.
var excludePatterns = []string{
	"target/", "node_modules/", "__pycache__/", ".venv/",
	"*.log", "*.tmp", "*.bak", ".DS_Store", "Thumbs.db", "*.pyc",
	"tmp/", "temp/", ".pytest_cache/", ".mypy_cache/", ".ruff_cache/",
	"*.swp", "*.swo", "*~",
}

// CommandError wraps a failed git invocation, preserving its stderr as the
// wrapped cause so tests and callers can inspect it via errors.Cause.
type CommandError struct {
	Args   []string
	Stderr string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git %s failed: %s", strings.Join(e.Args, " "), e.Stderr)
}

// PreconditionError signals a git-precondition failure (not a repo, no
// HEAD, etc.) that should abort the Planner's current transition.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

// Driver issues git commands rooted at Codepath.
type Driver struct {
	Codepath string
}

// New returns a Driver rooted at codepath.
func New(codepath string) *Driver {
	return &Driver{Codepath: codepath}
}

func (d *Driver) run(args ...string) (stdout string, err error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = d.Codepath
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	runErr := cmd.Run()
	if runErr != nil {
		cmdErr := &CommandError{Args: args, Stderr: strings.TrimSpace(errBuf.String())}
		return outBuf.String(), errors.Wrap(cmdErr, "git command failed")
	}
	return outBuf.String(), nil
}

// IsRepo reports whether Codepath is inside a git repository.
func (d *Driver) IsRepo() bool {
	_, err := d.run("rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the repository's top-level directory.
func (d *Driver) RepoRoot() (string, error) {
	out, err := d.run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", &PreconditionError{Reason: "not in a git repository"}
	}
	return strings.TrimSpace(out), nil
}

// CurrentBranch returns the current branch name, or
// "(detached HEAD at <short-sha>)" when HEAD is detached.
func (d *Driver) CurrentBranch() (string, error) {
	out, err := d.run("branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	branch := strings.TrimSpace(out)
	if branch != "" {
		return branch, nil
	}

	shaOut, err := d.run("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get HEAD sha for detached branch: %w", err)
	}
	return fmt.Sprintf("(detached HEAD at %s)", strings.TrimSpace(shaOut)), nil
}

// HeadSHA returns the current HEAD commit SHA.
func (d *Driver) HeadSHA() (string, error) {
	out, err := d.run("rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get HEAD sha: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// DirtyFiles classifies the repository's working-tree changes.
type DirtyFiles struct {
	Modified  []string
	Untracked []string
	Staged    []string
}

// IsEmpty reports whether there are no modified, untracked, or staged
// files at all.
func (df DirtyFiles) IsEmpty() bool {
	return len(df.Modified) == 0 && len(df.Untracked) == 0 && len(df.Staged) == 0
}

// ToDisplayString renders df for a confirmation prompt.
func (df DirtyFiles) ToDisplayString() string {
	var lines []string
	section := func(title string, files []string) {
		if len(files) == 0 {
			return
		}
		lines = append(lines, title+":")
		for _, f := range files {
			lines = append(lines, "  "+f)
		}
	}
	section("Staged", df.Staged)
	section("Modified", df.Modified)
	section("Untracked", df.Untracked)
	return strings.Join(lines, "\n")
}

// Dirty parses `git status --porcelain`, optionally ignoring files whose
// path contains ignorePattern.
func (d *Driver) Dirty(ignorePattern string) (DirtyFiles, error) {
	out, err := d.run("status", "--porcelain")
	if err != nil {
		return DirtyFiles{}, fmt.Errorf("check git status: %w", err)
	}

	var result DirtyFiles
	for _, line := range splitLines(out) {
		if len(line) < 3 {
			continue
		}
		status := line[0:2]
		file := strings.TrimSpace(line[3:])

		if ignorePattern != "" && strings.Contains(file, ignorePattern) {
			continue
		}

		switch status {
		case "??":
			result.Untracked = append(result.Untracked, file)
		case " M", "MM", "AM":
			result.Modified = append(result.Modified, file)
		case "M ", "A ", "D ", "R ":
			result.Staged = append(result.Staged, file)
		default:
			if strings.HasPrefix(status, " ") {
				result.Modified = append(result.Modified, file)
			} else {
				result.Staged = append(result.Staged, file)
			}
		}
	}
	return result, nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// shouldExclude reports whether path matches the exclusion list.
func shouldExclude(path string) bool {
	for _, pattern := range excludePatterns {
		switch {
		case strings.HasSuffix(pattern, "/"):
			dirName := strings.TrimSuffix(pattern, "/")
			if strings.Contains(path, "/"+dirName+"/") || strings.HasPrefix(path, dirName+"/") {
				return true
			}
		case strings.HasPrefix(pattern, "*"):
			suffix := strings.TrimPrefix(pattern, "*")
			if strings.HasSuffix(path, suffix) {
				return true
			}
		default:
			if path == pattern || strings.HasSuffix(path, "/"+pattern) {
				return true
			}
		}
	}
	return false
}

// ShouldExclude exposes shouldExclude for callers that need to classify a
// path without staging (the planner's dirty-files confirmation prompt).
func ShouldExclude(path string) bool { return shouldExclude(path) }

// StagingResult records the outcome of StageFiles.
type StagingResult struct {
	Staged   []string
	Excluded []string
	Failed   []string
}

// StageFiles stages planDir (ignoring a "did not match any files" miss),
// then stages every modified-unstaged or untracked path not matching the
// exclusion list.
func (d *Driver) StageFiles(planDir string) (StagingResult, error) {
	var result StagingResult

	if _, err := d.run("add", planDir); err != nil {
		var cmdErr *CommandError
		if ce, ok := errors.Cause(err).(*CommandError); ok {
			cmdErr = ce
		}
		if cmdErr == nil || !strings.Contains(cmdErr.Stderr, "did not match any files") {
			return result, fmt.Errorf("stage plan directory: %w", err)
		}
	}

	statusOut, err := d.run("status", "--porcelain")
	if err != nil {
		return result, fmt.Errorf("get git status: %w", err)
	}

	for _, line := range splitLines(statusOut) {
		if len(line) < 3 {
			continue
		}
		status := line[0:2]
		file := strings.TrimSpace(line[3:])

		if !strings.HasPrefix(status, " ") && status != "??" {
			continue // already staged
		}

		if shouldExclude(file) {
			result.Excluded = append(result.Excluded, file)
			continue
		}

		if _, err := d.run("add", file); err != nil {
			result.Failed = append(result.Failed, file)
		} else {
			result.Staged = append(result.Staged, file)
		}
	}

	return result, nil
}

// StagePlanDir re-stages only planDir. Used between appending the GIT
// COMMIT history line and invoking Commit, so that line is captured in the
// commit it describes.
func (d *Driver) StagePlanDir(planDir string) error {
	if _, err := d.run("add", planDir); err != nil {
		return fmt.Errorf("re-stage plan directory: %w", err)
	}
	return nil
}

// Commit runs `git commit -m <summary[\n\nbody]>` and returns the new HEAD
// SHA.
func (d *Driver) Commit(summary, body string) (string, error) {
	message := summary
	if body != "" {
		message = summary + "\n\n" + body
	}
	if _, err := d.run("commit", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}
	return d.HeadSHA()
}
