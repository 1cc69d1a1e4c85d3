package llm

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CLIBackend shells out to a configurable command-line LLM client (the
// agent binary the operator has on PATH, e.g. a coding-assistant CLI) once
// per Complete call, in non-interactive single-shot mode.
type CLIBackend struct {
	BinaryPath string
	name       string
}

// NewCLIBackend resolves binaryPath (trying PATH and a few common install
// locations) and returns a backend identified by name.
func NewCLIBackend(name, binaryPath string) *CLIBackend {
	if binaryPath == "" {
		binaryPath = name
	}
	return &CLIBackend{BinaryPath: resolveBinaryPath(binaryPath), name: name}
}

func resolveBinaryPath(binaryPath string) string {
	if filepath.IsAbs(binaryPath) {
		return binaryPath
	}
	if path, err := exec.LookPath(binaryPath); err == nil {
		return path
	}
	home, _ := os.UserHomeDir()
	for _, p := range []string{
		filepath.Join(home, ".local", "bin", binaryPath),
		filepath.Join("/usr/local/bin", binaryPath),
		filepath.Join("/opt/homebrew/bin", binaryPath),
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return binaryPath
}

func binaryNotFoundError(name string) error {
	return fmt.Errorf(`%s not found in PATH

Add its install directory to PATH, or set the binary path explicitly in
config (llm.binary)`, name)
}

func (c *CLIBackend) Name() string { return c.name }

// Complete runs the configured binary once, feeding req.Prompt on stdin and
// capturing stdout as the response text; stderr is only included in the
// error returned when the command fails.
func (c *CLIBackend) Complete(ctx context.Context, req Request) (Response, error) {
	args := c.buildArgs(req)

	cmd := exec.CommandContext(ctx, c.BinaryPath, args...)
	cmd.Dir = req.WorkDir
	cmd.Stdin = strings.NewReader(req.Prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(err.Error(), "executable file not found") {
			return Response{}, binaryNotFoundError(c.name)
		}
		return Response{}, fmt.Errorf("%s: %w: %s", c.name, err, stderr.String())
	}

	return Response{Text: stdout.String()}, nil
}

func (c *CLIBackend) buildArgs(req Request) []string {
	var args []string
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if len(req.AllowedTools) > 0 {
		args = append(args, "--allowedTools", strings.Join(req.AllowedTools, ","))
	}
	args = append(args, req.ContextFiles...)
	return args
}
