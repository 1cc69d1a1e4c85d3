// Package process supervises named, long-running background child
// processes, each with a combined stdout+stderr log file.
package process

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/g3labs/g3/internal/diffapply"
)

// Info describes a tracked background process.
type Info struct {
	Name       string
	Command    string
	PID        int
	LogFile    string
	StartedAt  int64
	WorkingDir string
	// SessionID uniquely identifies this start() call even across a
	// name being removed and reused; it has no analogue in the shell and
	// exists purely for correlating supervisor diagnostics in glog.
	SessionID string
}

// DuplicateNameError is returned by Start when name is already tracked.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a process named '%s' is already running. Stop it first or use a different name.", e.Name)
}

// SpawnError wraps a failure to create the log file or spawn the child.
type SpawnError struct {
	Name   string
	Reason string
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start process '%s': %s", e.Name, e.Reason)
}

type record struct {
	info *Info
	cmd  *exec.Cmd
	done chan struct{}
	file *os.File
}

// Supervisor owns zero or more live background processes, keyed by name.
// The record map and the live-child bookkeeping are one critical section:
// every public method acquires the mutex, mutates, and releases it without
// ever blocking on a child underneath it.
type Supervisor struct {
	mu      sync.Mutex
	records map[string]*record
	logDir  string
}

// New creates a Supervisor that writes logs under logDir, creating it if
// necessary.
func New(logDir string) (*Supervisor, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", logDir, err)
	}
	return &Supervisor{
		records: make(map[string]*record),
		logDir:  logDir,
	}, nil
}

// Start launches `bash -c command` in workingDir under the tracked name.
// A name that is already tracked is rejected atomically, whether or not its
// child has exited; Remove or Cleanup frees the name.
func (s *Supervisor) Start(name, command, workingDir string) (*Info, error) {
	s.mu.Lock()
	if _, exists := s.records[name]; exists {
		s.mu.Unlock()
		return nil, &DuplicateNameError{Name: name}
	}
	// Reserve the name immediately so two concurrent Start(name, ...) calls
	// cannot both pass the exists check before either inserts.
	s.records[name] = &record{}
	s.mu.Unlock()

	info, rec, err := s.spawn(name, command, workingDir)
	if err != nil {
		s.mu.Lock()
		delete(s.records, name)
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.records[name] = rec
	s.mu.Unlock()

	return info, nil
}

func (s *Supervisor) spawn(name, command, workingDir string) (*Info, *record, error) {
	// Pass the command through EscapeShellCommand before it reaches bash -c;
	// for an unquoted file command this collapses runs of spaces and leaves
	// every argument unquoted.
	command = diffapply.EscapeShellCommand(command)

	startedAt := time.Now().Unix()
	logFile := filepath.Join(s.logDir, fmt.Sprintf("%s_%d.log", name, startedAt))

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, &SpawnError{Name: name, Reason: fmt.Sprintf("failed to create log file: %v", err)}
	}

	fmt.Fprintln(file, "=== Background Process Log ===")
	fmt.Fprintf(file, "Name: %s\n", name)
	fmt.Fprintf(file, "Command: %s\n", command)
	fmt.Fprintf(file, "Working Directory: %q\n", workingDir)
	fmt.Fprintf(file, "Started: %d\n", startedAt)
	fmt.Fprintln(file, "================================")
	fmt.Fprintln(file)

	cmd := exec.Command("bash", "-c", command)
	cmd.Dir = workingDir
	cmd.Stdout = file
	cmd.Stderr = file

	if err := cmd.Start(); err != nil {
		file.Close()
		log.Warn().Str("name", name).Err(err).Msg("failed to spawn background process")
		return nil, nil, &SpawnError{Name: name, Reason: fmt.Sprintf("failed to spawn process: %v", err)}
	}

	info := &Info{
		Name:       name,
		Command:    command,
		PID:        cmd.Process.Pid,
		LogFile:    logFile,
		StartedAt:  startedAt,
		WorkingDir: workingDir,
		SessionID:  uuid.NewString(),
	}
	rec := &record{info: info, cmd: cmd, done: make(chan struct{}), file: file}
	log.Info().Str("name", name).Int("pid", info.PID).Str("session_id", info.SessionID).Str("log_file", logFile).Msg("background process started")

	if err := writeSidecar(s.logDir, info); err != nil {
		log.Warn().Str("name", name).Err(err).Msg("failed to persist background process record")
	}

	go func() {
		cmd.Wait()
		close(rec.done)
		log.Debug().Str("name", name).Int("pid", info.PID).Msg("background process exited")
	}()

	return info, rec, nil
}

// List returns info for every currently tracked process.
func (s *Supervisor) List() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Info, 0, len(s.records))
	for _, rec := range s.records {
		if rec.info == nil {
			continue // reservation placeholder mid-spawn
		}
		out = append(out, *rec.info)
	}
	return out
}

// Get returns the tracked info for name, if any.
func (s *Supervisor) Get(name string) (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	if !ok || rec.info == nil {
		return Info{}, false
	}
	return *rec.info, true
}

// IsRunning reports whether name's child is still alive, via a
// non-blocking check of its wait-completion channel. An error condition or
// an untracked name is reported as not running.
func (s *Supervisor) IsRunning(name string) bool {
	s.mu.Lock()
	rec, ok := s.records[name]
	s.mu.Unlock()
	if !ok || rec.cmd == nil {
		return false
	}
	select {
	case <-rec.done:
		return false
	default:
		return true
	}
}

// Remove drops name from tracking without killing its child. Callers
// manage a removed process's lifetime through ordinary shell tools
// (kill/pkill); this mirrors the supervisor's documented non-killing
// remove() contract.
func (s *Supervisor) Remove(name string) (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	if !ok || rec.info == nil {
		return Info{}, false
	}
	delete(s.records, name)
	removeSidecar(s.logDir, name)
	return *rec.info, true
}

// sidecarPath returns the path of name's persisted Info record under
// logDir.
func sidecarPath(logDir, name string) string {
	return filepath.Join(logDir, name+".json")
}

// writeSidecar persists info so a later, separate CLI invocation (which
// does not share this process's in-memory Supervisor) can still list or
// kill the background process by name.
func writeSidecar(logDir string, info *Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal process record: %w", err)
	}
	return os.WriteFile(sidecarPath(logDir, info.Name), data, filePerm)
}

func removeSidecar(logDir, name string) {
	os.Remove(sidecarPath(logDir, name))
}

const filePerm = 0o644

// ListPersisted reads every process record persisted under logDir by a
// prior `g3 bg start` invocation, regardless of whether this call's process
// is the one that spawned them.
func ListPersisted(logDir string) ([]Info, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory %s: %w", logDir, err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(logDir, e.Name()))
		if err != nil {
			continue
		}
		var info Info
		if err := json.Unmarshal(data, &info); err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// IsPIDRunning reports whether pid refers to a live process, via a
// zero-signal liveness probe.
func IsPIDRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// KillPersisted sends SIGTERM to the process name was last known to be
// running as (per its persisted sidecar record under logDir) and removes
// the sidecar. It does not wait for the process to exit.
func KillPersisted(logDir, name string) (Info, error) {
	path := sidecarPath(logDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("no persisted record for '%s': %w", name, err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("parse persisted record for '%s': %w", name, err)
	}

	proc, err := os.FindProcess(info.PID)
	if err == nil {
		proc.Signal(syscall.SIGTERM)
	}
	removeSidecar(logDir, name)
	return info, nil
}

// Cleanup kills every tracked child and drains the record map. It is safe
// to call more than once.
func (s *Supervisor) Cleanup() {
	s.mu.Lock()
	records := s.records
	s.records = make(map[string]*record)
	s.mu.Unlock()

	for _, rec := range records {
		if rec.cmd == nil || rec.cmd.Process == nil {
			continue
		}
		rec.cmd.Process.Kill()
		if rec.file != nil {
			rec.file.Close()
		}
	}
}
