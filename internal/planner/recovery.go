package planner

import (
	"github.com/g3labs/g3/internal/planstore"
)

// Info describes a prior incomplete run discovered at startup.
type Info struct {
	HasCurrentRequirements bool
	RequirementsModified   string // formatted YYYY-MM-DD HH:MM:SS, empty if unavailable
	HasTodo                bool
	TodoContents           string
}

// DetectRecovery inspects store for a prior current_requirements.md or
// todo.g3.md. It returns (info, true) when recovery is needed, or
// (Info{}, false) when neither file is present.
func DetectRecovery(store *planstore.Store) (Info, bool) {
	hasReq := store.HasCurrentRequirements()
	hasTodo := store.HasTodo()

	if !hasReq && !hasTodo {
		return Info{}, false
	}

	info := Info{HasCurrentRequirements: hasReq, HasTodo: hasTodo}

	if hasReq {
		if mtime, err := store.ModTime(planstore.CurrentReqFile); err == nil {
			info.RequirementsModified = planstore.FormatTimestamp(mtime)
		}
	}
	if hasTodo {
		if contents, err := store.ReadTodo(); err == nil {
			info.TodoContents = contents
		}
	}

	return info, true
}
