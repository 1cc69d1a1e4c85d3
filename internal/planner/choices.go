package planner

import "strings"

// RecoveryChoice is the user's answer when offered recovery of a prior run.
type RecoveryChoice int

const (
	RecoveryUnknown RecoveryChoice = iota
	RecoveryResume
	RecoveryMarkComplete
	RecoveryQuit
)

// ParseRecoveryChoice has no default: unrecognized or empty input returns
// ok=false and the caller must re-prompt.
func ParseRecoveryChoice(input string) (RecoveryChoice, bool) {
	switch normalize(input) {
	case "y", "yes":
		return RecoveryResume, true
	case "n", "no":
		return RecoveryMarkComplete, true
	case "q", "quit":
		return RecoveryQuit, true
	default:
		return RecoveryUnknown, false
	}
}

// ApprovalChoice is the user's answer when asked to approve requirements.
type ApprovalChoice int

const (
	ApprovalUnknown ApprovalChoice = iota
	ApprovalApprove
	ApprovalRefine
	ApprovalQuit
)

// ParseApprovalChoice has no default.
func ParseApprovalChoice(input string) (ApprovalChoice, bool) {
	switch normalize(input) {
	case "y", "yes":
		return ApprovalApprove, true
	case "n", "no":
		return ApprovalRefine, true
	case "q", "quit":
		return ApprovalQuit, true
	default:
		return ApprovalUnknown, false
	}
}

// CompletionChoice is the user's answer when asked whether implementation
// is complete.
type CompletionChoice int

const (
	CompletionUnknown CompletionChoice = iota
	CompletionComplete
	CompletionContinue
	CompletionQuit
)

// ParseCompletionChoice defaults empty input to CompletionComplete.
func ParseCompletionChoice(input string) (CompletionChoice, bool) {
	switch normalize(input) {
	case "y", "yes", "":
		return CompletionComplete, true
	case "n", "no":
		return CompletionContinue, true
	case "q", "quit":
		return CompletionQuit, true
	default:
		return CompletionUnknown, false
	}
}

// BranchConfirmChoice is the user's answer confirming the current branch.
type BranchConfirmChoice int

const (
	BranchConfirmUnknown BranchConfirmChoice = iota
	BranchConfirmConfirm
	BranchConfirmQuit
)

// ParseBranchConfirmChoice defaults empty input to BranchConfirmConfirm.
func ParseBranchConfirmChoice(input string) (BranchConfirmChoice, bool) {
	switch normalize(input) {
	case "y", "yes", "":
		return BranchConfirmConfirm, true
	case "n", "no", "q", "quit":
		return BranchConfirmQuit, true
	default:
		return BranchConfirmUnknown, false
	}
}

// DirtyFilesChoice is the user's answer when warned about dirty/untracked
// files at startup.
type DirtyFilesChoice int

const (
	DirtyFilesUnknown DirtyFilesChoice = iota
	DirtyFilesProceed
	DirtyFilesQuit
)

// ParseDirtyFilesChoice defaults empty input to DirtyFilesProceed.
func ParseDirtyFilesChoice(input string) (DirtyFilesChoice, bool) {
	switch normalize(input) {
	case "y", "yes", "":
		return DirtyFilesProceed, true
	case "n", "no", "q", "quit":
		return DirtyFilesQuit, true
	default:
		return DirtyFilesUnknown, false
	}
}

func normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
