// Package diffapply parses unified diffs into hunks and applies them to an
// in-memory string within an optional character range.
package diffapply

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Hunk is a single unified-diff region reduced to the two strings it
// replaces: the text as it must appear before the change and the text it
// becomes after. Context lines appear verbatim in both.
type Hunk struct {
	Old string
	New string
}

// InvalidDiffError is returned when diff contains no parseable hunks.
type InvalidDiffError struct {
	Reason string
}

func (e *InvalidDiffError) Error() string {
	return fmt.Sprintf("invalid diff format: %s", e.Reason)
}

// RangeOutOfBoundsError is returned when start/end do not describe a valid
// sub-range of content.
type RangeOutOfBoundsError struct {
	Start, End, Len int
}

func (e *RangeOutOfBoundsError) Error() string {
	return fmt.Sprintf("range [%d,%d) out of bounds for content of length %d", e.Start, e.End, e.Len)
}

// PatternNotFoundError is returned when a hunk's Old text cannot be located
// in the remaining search region.
type PatternNotFoundError struct {
	HunkIndex int // 1-based, matching the original diagnostic numbering
	Preview   string
	RangeNote string
}

func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("pattern not found in file%s\nhunk %d failed. searched for:\n%s", e.RangeNote, e.HunkIndex, e.Preview)
}

// ParseHunks parses a unified diff into an ordered list of hunks. Header
// lines (diff/index/new file mode/deleted file mode/---/+++) are skipped.
// A "@@" line starts a new hunk, flushing any non-empty hunk in progress.
// Diffs lacking "@@" markers are still parsed: collection starts as soon as
// a context/+/- line is seen.
func ParseHunks(diff string) []Hunk {
	var hunks []Hunk
	var oldLines, newLines []string
	inHunk := false

	flush := func() {
		if inHunk && (len(oldLines) > 0 || len(newLines) > 0) {
			hunks = append(hunks, Hunk{
				Old: strings.Join(oldLines, "\n"),
				New: strings.Join(newLines, "\n"),
			})
			oldLines = nil
			newLines = nil
		}
	}

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "diff "),
			strings.HasPrefix(line, "index "),
			strings.HasPrefix(line, "new file mode"),
			strings.HasPrefix(line, "deleted file mode"),
			strings.HasPrefix(line, "--- "),
			strings.HasPrefix(line, "+++ "):
			continue
		case strings.HasPrefix(line, "@@"):
			flush()
			inHunk = true
			continue
		}

		if !inHunk {
			isContext := strings.HasPrefix(line, " ")
			isAdd := strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++")
			isDel := strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---")
			if isContext || isAdd || isDel {
				inHunk = true
			} else {
				continue
			}
		}

		switch {
		case strings.HasPrefix(line, " "):
			content := line[1:]
			oldLines = append(oldLines, content)
			newLines = append(newLines, content)
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			newLines = append(newLines, line[1:])
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			oldLines = append(oldLines, line[1:])
		case strings.HasPrefix(line, "\\"):
			// "\ No newline at end of file" — ignore.
		default:
			// Unknown line type — ignore.
		}
	}
	flush()

	// strings.Split on a diff ending in "\n" yields a trailing "" element that
	// strings.Lines would have dropped; an empty trailing line is never a
	// meaningful context/+/- line so it is already ignored by the switch above.
	return hunks
}

// Apply applies diff to content, optionally bounded to the character range
// [start, end). Offsets are byte offsets into content and are snapped
// forward to the next valid UTF-8 rune boundary, so a range falling inside
// a multi-byte codepoint never splits it.
func Apply(content, diff string, start, end *int) (string, error) {
	hunks := ParseHunks(diff)
	if len(hunks) == 0 {
		return "", &InvalidDiffError{Reason: "expected unified diff with @@ hunks or +/- with context lines"}
	}

	normalized := strings.ReplaceAll(strings.ReplaceAll(content, "\r\n", "\n"), "\r", "\n")
	length := len(normalized)

	searchStart := 0
	if start != nil {
		searchStart = *start
	}
	searchEnd := length
	if end != nil {
		searchEnd = *end
	}

	if searchStart > length || searchEnd > length || searchStart > searchEnd {
		return "", &RangeOutOfBoundsError{Start: searchStart, End: searchEnd, Len: length}
	}

	startBoundary := snapForward(normalized, searchStart)
	endBoundary := snapForward(normalized, searchEnd)

	region := normalized[startBoundary:endBoundary]

	rangeNote := ""
	if start != nil || end != nil {
		rangeNote = fmt.Sprintf(" (within character range %d:%d)", startBoundary, endBoundary)
	}

	for i, hunk := range hunks {
		pos := strings.Index(region, hunk.Old)
		if pos < 0 {
			return "", &PatternNotFoundError{
				HunkIndex: i + 1,
				Preview:   preview(hunk.Old),
				RangeNote: rangeNote,
			}
		}
		region = region[:pos] + hunk.New + region[pos+len(hunk.Old):]
	}

	var b strings.Builder
	b.Grow(len(normalized) + len(region))
	b.WriteString(normalized[:startBoundary])
	b.WriteString(region)
	b.WriteString(normalized[endBoundary:])
	return b.String(), nil
}

// snapForward returns the smallest index >= i that is a valid rune boundary
// in s (or len(s) if i exceeds it).
func snapForward(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

const previewLimit = 200

func preview(old string) string {
	if len(old) <= previewLimit {
		return old
	}
	// Snap the cut point back to a rune boundary so we never split a
	// multi-byte character inside the preview.
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(old[cut]) {
		cut--
	}
	return old[:cut] + "..."
}
