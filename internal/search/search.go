// Package search runs a batch of syntax-aware, tree-sitter-backed queries
// across a file tree with bounded concurrency and per-query match caps.
package search

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	DefaultMaxConcurrency      = 4
	DefaultMaxMatchesPerSearch = 500
)

// Language identifies a supported tree-sitter grammar.
type Language string

const (
	LangRust       Language = "rust"
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
)

var languageExtensions = map[Language][]string{
	LangRust:       {".rs"},
	LangPython:     {".py"},
	LangJavaScript: {".js", ".jsx", ".mjs"},
	LangTypeScript: {".ts", ".tsx"},
}

// Spec is a single named search within a batch.
type Spec struct {
	Name         string
	Query        string // tree-sitter S-expression
	Language     Language
	Paths        []string // default: current directory
	ContextLines int
}

// Request is a batch of searches plus batch-wide concurrency/cap knobs.
type Request struct {
	ID                  string
	Searches            []Spec
	MaxConcurrency      int
	MaxMatchesPerSearch int
}

// Match is one query hit.
type Match struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based
	Text     string
	Captures map[string]string
	Context  string // present only when ContextLines > 0
}

// Result is the outcome of one named search. A non-empty Error means the
// search failed (unknown language, bad query, parse failure) without
// aborting the rest of the batch.
type Result struct {
	Name          string
	Matches       []Match
	MatchCount    int
	FilesSearched int
	Error         string
}

// Response is the full batch outcome.
type Response struct {
	Searches           []Result
	TotalMatches       int
	TotalFilesSearched int
}

// UnknownLanguageError and QueryError are the SearchQuery error kinds; a
// parse failure is recorded as a plain message naming the file. All are
// recorded per-search, never fatal to the batch.
type UnknownLanguageError struct{ Language Language }

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q", e.Language)
}

type QueryError struct {
	Name   string
	Reason string
}

func (e *QueryError) Error() string { return fmt.Sprintf("invalid query for %q: %s", e.Name, e.Reason) }

// Engine executes Requests against a set of compiled grammars.
type Engine struct {
	grammars map[Language]Grammar
}

// Grammar abstracts one compiled tree-sitter language plus the ability to
// parse source and run a compiled query over the resulting tree. It is an
// interface so tests can supply a fake grammar without linking the real
// cgo-backed tree-sitter grammars.
type Grammar interface {
	// Parse parses source and returns an opaque tree handle.
	Parse(source []byte) (Tree, error)
	// Compile compiles a tree-sitter S-expression query against this
	// grammar.
	Compile(query string) (Query, error)
}

// Tree is an opaque parsed syntax tree.
type Tree interface {
	// Execute runs query against the tree's root node and returns matches
	// in ascending (line, column) order.
	Execute(query Query, source []byte) ([]Match, error)
	Close()
}

// Query is an opaque compiled tree-sitter query.
type Query interface {
	Close()
}

// NewEngine returns an Engine wired with grammars (e.g. the four real
// tree-sitter grammar adapters in internal/search/grammar).
func NewEngine(grammars map[Language]Grammar) *Engine {
	return &Engine{grammars: grammars}
}

// Run executes request, applying request defaults where zero, and returns
// once every search has either completed, errored, or hit its match cap.
func (e *Engine) Run(ctx context.Context, request Request) Response {
	maxConcurrency := request.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	maxMatches := request.MaxMatchesPerSearch
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatchesPerSearch
	}

	results := make([]Result, len(request.Searches))
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i, spec := range request.Searches {
		wg.Add(1)
		go func(i int, spec Spec) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = e.runOne(ctx, spec, maxMatches)
		}(i, spec)
	}
	wg.Wait()

	resp := Response{Searches: results}
	for _, r := range results {
		resp.TotalMatches += r.MatchCount
		resp.TotalFilesSearched += r.FilesSearched
	}
	return resp
}

func (e *Engine) runOne(ctx context.Context, spec Spec, maxMatches int) Result {
	result := Result{Name: spec.Name}

	grammar, ok := e.grammars[spec.Language]
	if !ok {
		result.Error = (&UnknownLanguageError{Language: spec.Language}).Error()
		return result
	}

	query, err := grammar.Compile(spec.Query)
	if err != nil {
		result.Error = (&QueryError{Name: spec.Name, Reason: err.Error()}).Error()
		return result
	}
	defer query.Close()

	paths := spec.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectFiles(paths, spec.Language)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	sort.Strings(files)

	var matches []Match
	for _, file := range files {
		select {
		case <-ctx.Done():
			result.Error = ctx.Err().Error()
			return result
		default:
		}

		source, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		tree, err := grammar.Parse(source)
		if err != nil {
			result.Error = fmt.Sprintf("parse %s: %v", file, err)
			return result
		}
		fileMatches, err := tree.Execute(query, source)
		tree.Close()
		if err != nil {
			continue
		}
		result.FilesSearched++

		for _, m := range fileMatches {
			m.File = file
			if spec.ContextLines > 0 {
				m.Context = surroundingContext(source, m.Line, spec.ContextLines)
			}
			matches = append(matches, m)
			if len(matches) >= maxMatches {
				break
			}
		}
		if len(matches) >= maxMatches {
			break
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		if matches[i].Line != matches[j].Line {
			return matches[i].Line < matches[j].Line
		}
		return matches[i].Column < matches[j].Column
	})

	result.Matches = matches
	result.MatchCount = len(matches)
	return result
}

func collectFiles(paths []string, lang Language) ([]string, error) {
	exts := languageExtensions[lang]
	var files []string
	for _, root := range paths {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // best-effort walk; skip unreadable entries
			}
			if info.IsDir() {
				return nil
			}
			for _, ext := range exts {
				if strings.HasSuffix(path, ext) {
					files = append(files, path)
					return nil
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return files, nil
}

func surroundingContext(source []byte, line, contextLines int) string {
	scanner := bufio.NewScanner(strings.NewReader(string(source)))
	var all []string
	for scanner.Scan() {
		all = append(all, scanner.Text())
	}
	lo := line - 1 - contextLines
	if lo < 0 {
		lo = 0
	}
	hi := line - 1 + contextLines
	if hi >= len(all) {
		hi = len(all) - 1
	}
	if lo > hi || lo >= len(all) {
		return ""
	}
	return strings.Join(all[lo:hi+1], "\n")
}

// NewRequestID returns a fresh identifier for Request.ID, independent of any
// one search's name. Engine.Run does not read the ID.
func NewRequestID() string { return uuid.NewString() }
