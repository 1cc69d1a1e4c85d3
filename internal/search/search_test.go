package search

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeGrammar is a line-oriented stand-in for a real tree-sitter grammar:
// its "query" is a literal substring to find on each line, and a "match"
// is any line containing it. This lets the batch/concurrency/cap/ordering
// behavior of Engine be tested without linking the real cgo grammars.
type fakeGrammar struct{}

type fakeTree struct{ source []byte }
type fakeQuery struct{ needle string }

func (fakeGrammar) Parse(source []byte) (Tree, error) { return &fakeTree{source: source}, nil }
func (fakeGrammar) Compile(query string) (Query, error) {
	if query == "" {
		return nil, &QueryError{Reason: "empty query"}
	}
	return &fakeQuery{needle: query}, nil
}

func (q *fakeQuery) Close() {}

func (t *fakeTree) Close() {}

func (t *fakeTree) Execute(query Query, source []byte) ([]Match, error) {
	fq := query.(*fakeQuery)
	var matches []Match
	for i, line := range strings.Split(string(source), "\n") {
		col := strings.Index(line, fq.needle)
		if col < 0 {
			continue
		}
		matches = append(matches, Match{Line: i + 1, Column: col, Text: fq.needle})
	}
	return matches, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestEngineRunFindsMatchesDeterministically(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.rs", "fn main() {}\nfn helper() {}\n")
	writeFile(t, dir, "a.rs", "fn other() {}\n")

	engine := NewEngine(map[Language]Grammar{LangRust: fakeGrammar{}})
	resp := engine.Run(context.Background(), Request{
		Searches: []Spec{
			{Name: "functions", Query: "fn", Language: LangRust, Paths: []string{dir}},
		},
	})

	if len(resp.Searches) != 1 {
		t.Fatalf("expected 1 search result, got %d", len(resp.Searches))
	}
	result := resp.Searches[0]
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if result.MatchCount != 3 {
		t.Fatalf("expected 3 matches, got %d: %+v", result.MatchCount, result.Matches)
	}
	// files sorted: a.rs before b.rs
	if result.Matches[0].File != filepath.Join(dir, "a.rs") {
		t.Fatalf("expected first match in a.rs, got %s", result.Matches[0].File)
	}
}

func TestEngineUnknownLanguageDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rs", "fn main() {}\n")

	engine := NewEngine(map[Language]Grammar{LangRust: fakeGrammar{}})
	resp := engine.Run(context.Background(), Request{
		Searches: []Spec{
			{Name: "bad-lang", Query: "fn", Language: "cobol", Paths: []string{dir}},
			{Name: "good", Query: "fn", Language: LangRust, Paths: []string{dir}},
		},
	})

	if len(resp.Searches) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Searches))
	}
	if resp.Searches[0].Error == "" {
		t.Fatal("expected an error for the unknown-language search")
	}
	if resp.Searches[1].Error != "" || resp.Searches[1].MatchCount != 1 {
		t.Fatalf("expected the valid search to still succeed: %+v", resp.Searches[1])
	}
}

func TestEngineRespectsMatchCap(t *testing.T) {
	dir := t.TempDir()
	var lines strings.Builder
	for i := 0; i < 10; i++ {
		lines.WriteString("fn x() {}\n")
	}
	writeFile(t, dir, "many.rs", lines.String())

	engine := NewEngine(map[Language]Grammar{LangRust: fakeGrammar{}})
	resp := engine.Run(context.Background(), Request{
		Searches:            []Spec{{Name: "cap", Query: "fn", Language: LangRust, Paths: []string{dir}}},
		MaxMatchesPerSearch: 3,
	})

	if resp.Searches[0].MatchCount > 3 {
		t.Fatalf("expected at most 3 matches, got %d", resp.Searches[0].MatchCount)
	}
}
