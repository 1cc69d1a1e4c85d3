package diffapply

import (
	"strings"
)

// fileCommands are argv[0]s that conventionally take file-path arguments and
// so benefit from having space-containing paths quoted.
var fileCommands = map[string]bool{
	"cat": true, "ls": true, "cp": true, "mv": true, "rm": true,
	"chmod": true, "chown": true, "file": true, "head": true,
	"tail": true, "wc": true, "grep": true,
}

// EscapeShellCommand rewrites commands in fileCommands that contain no quote
// characters: the command is split into words at every space and rejoined
// with single spaces. A word is wrapped in double quotes only when it looks
// like a path (contains '/' or starts with '~') and itself contains a
// space; since an unquoted command is split at every space, no word ever
// does, so in practice runs of spaces are collapsed and no argument is
// quoted. Commands already containing quote characters, or not in
// fileCommands, are returned unchanged.
func EscapeShellCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return command
	}
	if !fileCommands[fields[0]] {
		return command
	}
	if strings.ContainsAny(command, `"'`) {
		return command
	}

	words := splitRespectingQuotes(command)
	var b strings.Builder
	for i, word := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		if looksLikePath(word) && strings.Contains(word, " ") &&
			!strings.HasPrefix(word, `"`) && !strings.HasPrefix(word, "'") {
			b.WriteByte('"')
			b.WriteString(word)
			b.WriteByte('"')
		} else {
			b.WriteString(word)
		}
	}
	return b.String()
}

func looksLikePath(word string) bool {
	return strings.Contains(word, "/") || strings.HasPrefix(word, "~")
}

func splitRespectingQuotes(command string) []string {
	var words []string
	var current strings.Builder
	inQuotes := false
	for _, ch := range command {
		switch {
		case ch == ' ' && !inQuotes:
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		case ch == '"':
			inQuotes = !inQuotes
			current.WriteRune(ch)
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// FixMixedQuotesInJSON rewrites single-quoted JSON string literals
// ('like this') into properly double-quoted ones, escaping any embedded
// double quote along the way. Backslash escape sequences are passed through
// untouched.
func FixMixedQuotesInJSON(jsonStr string) string {
	var result strings.Builder
	runes := []rune(jsonStr)
	inString := false
	delimiter := '"'

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"' && !inString:
			inString = true
			delimiter = '"'
			result.WriteRune(ch)
		case ch == '\'' && !inString:
			inString = true
			delimiter = '\''
			result.WriteRune('"')
		case inString && ch == delimiter:
			if delimiter == '\'' {
				result.WriteRune('"')
			} else {
				result.WriteRune(ch)
			}
			inString = false
		case ch == '"' && inString && delimiter == '\'':
			result.WriteString(`\"`)
		case ch == '\\' && inString:
			result.WriteRune(ch)
			if i+1 < len(runes) {
				i++
				result.WriteRune(runes[i])
			}
		default:
			result.WriteRune(ch)
		}
	}

	return result.String()
}
