package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sakif/pysnap/internal/apperror"
)

// BlockedModules may not be imported by submitted code.
var BlockedModules = map[string]bool{
	"os":              true,
	"subprocess":      true,
	"socket":          true,
	"shutil":          true,
	"psutil":          true,
	"multiprocessing": true,
}

// BlockedNames may not appear as bare names in submitted code.
var BlockedNames = []string{"__import__", "exec", "eval"}

var (
	importRe     = regexp.MustCompile(`^import\s+(.+)$`)
	fromImportRe = regexp.MustCompile(`^from\s+([A-Za-z_][\w.]*)\s+import\b`)
	// A blocked name counts only when it is not an attribute (obj.eval).
	blockedNameRe = regexp.MustCompile(`(?:^|[^.\w])(` + strings.Join(BlockedNames, "|") + `)\b`)
)

// CheckSafety is a static first line of defence, not a sandbox: it rejects
// imports of BlockedModules and any use of BlockedNames. String literals and
// comments are ignored.
func CheckSafety(code string) error {
	src := stripLiterals(code)

	for _, stmt := range statements(src) {
		for _, mod := range importedModules(stmt) {
			if BlockedModules[topLevel(mod)] {
				return apperror.ValidationFailed("code",
					fmt.Sprintf("safety check failed: import of module %s is not allowed", mod))
			}
		}
	}

	if m := blockedNameRe.FindStringSubmatch(src); m != nil {
		return apperror.ValidationFailed("code",
			fmt.Sprintf("safety check failed: use of %s is not allowed", m[1]))
	}
	return nil
}

// ScanImports returns the sorted, de-duplicated top-level module names the
// code imports. Relative imports (from . import x) are skipped.
func ScanImports(code string) []string {
	seen := map[string]bool{}
	for _, stmt := range statements(stripLiterals(code)) {
		for _, mod := range importedModules(stmt) {
			if top := topLevel(mod); top != "" {
				seen[top] = true
			}
		}
	}

	mods := make([]string, 0, len(seen))
	for m := range seen {
		mods = append(mods, m)
	}
	sort.Strings(mods)
	return mods
}

// importedModules returns the dotted module names one statement imports.
func importedModules(stmt string) []string {
	if m := fromImportRe.FindStringSubmatch(stmt); m != nil {
		return []string{m[1]}
	}
	m := importRe.FindStringSubmatch(stmt)
	if m == nil {
		return nil
	}
	var mods []string
	for _, part := range strings.Split(strings.Trim(m[1], "()"), ",") {
		fields := strings.Fields(part) // "a.b as c" → a.b
		if len(fields) > 0 {
			mods = append(mods, fields[0])
		}
	}
	return mods
}

func topLevel(mod string) string {
	mod, _, _ = strings.Cut(mod, ".")
	return mod
}

// statements splits source into logical statements: one per line, further
// split on ';', with backslash continuations joined and indentation removed.
// A compound header with its body on the same line ("if x: import os")
// yields the header and the body as separate statements.
func statements(src string) []string {
	src = strings.ReplaceAll(src, "\\\n", " ")
	var out []string
	for _, line := range strings.Split(src, "\n") {
		for _, stmt := range strings.Split(line, ";") {
			for stmt = strings.TrimSpace(stmt); stmt != ""; {
				header, body, ok := splitCompound(stmt)
				if !ok {
					out = append(out, stmt)
					break
				}
				out = append(out, header)
				stmt = strings.TrimSpace(body)
			}
		}
	}
	return out
}

var compoundRe = regexp.MustCompile(`^(?:if|elif|else|try|except|finally|for|while|with|def|class|async|match|case)\b`)

// splitCompound cuts a compound statement at the colon that ends its header.
// Literals are already blanked, so only brackets can hide a colon
// (slices, dict displays, annotations).
func splitCompound(stmt string) (header, body string, ok bool) {
	if !compoundRe.MatchString(stmt) {
		return "", "", false
	}
	depth := 0
	for i := 0; i < len(stmt); i++ {
		switch stmt[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 && !strings.HasPrefix(stmt[i:], ":=") {
				return stmt[:i+1], stmt[i+1:], true
			}
		}
	}
	return "", "", false
}

// stripLiterals blanks out comments and the contents of string literals
// (single, double and triple quoted), keeping line structure intact.
func stripLiterals(code string) string {
	var b strings.Builder
	b.Grow(len(code))

	for i := 0; i < len(code); {
		c := code[i]
		switch {
		case c == '#':
			for i < len(code) && code[i] != '\n' {
				i++
			}
		case c == '\'' || c == '"':
			quote := string(c)
			if strings.HasPrefix(code[i:], strings.Repeat(quote, 3)) {
				quote = strings.Repeat(quote, 3)
			}
			b.WriteString(`""`)
			i += len(quote)
			for i < len(code) {
				if code[i] == '\\' {
					i += 2
					continue
				}
				if strings.HasPrefix(code[i:], quote) {
					i += len(quote)
					break
				}
				if code[i] == '\n' {
					if len(quote) == 1 {
						break // unterminated single-line string
					}
					b.WriteByte('\n')
				}
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
