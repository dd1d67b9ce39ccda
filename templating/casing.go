package templating

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// words splits s at separators and case changes:
// "myHTTPServer-v2" gives my, HTTP, Server, v2.
func words(s string) []string {
	var (
		out []string
		cur []rune
	)

	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = nil
		}
	}

	runes := []rune(s)

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()

			continue
		}

		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}

		cur = append(cur, r)
	}

	flush()

	return out
}

// PascalCase returns s as "MyProject".
func PascalCase(s string) string {
	var sb strings.Builder

	// A Caser is stateful; one per call.
	title := cases.Title(language.Und)

	for _, w := range words(s) {
		sb.WriteString(title.String(strings.ToLower(w)))
	}

	return sb.String()
}

// CamelCase returns s as "myProject".
func CamelCase(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}

	return strings.ToLower(ws[0]) + PascalCase(strings.Join(ws[1:], " "))
}

// KebabCase returns s as "my-project".
func KebabCase(s string) string {
	return strings.ToLower(strings.Join(words(s), "-"))
}

// SnakeCase returns s as "my_project".
func SnakeCase(s string) string {
	return strings.ToLower(strings.Join(words(s), "_"))
}

// caseVariants adds the pascal, camel, kebab and snake
// forms of value under prefix.
func caseVariants(vars map[string]any, prefix, value string) {
	vars[prefix+".pascal"] = PascalCase(value)
	vars[prefix+".camel"] = CamelCase(value)
	vars[prefix+".kebab"] = KebabCase(value)
	vars[prefix+".snake"] = SnakeCase(value)
}
