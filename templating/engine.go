package templating

import (
	"fmt"

	"github.com/valyala/fasttemplate"
)

// Engine expands tags in strings and files against a set
// of variables. Unknown tags are left untouched.
type Engine struct {
	StartTag string
	EndTag   string
}

// tags returns the configured start/end tags, falling
// back to double-brace defaults.
func (en *Engine) tags() (string, string) {
	startTag := en.StartTag
	if startTag == "" {
		startTag = "{{"
	}

	endTag := en.EndTag
	if endTag == "" {
		endTag = "}}"
	}

	return startTag, endTag
}

// ExpandString substitutes vars into s.
func (en *Engine) ExpandString(s string, vars map[string]any) string {
	startTag, endTag := en.tags()

	return fasttemplate.ExecuteStringStd(s, startTag, endTag, vars)
}

// ExpandFile rewrites the sandboxed file name with its
// tags substituted. The file mode is preserved.
func (en *Engine) ExpandFile(
	sb *Sandbox,
	name string,
	vars map[string]any,
) error {
	const errCtx = "expanding file"

	content, err := sb.ReadFile(name)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	expanded := en.ExpandString(content, vars)
	if expanded == content {
		return nil
	}

	if err := sb.WriteFile(name, expanded); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
