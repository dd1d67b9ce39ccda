// Package templating customizes a project freshly created
// from a template.
//
// A template describes its customization in a YAML manifest
// (git-extra-customize.yaml) holding prompts, derived
// variables and an ordered list of steps. Every string in a
// step is expanded with valyala/fasttemplate before use, and
// all file operations go through a Sandbox that keeps them
// inside the project directory, symlinks included.
//
// A substitute step lists file patterns relative to the
// project root. They follow path.Match syntax plus "**" for
// any number of directories and "{a,b}" alternatives, so
// "**/*.go" reaches every Go file of the tree.
//
// The Engine type expands tags with configurable delimiters
// (default "{{" and "}}"); unknown tags are kept verbatim so
// that files using the same syntax for other tools survive.
package templating
