package templating

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/goccy/go-yaml"
)

const (
	// ManifestFile is the customization manifest looked up
	// at the root of a freshly cloned template.
	ManifestFile = "git-extra-customize.yaml"

	// LegacyScriptFile is the script based customization of
	// older templates. It is never executed.
	LegacyScriptFile = "git-extra-customize.js"
)

// ErrInvalidManifest is returned for manifests that decode
// but do not describe a runnable customization.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest describes how a template customizes the project
// created from it.
type Manifest struct {
	StartTag string   `yaml:"startTag"`
	EndTag   string   `yaml:"endTag"`
	Prompts  []Prompt `yaml:"prompts"`
	Vars     []Var    `yaml:"vars"`
	Steps    []Step   `yaml:"steps"`
}

// Prompt asks the user for the value of Name.
type Prompt struct {
	Name    string `yaml:"name"`
	Message string `yaml:"message"`
	Initial string `yaml:"initial"`
	Regex   string `yaml:"regex"`
	Error   string `yaml:"error"`
}

// Var defines Name as the expansion of Value.
type Var struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Step holds exactly one action.
type Step struct {
	// Substitute expands tags in the files matching these
	// patterns. See Sandbox.Glob for the syntax.
	Substitute []string       `yaml:"substitute"`
	Move       *MoveStep      `yaml:"move"`
	Remove     string         `yaml:"remove"`
	Mkdir      string         `yaml:"mkdir"`
	EnsureFile string         `yaml:"ensureFile"`
	WriteFile  *WriteFileStep `yaml:"writeFile"`
	ForceAdd   string         `yaml:"forceAdd"`
	Log        string         `yaml:"log"`
}

// MoveStep renames From to To.
type MoveStep struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// WriteFileStep replaces the content of Path.
type WriteFileStep struct {
	Path     string `yaml:"path"`
	Contents string `yaml:"contents"`
}

// ParseManifest decodes and validates a manifest. Unknown
// keys are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	const errCtx = "parsing manifest"

	var m Manifest

	if err := yaml.UnmarshalWithOptions(
		data, &m, yaml.Strict(),
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &m, nil
}

// LoadManifest reads ManifestFile from sb. A missing file
// yields an error matching fs.ErrNotExist.
func LoadManifest(sb *Sandbox) (*Manifest, error) {
	const errCtx = "loading manifest"

	content, err := sb.ReadFile(ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	m, err := ParseManifest([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return m, nil
}

func (m *Manifest) validate() error {
	for i, p := range m.Prompts {
		if p.Name == "" {
			return fmt.Errorf(
				"%w: prompt %d has no name", ErrInvalidManifest, i,
			)
		}

		if _, err := regexp.Compile(p.Regex); err != nil {
			return fmt.Errorf(
				"%w: prompt %s: %w", ErrInvalidManifest, p.Name, err,
			)
		}
	}

	for i, v := range m.Vars {
		if v.Name == "" {
			return fmt.Errorf(
				"%w: var %d has no name", ErrInvalidManifest, i,
			)
		}
	}

	for i, st := range m.Steps {
		if n := st.actions(); n != 1 {
			return fmt.Errorf(
				"%w: step %d has %d actions, want 1",
				ErrInvalidManifest, i, n,
			)
		}

		if st.Move != nil && (st.Move.From == "" || st.Move.To == "") {
			return fmt.Errorf(
				"%w: step %d: move needs from and to",
				ErrInvalidManifest, i,
			)
		}

		if st.WriteFile != nil && st.WriteFile.Path == "" {
			return fmt.Errorf(
				"%w: step %d: writeFile needs a path",
				ErrInvalidManifest, i,
			)
		}
	}

	return nil
}

func (st *Step) actions() int {
	n := 0

	for _, set := range []bool{
		len(st.Substitute) > 0,
		st.Move != nil,
		st.Remove != "",
		st.Mkdir != "",
		st.EnsureFile != "",
		st.WriteFile != nil,
		st.ForceAdd != "",
		st.Log != "",
	} {
		if set {
			n++
		}
	}

	return n
}
