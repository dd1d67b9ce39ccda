package templating_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-extra/templating"
)

const sampleManifest = `startTag: "[["
endTag: "]]"
prompts:
  - name: description
    message: Project description?
    initial: A new project
    regex: ^.+$
    error: Description cannot be empty
vars:
  - name: module
    value: github.com/[[userName]]/[[name.kebab]]
steps:
  - substitute: ["*.md", "go.mod"]
  - move:
      from: cmd/template
      to: cmd/[[name.kebab]]
  - writeFile:
      path: VERSION
      contents: "0.1.0"
  - forceAdd: .env
  - log: Customized [[projectName]]
`

func TestParseManifest(t *testing.T) {
	t.Parallel()

	m, err := templating.ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "[[", m.StartTag)
	assert.Equal(t, "]]", m.EndTag)
	require.Len(t, m.Prompts, 1)
	assert.Equal(t, "description", m.Prompts[0].Name)
	assert.Equal(t, "A new project", m.Prompts[0].Initial)
	require.Len(t, m.Vars, 1)
	assert.Equal(t, "module", m.Vars[0].Name)
	require.Len(t, m.Steps, 5)
	assert.Equal(t, []string{"*.md", "go.mod"}, m.Steps[0].Substitute)
	require.NotNil(t, m.Steps[1].Move)
	assert.Equal(t, "cmd/[[name.kebab]]", m.Steps[1].Move.To)
	require.NotNil(t, m.Steps[2].WriteFile)
	assert.Equal(t, "0.1.0", m.Steps[2].WriteFile.Contents)
	assert.Equal(t, ".env", m.Steps[3].ForceAdd)
	assert.Equal(t, "Customized [[projectName]]", m.Steps[4].Log)
}

func TestParseManifest_invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{
			name:    "unknown key",
			content: "stepz: []\n",
		},
		{
			name:    "two actions in one step",
			content: "steps:\n  - remove: a\n    mkdir: b\n",
			invalid: true,
		},
		{
			name:    "empty step",
			content: "steps:\n  - {}\n",
			invalid: true,
		},
		{
			name:    "prompt without name",
			content: "prompts:\n  - message: hi\n",
			invalid: true,
		},
		{
			name:    "bad regex",
			content: "prompts:\n  - name: x\n    regex: \"[\"\n",
			invalid: true,
		},
		{
			name:    "move without target",
			content: "steps:\n  - move:\n      from: a\n",
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := templating.ParseManifest([]byte(tt.content))

			assert.Nil(t, m)
			require.ErrorContains(t, err, "parsing manifest")

			if tt.invalid {
				assert.ErrorIs(t, err, templating.ErrInvalidManifest)
			}
		})
	}
}

func TestLoadManifest_missing(t *testing.T) {
	t.Parallel()

	sb := newSandbox(t)

	_, err := templating.LoadManifest(sb)

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	sb := newSandbox(t)
	writeTemp(t, sb.Root(), templating.ManifestFile, sampleManifest)

	m, err := templating.LoadManifest(sb)

	require.NoError(t, err)
	assert.Len(t, m.Steps, 5)
}
