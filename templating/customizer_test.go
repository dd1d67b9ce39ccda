package templating_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/git-extra/templating"
)

type recordingGit struct {
	added []string
}

func (g *recordingGit) ForceAdd(_ context.Context, path string) error {
	g.added = append(g.added, path)

	return nil
}

type recordingLog struct {
	lines []string
}

func (l *recordingLog) Info(args ...any) {
	l.lines = append(l.lines, fmt.Sprint(args...))
}

func answers(values map[string]string) templating.Prompter {
	return templating.PrompterFunc(
		func(_ context.Context, p templating.Prompt) (string, error) {
			if v, ok := values[p.Name]; ok {
				return v, nil
			}

			return p.Initial, nil
		},
	)
}

func TestCustomizer_Run(t *testing.T) {
	t.Parallel()

	sb := newSandbox(t)
	root := sb.Root()

	writeTemp(t, root, "README.md", "# [[name.pascal]]\n[[description]]\n{{keep}}\n")
	writeTemp(t, root, "go.mod", "module [[module]]\n")
	writeTemp(t, root, "cmd/template/main.go", "package main\n")
	writeTemp(t, root, ".env", "SECRET=1\n")

	m, err := templating.ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	git := &recordingGit{}
	log := &recordingLog{}

	c := templating.Customizer{
		Sandbox:     sb,
		Git:         git,
		Prompter:    answers(map[string]string{"description": "Does things"}),
		Log:         log,
		ProjectName: "my-tool",
		UserName:    "alice",
	}

	require.NoError(t, c.Run(context.Background(), m))

	readme, err := os.ReadFile(filepath.Join(root, "README.md")) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "# MyTool\nDoes things\n{{keep}}\n", string(readme))

	gomod, err := os.ReadFile(filepath.Join(root, "go.mod")) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "module github.com/alice/my-tool\n", string(gomod))

	assert.FileExists(t, filepath.Join(root, "cmd", "my-tool", "main.go"))
	assert.NoDirExists(t, filepath.Join(root, "cmd", "template"))

	version, err := os.ReadFile(filepath.Join(root, "VERSION")) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", string(version))

	assert.Equal(t, []string{filepath.Join(root, ".env")}, git.added)
	assert.Equal(t, []string{"Customized my-tool"}, log.lines)
}

func TestCustomizer_Vars(t *testing.T) {
	t.Parallel()

	c := templating.Customizer{ProjectName: "my-tool", UserName: "bob"}

	vars := c.Vars()

	assert.Equal(t, "my-tool", vars["projectName"])
	assert.Equal(t, "bob", vars["userName"])
	assert.Equal(t, "MyTool", vars["name.pascal"])
	assert.Equal(t, "myTool", vars["name.camel"])
	assert.Equal(t, "my-tool", vars["name.kebab"])
	assert.Equal(t, "my_tool", vars["name.snake"])
}

func TestCustomizer_Run_stops_on_escape(t *testing.T) {
	t.Parallel()

	sb := newSandbox(t)

	m, err := templating.ParseManifest([]byte(
		"steps:\n  - remove: ../victim\n  - mkdir: never\n",
	))
	require.NoError(t, err)

	c := templating.Customizer{Sandbox: sb}

	err = c.Run(context.Background(), m)

	assert.ErrorIs(t, err, templating.ErrOutsideSandbox)
	assert.ErrorContains(t, err, "step 0")
	assert.NoDirExists(t, filepath.Join(sb.Root(), "never"))
}

func TestCustomizer_Run_substitute_no_match(t *testing.T) {
	t.Parallel()

	sb := newSandbox(t)

	m, err := templating.ParseManifest([]byte(
		"steps:\n  - substitute: [\"*.txt\"]\n",
	))
	require.NoError(t, err)

	c := templating.Customizer{Sandbox: sb}

	err = c.Run(context.Background(), m)

	assert.ErrorIs(t, err, templating.ErrNoMatch)
}
