package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
version: v1
volume:
  id: HD
  entries:
    - {path: SYSTEM, dir: true}
    - {path: SYSTEM/PRODOS, size: 17128}
    - {path: NOTES, size: 12}
  volumes:
    - id: DOS.3.3
      entries:
        - {path: HELLO, size: 512}
    - id: PASCAL
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "disk.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

// run executes the CLI with a clean environment and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, stdin, args...)
	return out, err
}

// runWithStderr also returns what went to stderr.
func runWithStderr(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--log-mode", "quiet"}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTreeCommand(t *testing.T) {
	p := writeManifest(t, testManifest)

	out, err := run(t, "", "tree", p, "--expand=-1", "--no-style", "--show-targets")
	require.NoError(t, err)
	assert.Contains(t, out, "* HD  #0")
	assert.Contains(t, out, "SYSTEM/  #1")
	assert.Contains(t, out, "PRODOS  16.7 KB")
	assert.Contains(t, out, "PASCAL  #3")

	out, err = run(t, "", "tree", p, "--expand=0", "--no-style")
	require.NoError(t, err)
	assert.Equal(t, "* HD [+]\n", out)
}

func TestTreeCommandWithoutSubdirs(t *testing.T) {
	p := writeManifest(t, testManifest)

	out, err := run(t, "", "tree", p, "--subdirs=false", "--output", "json")
	require.NoError(t, err)

	var doc struct {
		Root struct {
			Children []struct {
				Label string `json:"label"`
			} `json:"children"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Root.Children, 2)
	assert.Equal(t, "DOS.3.3", doc.Root.Children[0].Label)
}

func TestTreeCommandReportsContiguity(t *testing.T) {
	p := writeManifest(t, `
volume:
  id: BAD
  entries:
    - {path: A, dir: true}
    - {path: B, dir: true}
    - {path: A/X}
`)
	_, err := run(t, "", "tree", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"A/X"`)
}

func TestTargetsCommand(t *testing.T) {
	p := writeManifest(t, testManifest)

	out, err := run(t, "", "targets", p, "--output", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "1,subdirectory,true,HD,SYSTEM,SYSTEM", lines[2])

	// the tree format doesn't apply, targets fall back to a table
	out, err = run(t, "", "targets", p)
	require.NoError(t, err)
	assert.Contains(t, out, "volume-root")
}

func TestChooseCommand(t *testing.T) {
	p := writeManifest(t, testManifest)

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"select and confirm", "2\n\n", "PASCAL\n"},
		{"activate", "1!\n", "DOS.3.3\n"},
		{"confirm needs a selection", "\n\n1\n\n", "DOS.3.3\n"},
		{"cancel", "q\n", ""},
		{"end of input", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.input, "choose", p)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestChoosePrompts(t *testing.T) {
	p := writeManifest(t, testManifest)

	_, prompts, err := runWithStderr(t, "2\n\n", "choose", p)
	require.NoError(t, err)
	assert.Contains(t, prompts, " 2) PASCAL")
}

func TestPromptOutput(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, io.Writer(&out), promptOutput(strings.NewReader(""), &out))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.Equal(t, io.Discard, promptOutput(r, &out))
}

func TestChooseNeedsTwoSubVolumes(t *testing.T) {
	p := writeManifest(t, "volume:\n  id: ONE\n  volumes:\n    - id: ONLY\n")
	_, err := run(t, "1!\n", "choose", p)
	assert.Error(t, err)
}

func TestOpenCommand(t *testing.T) {
	single := writeManifest(t, `
volume:
  id: WRAPPER
  volumes:
    - id: INNER
      entries:
        - {path: FILE}
`)
	out, err := run(t, "", "open", single, "--expand=-1", "--no-style")
	require.NoError(t, err)
	assert.Contains(t, out, "* INNER")
	assert.NotContains(t, out, "WRAPPER")

	multi := writeManifest(t, testManifest)
	out, err = run(t, "1!\n", "open", multi, "--expand=-1", "--no-style")
	require.NoError(t, err)
	assert.Contains(t, out, "HELLO")
	assert.NotContains(t, out, "PRODOS")
}

func TestPackAndReadBack(t *testing.T) {
	p := writeManifest(t, testManifest)
	outDir := t.TempDir()

	out, err := run(t, "", "pack", p, "-o", outDir, "--timestamp", "2024-01-01T00:00:00Z")
	require.NoError(t, err)
	archive := filepath.Join(outDir, "HD.tar.gz")
	assert.True(t, strings.HasPrefix(out, archive), out)
	require.FileExists(t, archive)

	out, err = run(t, "", "tree", archive, "--expand=-1", "--no-style")
	require.NoError(t, err)
	assert.Contains(t, out, "HELLO  512 B")

	out, err = run(t, "", "manifest", archive, "--format", "json")
	require.NoError(t, err)
	var m struct {
		Volume struct {
			ID      string        `json:"id"`
			Volumes []interface{} `json:"volumes"`
		} `json:"volume"`
		ContentHash string `json:"contentHash"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "HD", m.Volume.ID)
	assert.Len(t, m.Volume.Volumes, 2)
	assert.Len(t, m.ContentHash, 64)
}

func TestPackRejectsInvalidManifest(t *testing.T) {
	p := writeManifest(t, "version: v1\nvolume:\n  id: X\n  entries:\n    - {path: A, size: -4}\n")
	_, err := run(t, "", "pack", p, "-o", t.TempDir())
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version", "--output", "json")
	require.NoError(t, err)
	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "v1", info.ManifestVersion)
	assert.NotEmpty(t, info.GoVersion)
}

func TestInvalidSettings(t *testing.T) {
	p := writeManifest(t, testManifest)
	_, err := run(t, "", "tree", p, "--separator", "::")
	assert.Error(t, err)

	_, err = run(t, "", "tree", p, "--output", "xml")
	assert.Error(t, err)
}
