package vocab

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const consoleVocab = `# console commands
noclip   # toggle collision
teleport # move to coordinates

quit
bad entry here
god#invulnerable
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRegistryAddAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	assert.True(t, reg.Add(Command{Name: "noclip"}))
	assert.False(t, reg.Add(Command{Name: "noclip", Description: "toggle collision"}))
	assert.False(t, reg.Add(Command{Name: "noclip"}))
	assert.False(t, reg.Add(Command{}))
	assert.True(t, reg.Add(Command{Name: "god", Description: "invulnerable"}))

	cmd, ok := reg.Get("noclip")
	require.True(t, ok)
	assert.Equal(t, "toggle collision", cmd.Description)

	_, ok = reg.Get("nocli")
	assert.False(t, ok)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"god", "noclip"}, reg.Names())

	reg.Reset()
	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.Names())
}

func TestReadText(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	n, err := ReadText(strings.NewReader(consoleVocab), reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, []Command{
		{Name: "god", Description: "invulnerable"},
		{Name: "noclip", Description: "toggle collision"},
		{Name: "quit"},
		{Name: "teleport", Description: "move to coordinates"},
	}, reg.Commands())
}

func TestBinaryFormat(t *testing.T) {
	t.Parallel()

	src := NewRegistry()
	src.Add(Command{Name: "spawn", Description: "spawn an entity"})
	src.Add(Command{Name: "kick"})

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, src))
	// header + (2+5 + 2+15) + (2+4 + 2+0)
	assert.Equal(t, 4+24+8, buf.Len())

	dst := NewRegistry()
	n, err := ReadBinary(&buf, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, src.Commands(), dst.Commands())
}

func TestReadBinaryTruncated(t *testing.T) {
	t.Parallel()

	src := NewRegistry()
	src.Add(Command{Name: "teleport", Description: "move to coordinates"})

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, src))
	truncated := buf.Bytes()[:buf.Len()-3]

	n, err := ReadBinary(bytes.NewReader(truncated), NewRegistry())
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestDetectFileFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	text := writeFile(t, dir, "console.txt", consoleVocab)
	tiny := writeFile(t, dir, "tiny.bin", "ab")
	other := writeFile(t, dir, "console.json", "{}")

	bin := filepath.Join(dir, "console.bin")
	reg := NewRegistry()
	reg.Add(Command{Name: "quit"})
	require.NoError(t, SaveBinary(bin, reg))

	for uc, tc := range map[string]struct {
		path    string
		want    FileFormat
		wantErr bool
		unknown bool
	}{
		"text":             {path: text, want: FormatText},
		"binary":           {path: bin, want: FormatBinary},
		"binary too small": {path: tiny, wantErr: true},
		"other extension":  {path: other, wantErr: true, unknown: true},
		"missing file":     {path: filepath.Join(dir, "missing.txt"), wantErr: true},
	} {
		t.Run(uc, func(t *testing.T) {
			got, err := DetectFileFormat(tc.path)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Equal(t, FormatUnknown, got)
				assert.Equal(t, tc.unknown, errors.Is(err, ErrUnknownFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "quit # leave the game\n")
	writeFile(t, dir, "a.txt", "quit\nhelp\n")
	writeFile(t, dir, "notes.md", "ignored\n")

	reg := NewRegistry()
	n, err := LoadDir(dir, reg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []Command{
		{Name: "help"},
		{Name: "quit", Description: "leave the game"},
	}, reg.Commands())

	_, err = LoadDir(t.TempDir(), NewRegistry())
	assert.Error(t, err)
}

func TestSourceReloadKeepsPreviousOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "console.txt", "help\nquit\n")

	src := NewSource(path)
	n, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, path, src.Path())

	writeFile(t, dir, "console.txt", "help\nquit\nnoclip\n")
	n, err = src.Reload()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"help", "noclip", "quit"}, src.Names())

	require.NoError(t, os.Remove(path))
	_, err = src.Reload()
	assert.Error(t, err)
	assert.Equal(t, 3, src.Registry().Len())
}
