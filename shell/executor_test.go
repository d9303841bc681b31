package shell

import (
	"bytes"
	"io"
	"log/slog"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/ushell/config"
	"github.com/drake/ushell/env"
	"github.com/drake/ushell/parser"
	"github.com/drake/ushell/terminal"
	"github.com/drake/ushell/vfs"
)

// fakeHost satisfies Host for executor tests without a real session.
type fakeHost struct {
	cwd    string
	lines  []string
	uptime time.Duration
	exited bool
}

func (h *fakeHost) Cwd() string { return h.cwd }

func (h *fakeHost) Chdir(p string) error {
	h.cwd = h.Resolve(p)
	return nil
}

func (h *fakeHost) Resolve(p string) string {
	if p == "" || p == "." {
		return h.cwd
	}
	if strings.HasPrefix(p, "/") {
		return p
	}
	return path.Join(h.cwd, p)
}

func (h *fakeHost) ReadLine() (string, error) {
	if len(h.lines) == 0 {
		return "", terminal.ErrEOF
	}
	line := h.lines[0]
	h.lines = h.lines[1:]
	return line, nil
}

func (h *fakeHost) Uptime() time.Duration { return h.uptime }
func (h *fakeHost) Exit()                 { h.exited = true }

type execFixture struct {
	exec *Executor
	fs   *vfs.Mem
	envs *env.Store
	hist *terminal.History
	host *fakeHost
	out  *bytes.Buffer
	term *bytes.Buffer
}

func newFixture(t *testing.T) *execFixture {
	t.Helper()
	return newFixtureFS(t, vfs.NewMem(0, 0, 0))
}

func newFixtureFS(t *testing.T, fs *vfs.Mem) *execFixture {
	t.Helper()
	lim := config.Embedded()
	envs := env.NewStore(lim.MaxVars, lim.MaxVarName, lim.MaxVarValue)
	hist := terminal.NewHistory(lim.HistorySize)
	cmds := NewRegistry()
	require.NoError(t, RegisterBuiltins(cmds))

	p := parser.New(envs, parser.Limits{
		MaxLine: lim.MaxLine,
		MaxArgs: lim.MaxArgs,
		MaxArg:  lim.MaxArg,
	})

	f := &execFixture{
		fs:   fs,
		envs: envs,
		hist: hist,
		host: &fakeHost{cwd: "/"},
		out:  &bytes.Buffer{},
		term: &bytes.Buffer{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.exec = NewExecutor(p, cmds, envs, hist, fs, f.host, f.out, f.term, log)
	return f
}

func (f *execFixture) read(t *testing.T, name string) string {
	t.Helper()
	fh, err := f.fs.Open(name, vfs.Read)
	require.NoError(t, err)
	defer fh.Close()
	data, err := io.ReadAll(fh)
	require.NoError(t, err)
	return string(data)
}

func TestExecuteEcho(t *testing.T) {
	f := newFixture(t)
	status, err := f.exec.Execute("echo hello world")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, "hello world\n", f.out.String())
}

func TestExecuteEmptyLineIsNoOp(t *testing.T) {
	f := newFixture(t)
	for _, line := range []string{"", "   ", "# only a comment"} {
		status, err := f.exec.Execute(line)
		require.NoError(t, err, "line %q", line)
		assert.Zero(t, status)
	}
	assert.Empty(t, f.out.String())
}

func TestExecuteNotFound(t *testing.T) {
	f := newFixture(t)
	status, err := f.exec.Execute("frobnicate")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 127, status)
}

func TestExecuteCaseSensitiveLookup(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("ECHO hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExecutePipelineUnsupported(t *testing.T) {
	f := newFixture(t)
	// Neither command being registered must not matter: the pipeline is
	// rejected before any lookup.
	_, err := f.exec.Execute("ls | grep x")
	var unsup *UnsupportedError
	require.ErrorAs(t, err, &unsup)
	assert.Equal(t, FeaturePipeline, unsup.Feature)
}

func TestExecuteBackgroundUnsupported(t *testing.T) {
	f := newFixture(t)
	for _, line := range []string{"sleep 5 &", "sleep 5&"} {
		_, err := f.exec.Execute(line)
		var unsup *UnsupportedError
		require.ErrorAs(t, err, &unsup, "line %q", line)
		assert.Equal(t, FeatureBackground, unsup.Feature)
	}
}

func TestExecuteStdinRedirectUnsupported(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("cat < in.txt")
	var unsup *UnsupportedError
	require.ErrorAs(t, err, &unsup)
	assert.Equal(t, FeatureStdinRedir, unsup.Feature)
}

func TestExecuteRedirectTruncate(t *testing.T) {
	f := newFixture(t)
	status, err := f.exec.Execute("echo hi > out.txt")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, "hi\n", f.read(t, "out.txt"))
	// Nothing leaked to the terminal stream.
	assert.Empty(t, f.out.String())

	// Truncate replaces previous content.
	_, err = f.exec.Execute("echo replaced > out.txt")
	require.NoError(t, err)
	assert.Equal(t, "replaced\n", f.read(t, "out.txt"))
}

func TestExecuteRedirectAppend(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("echo one > log.txt")
	require.NoError(t, err)
	_, err = f.exec.Execute("echo two >> log.txt")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", f.read(t, "log.txt"))
}

func TestExecuteRedirectOpenFailure(t *testing.T) {
	f := newFixtureFS(t, vfs.NewMem(1, 0, 0))
	_, err := f.exec.Execute("touch only.txt")
	require.NoError(t, err)

	// The file table is full: the redirection cannot open, and the
	// handler must not have run.
	f.out.Reset()
	status, err := f.exec.Execute("echo hi > second.txt")
	assert.ErrorIs(t, err, ErrRedirectionOpen)
	assert.Equal(t, 1, status)
	assert.Empty(t, f.out.String())
}

func TestExecuteRedirectedFailureStillWritesFile(t *testing.T) {
	f := newFixture(t)
	// jobs exits nonzero; its output still lands in the target and the
	// handle is closed on that path too.
	status, err := f.exec.Execute("jobs > jobs.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, status)
	assert.Contains(t, f.read(t, "jobs.txt"), "jobs: not available")
}

func TestExecuteVariableExpansion(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("set NAME=ESP32")
	require.NoError(t, err)

	status, err := f.exec.Execute("echo $NAME!")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, "ESP32!\n", f.out.String())

	f.out.Reset()
	_, err = f.exec.Execute("echo '$NAME'")
	require.NoError(t, err)
	assert.Equal(t, "$NAME\n", f.out.String())
}

func TestExecuteSetUnsetEnv(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("set A 1")
	require.NoError(t, err)
	_, err = f.exec.Execute("set B=2")
	require.NoError(t, err)

	f.out.Reset()
	status, err := f.exec.Execute("env")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, "A=1\nB=2\n", f.out.String())

	f.out.Reset()
	status, err = f.exec.Execute("unset A")
	require.NoError(t, err)
	assert.Zero(t, status)

	status, err = f.exec.Execute("unset A")
	require.NoError(t, err)
	assert.Equal(t, 1, status)
	assert.Contains(t, f.out.String(), "not found")
}

func TestExecuteCatReadsFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("echo file body > data.txt")
	require.NoError(t, err)

	status, err := f.exec.Execute("cat data.txt")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, "file body\n", f.out.String())
}

func TestExecuteCatWriteMode(t *testing.T) {
	f := newFixture(t)
	f.host.lines = []string{"first line", "second line", ""}

	status, err := f.exec.Execute("cat > notes.txt")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, "first line\nsecond line\n", f.read(t, "notes.txt"))
	assert.Contains(t, f.term.String(), "Enter text")
	assert.Contains(t, f.term.String(), "File saved.")
}

func TestExecuteCatWriteModeImmediateEOF(t *testing.T) {
	f := newFixture(t)
	// No pending lines: ReadLine reports EOF right away, which means
	// "finished", not an error.
	status, err := f.exec.Execute("cat > empty.txt")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, "", f.read(t, "empty.txt"))
}

func TestExecuteFileCommands(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("touch a.txt")
	require.NoError(t, err)

	f.out.Reset()
	status, err := f.exec.Execute("ls")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Contains(t, f.out.String(), "a.txt")

	f.out.Reset()
	status, err = f.exec.Execute("rm a.txt")
	require.NoError(t, err)
	assert.Zero(t, status)

	f.out.Reset()
	status, err = f.exec.Execute("rm a.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, status)
	assert.Contains(t, f.out.String(), "cannot remove")
}

func TestExecuteMkdirUnsupportedOnMem(t *testing.T) {
	f := newFixture(t)
	status, err := f.exec.Execute("mkdir sub")
	require.NoError(t, err)
	assert.Equal(t, 1, status)
	assert.Contains(t, f.out.String(), "does not support directories")
}

func TestExecuteFormat(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("touch doomed.txt")
	require.NoError(t, err)

	f.out.Reset()
	status, err := f.exec.Execute("format")
	require.NoError(t, err)
	assert.Equal(t, 1, status)
	assert.Contains(t, f.out.String(), "format --yes")
	assert.Equal(t, 1, f.fs.Stats().Files)

	f.out.Reset()
	status, err = f.exec.Execute("format --yes")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Equal(t, 0, f.fs.Stats().Files)
}

func TestExecuteHistoryListing(t *testing.T) {
	f := newFixture(t)
	f.hist.Add("echo one")
	f.hist.Add("echo two")

	status, err := f.exec.Execute("history")
	require.NoError(t, err)
	assert.Zero(t, status)
	// Oldest first, numbered from one.
	assert.Equal(t, "   1  echo one\n   2  echo two\n", f.out.String())
}

func TestExecuteExitRequestsShutdown(t *testing.T) {
	f := newFixture(t)
	status, err := f.exec.Execute("exit")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.True(t, f.host.exited)
}

func TestExecuteUptime(t *testing.T) {
	f := newFixture(t)
	f.host.uptime = 3*time.Hour + 25*time.Minute + 45*time.Second
	status, err := f.exec.Execute("uptime")
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.Contains(t, f.out.String(), "3:25:45")
}

func TestExecuteErrorsLeaveStateIntact(t *testing.T) {
	f := newFixture(t)
	_, err := f.exec.Execute("set KEEP=me")
	require.NoError(t, err)
	f.hist.Add("set KEEP=me")

	for _, line := range []string{
		`echo "unclosed`,
		"nosuchcmd",
		"ls | grep x",
		"echo hi >",
	} {
		_, err := f.exec.Execute(line)
		assert.Error(t, err, "line %q", line)
	}

	v, ok := f.envs.Get("KEEP")
	assert.True(t, ok)
	assert.Equal(t, "me", v)
	assert.Equal(t, 1, f.hist.Len())
}
