package venv

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRunner records invocations and fails commands matching failOn.
type fakeRunner struct {
	calls  [][]string
	failOn string // substring of the joined command line
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	cmd := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.failOn != "" && strings.Contains(cmd, r.failOn) {
		return errors.New("exit status 1")
	}
	return nil
}

func (r *fakeRunner) joined() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}

func TestDescriptorFor_Posix(t *testing.T) {
	d := DescriptorFor("venv", "linux")
	assert.Equal(t, filepath.Join("venv", "bin", "python"), d.Python)
	assert.Equal(t, filepath.Join("venv", "bin", "activate"), d.Activate)
	assert.False(t, d.Windows)
	assert.Equal(t, "source "+d.Activate, d.ActivationHint())
}

func TestDescriptorFor_Windows(t *testing.T) {
	d := DescriptorFor("venv", "windows")
	assert.Equal(t, filepath.Join("venv", "Scripts", "python.exe"), d.Python)
	assert.Equal(t, filepath.Join("venv", "Scripts", "activate"), d.Activate)
	assert.True(t, d.Windows)
	assert.Equal(t, d.Activate, d.ActivationHint())
}

func TestProvision_CreatesWithVenvModule(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	runner := &fakeRunner{}
	p := NewProvisioner("python3", DescriptorFor(root, "linux"), runner, discardLogger())

	require.NoError(t, p.Provision(context.Background()))

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "python3 -m venv -h", runner.joined()[0])
	assert.Equal(t, "python3 -m venv "+root, runner.joined()[1])
}

func TestProvision_FallsBackToVirtualenv(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	runner := &fakeRunner{failOn: "-m venv -h"}
	p := NewProvisioner("python3", DescriptorFor(root, "linux"), runner, discardLogger())

	require.NoError(t, p.Provision(context.Background()))

	joined := runner.joined()
	require.Len(t, joined, 3)
	assert.Equal(t, "python3 -m pip install virtualenv", joined[1])
	assert.Equal(t, "python3 -m virtualenv "+root, joined[2])
}

func TestProvision_SkipsExistingEnvironment(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	require.NoError(t, os.MkdirAll(root, 0o755))

	runner := &fakeRunner{}
	p := NewProvisioner("python3", DescriptorFor(root, "linux"), runner, discardLogger())

	require.NoError(t, p.Provision(context.Background()))
	assert.Empty(t, runner.calls, "existing environment must not trigger any creation command")
}

func TestProvision_CreateFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	runner := &fakeRunner{failOn: "-m venv " + root}
	p := NewProvisioner("python3", DescriptorFor(root, "linux"), runner, discardLogger())

	err := p.Provision(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create virtual environment")
}

func TestInstallRequirements_UsesEnvironmentInterpreter(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	desc := DescriptorFor(root, "linux")
	runner := &fakeRunner{}
	p := NewProvisioner("python3", desc, runner, discardLogger())

	require.NoError(t, p.InstallRequirements(context.Background(), "requirements.txt"))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, desc.Python+" -m pip install -r requirements.txt", runner.joined()[0])
}

func TestInstallRequirements_Failure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	runner := &fakeRunner{failOn: "pip install -r"}
	p := NewProvisioner("python3", DescriptorFor(root, "linux"), runner, discardLogger())

	err := p.InstallRequirements(context.Background(), "requirements.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "install dependencies")
}
