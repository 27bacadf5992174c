// Package venv provisions the isolated Python runtime environment the
// forecasting application and its dependencies are installed into.
package venv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Runner executes a subprocess given as an explicit argument list. No shell
// is involved at any point.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, forwarding output to the parent
// process streams.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Descriptor holds the platform-dependent internal layout of a virtual
// environment, resolved once at the start of provisioning.
type Descriptor struct {
	Root     string
	Python   string // interpreter inside the environment
	Activate string // activation script path
	Windows  bool
}

// NewDescriptor resolves the layout for the current operating system.
func NewDescriptor(root string) Descriptor {
	return DescriptorFor(root, runtime.GOOS)
}

// DescriptorFor resolves the layout for an explicit GOOS value.
func DescriptorFor(root, goos string) Descriptor {
	if goos == "windows" {
		return Descriptor{
			Root:     root,
			Python:   filepath.Join(root, "Scripts", "python.exe"),
			Activate: filepath.Join(root, "Scripts", "activate"),
			Windows:  true,
		}
	}
	return Descriptor{
		Root:     root,
		Python:   filepath.Join(root, "bin", "python"),
		Activate: filepath.Join(root, "bin", "activate"),
	}
}

// Exists reports whether the environment root is already on disk.
func (d Descriptor) Exists() bool {
	info, err := os.Stat(d.Root)
	return err == nil && info.IsDir()
}

// ActivationHint returns the command a user runs to activate the environment.
func (d Descriptor) ActivationHint() string {
	if d.Windows {
		return d.Activate
	}
	return "source " + d.Activate
}

// Provisioner creates the environment and installs the dependency manifest
// into it.
type Provisioner struct {
	python string // system interpreter used to create the environment
	desc   Descriptor
	runner Runner
	logger *slog.Logger
}

// NewProvisioner creates a Provisioner that builds the environment described
// by desc using the given system interpreter.
func NewProvisioner(python string, desc Descriptor, runner Runner, logger *slog.Logger) *Provisioner {
	return &Provisioner{python: python, desc: desc, runner: runner, logger: logger}
}

// Descriptor returns the resolved environment layout.
func (p *Provisioner) Descriptor() Descriptor {
	return p.desc
}

// Provision creates the virtual environment. An existing environment is left
// untouched. When the interpreter's venv module is unavailable, virtualenv is
// installed and used instead.
func (p *Provisioner) Provision(ctx context.Context) error {
	if p.desc.Exists() {
		p.logger.Info("virtual environment already exists", "path", p.desc.Root)
		return nil
	}

	if err := p.runner.Run(ctx, p.python, "-m", "venv", "-h"); err != nil {
		p.logger.Warn("venv module unavailable, falling back to virtualenv", "error", err)
		return p.provisionWithVirtualenv(ctx)
	}

	p.logger.Info("creating virtual environment", "path", p.desc.Root)
	if err := p.runner.Run(ctx, p.python, "-m", "venv", p.desc.Root); err != nil {
		return fmt.Errorf("create virtual environment: %w", err)
	}
	p.logger.Info("virtual environment created", "path", p.desc.Root)
	return nil
}

func (p *Provisioner) provisionWithVirtualenv(ctx context.Context) error {
	if err := p.runner.Run(ctx, p.python, "-m", "pip", "install", "virtualenv"); err != nil {
		return fmt.Errorf("install virtualenv: %w", err)
	}
	p.logger.Info("creating virtual environment with virtualenv", "path", p.desc.Root)
	if err := p.runner.Run(ctx, p.python, "-m", "virtualenv", p.desc.Root); err != nil {
		return fmt.Errorf("create virtual environment: %w", err)
	}
	p.logger.Info("virtual environment created", "path", p.desc.Root)
	return nil
}

// InstallRequirements installs the dependency manifest using the
// environment's own interpreter, so packages land inside the environment
// regardless of platform.
func (p *Provisioner) InstallRequirements(ctx context.Context, manifest string) error {
	p.logger.Info("installing dependencies", "manifest", manifest)
	if err := p.runner.Run(ctx, p.desc.Python, "-m", "pip", "install", "-r", manifest); err != nil {
		return fmt.Errorf("install dependencies: %w", err)
	}
	p.logger.Info("dependencies installed", "manifest", manifest)
	p.logger.Info("activate the environment with", "command", p.desc.ActivationHint())
	return nil
}
