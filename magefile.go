//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary     = "bin/rundiff"
	versionPkg = "github.com/dkoosis/rundiff/internal/version"
)

// Default target - build the binary
var Default = Build

// Build builds the rundiff binary with version metadata stamped in.
func Build() error {
	ver, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		ver = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "unknown"
	}
	ldflags := strings.Join([]string{
		"-s", "-w",
		fmt.Sprintf("-X %s.Version=%s", versionPkg, ver),
		fmt.Sprintf("-X %s.CommitHash=%s", versionPkg, commit),
		fmt.Sprintf("-X %s.BuildDate=%s", versionPkg, time.Now().UTC().Format(time.RFC3339)),
	}, " ")
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binary, "./cmd/rundiff")
}

// Clean removes build artifacts
func Clean() error {
	for _, p := range []string{"bin", "coverage.out", "coverage.xml"} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return nil
}

// QA runs all quality assurance checks
func QA() {
	mg.SerialDeps(Lint.All, Test.Race)
}

type Lint mg.Namespace

// All runs every linter.
func (Lint) All() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Staticcheck, Lint.Golangci)
}

// Format checks gofmt cleanliness.
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Staticcheck runs staticcheck when installed.
func (Lint) Staticcheck() error {
	return optional("staticcheck", "honnef.co/go/tools/cmd/staticcheck@latest", "./...")
}

// Golangci runs golangci-lint when installed.
func (Lint) Golangci() error {
	return optional("golangci-lint", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest", "run", "--timeout=5m", "./...")
}

type Test mg.Namespace

// All runs the test suite.
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the test suite with the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Coverage writes coverage.out and prints the per-function summary.
func (Test) Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// optional runs tool with args, warning instead of failing when it is not installed.
func optional(tool, install string, args ...string) error {
	if _, err := exec.LookPath(tool); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ %s not found (install: go install %s)\n", tool, install)
		return nil
	}
	err := sh.RunV(tool, args...)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s failed: %w", tool, err)
	}
	return err
}
