package migration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultToolPath is the migration tool binary baked into the runner image.
const DefaultToolPath = "diesel"

// commandRunner executes the external migration tool. The production
// implementation spawns a process; tests substitute a recorder.
type commandRunner interface {
	// CombinedOutput runs the tool and returns its combined stdout/stderr
	// and exit status. err is non-nil only when the process could not be
	// run at all; a tool that ran and exited non-zero is reported through
	// exitCode, not err.
	CombinedOutput(ctx context.Context, name string, args []string) (output []byte, exitCode int, err error)
}

// execCommandRunner runs the tool via os/exec.
type execCommandRunner struct{}

func (execCommandRunner) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, exitErr.ExitCode(), nil
		}
		return output, -1, fmt.Errorf("run %s: %w", name, err)
	}
	return output, 0, nil
}

// Runner is the isolated execution unit that applies schema migrations.
// It owns no persistent state: all migration state of record lives in the
// migration tool's tracking table inside the target database, which is
// what makes re-invocation after a cancelled deployment safe.
type Runner struct {
	// Secrets resolves the database credential record.
	Secrets SecretSource
	// AssetRoot is the directory holding one migration script directory
	// per version tag.
	AssetRoot string
	// ToolPath is the migration tool binary. Defaults to DefaultToolPath.
	ToolPath string

	cmd commandRunner
}

// NewRunner builds a Runner executing the real migration tool.
func NewRunner(secrets SecretSource, assetRoot string) *Runner {
	return &Runner{
		Secrets:   secrets,
		AssetRoot: assetRoot,
		ToolPath:  DefaultToolPath,
		cmd:       execCommandRunner{},
	}
}

// newRunnerWithCommand is the test seam for substituting the process spawn.
func newRunnerWithCommand(secrets SecretSource, assetRoot string, cmd commandRunner) *Runner {
	return &Runner{
		Secrets:   secrets,
		AssetRoot: assetRoot,
		ToolPath:  DefaultToolPath,
		cmd:       cmd,
	}
}

// Run resolves credentials, locates the version's migration scripts,
// invokes the migration tool once, and classifies the outcome. It never
// retries: a failed run returns Success=false (or an error for failures
// before the tool started) and retry policy stays with the caller.
func (r *Runner) Run(ctx context.Context, secretReference, versionTag string) (*Result, error) {
	secret, err := r.Secrets.ResolveDatabaseSecret(ctx, secretReference)
	if err != nil {
		return nil, err
	}
	locator := secret.Locator()

	dir, discovered, err := r.discoverAssets(versionTag)
	if err != nil {
		return nil, err
	}

	args := []string{
		"migration", "run",
		"--migration-dir", dir,
		"--database-url", locator,
	}
	output, exitCode, err := r.cmd.CombinedOutput(ctx, r.toolPath(), args)
	if err != nil {
		return nil, fmt.Errorf("invoke migration tool for version %q: %w", versionTag, err)
	}

	return classify(exitCode, output, discovered), nil
}

func (r *Runner) toolPath() string {
	if r.ToolPath != "" {
		return r.ToolPath
	}
	return DefaultToolPath
}

// discoverAssets locates <AssetRoot>/<versionTag> and counts the
// version-identified migration directories inside it. The count feeds
// Result.AppliedMigrationCount and deliberately reports what the image
// ships rather than what this invocation newly applied, matching the
// source system's reporting.
func (r *Runner) discoverAssets(versionTag string) (dir string, discovered int, err error) {
	dir = filepath.Join(r.AssetRoot, versionTag)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", 0, &AssetsMissingError{VersionTag: versionTag, Dir: dir}
		}
		return "", 0, fmt.Errorf("read migration assets %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			discovered++
		}
	}
	return dir, discovered, nil
}
