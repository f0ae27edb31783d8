// Package platform holds the small amount of operating system glue the
// generator needs: existence checks, well known directories and spawning
// helper programs.
package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileExists reports whether path names a regular file. Directories do not
// count.
func FileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// DirExists reports whether path names a directory.
func DirExists(fs afero.Fs, path string) bool {
	ok, err := afero.DirExists(fs, path)
	return err == nil && ok
}

// TempPath returns the temporary directory with forward slashes and a
// trailing slash.
func TempPath() string {
	return slashDir(os.TempDir())
}

// HomePath returns the user's home directory with forward slashes and a
// trailing slash.
func HomePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return slashDir(home), nil
}

// ExpandPath resolves a leading "~" to the home directory and a leading
// "$TMPDIR" to the temporary directory. Other paths are returned as given.
func ExpandPath(p string) (string, error) {
	switch {
	case p == "~" || strings.HasPrefix(p, "~/"):
		home, err := HomePath()
		if err != nil {
			return "", err
		}
		return path.Join(home, strings.TrimPrefix(p, "~")), nil
	case p == "$TMPDIR" || strings.HasPrefix(p, "$TMPDIR/"):
		return path.Join(TempPath(), strings.TrimPrefix(p, "$TMPDIR")), nil
	}
	return p, nil
}

func slashDir(dir string) string {
	dir = filepath.ToSlash(dir)
	for strings.Contains(dir, "//") {
		dir = strings.ReplaceAll(dir, "//", "/")
	}
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir
}

// Result is the outcome of a spawned program.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Spawn runs name with args and waits for it. A non-zero exit is reported in
// Result and as an error; failing to start the program is an error with a
// Result of -1.
func Spawn(ctx context.Context, logger *zap.Logger, name string, args ...string) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Spawning process", zap.String("program", name), zap.Strings("args", args))
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, fmt.Errorf("%s exited with status %d: %w", name, res.ExitCode, err)
	default:
		res.ExitCode = -1
		return res, fmt.Errorf("failed to run %s: %w", name, err)
	}
	logger.Debug("Process finished", zap.String("program", name), zap.Int("exitCode", res.ExitCode))
	return res, nil
}

// SplitCommand splits a command line at whitespace into a program and its
// arguments. Quoting is not interpreted.
func SplitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
