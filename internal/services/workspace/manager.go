// -----------------------------------------------------------------------
// Workspace Manager - per-request temporary directories with guaranteed cleanup
// -----------------------------------------------------------------------

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
	"github.com/ternarybob/lovedocu/internal/models"
)

// Manager hands out isolated workspace directories under a common root
type Manager struct {
	root   string
	logger arbor.ILogger
}

// NewManager creates the workspace root if needed. An empty root resolves to
// os.TempDir()/lovedocu.
func NewManager(root string, logger arbor.ILogger) (*Manager, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "lovedocu")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root %s: %w", root, err)
	}
	return &Manager{root: root, logger: logger}, nil
}

// Root returns the directory holding all workspaces
func (m *Manager) Root() string {
	return m.root
}

// Acquire creates a fresh workspace for one invocation of op.
// The caller must defer Release.
func (m *Manager) Acquire(op models.Operation) (*Workspace, error) {
	dir := filepath.Join(m.root, fmt.Sprintf("%s-%s", op, common.NewWorkspaceID()))
	if err := os.Mkdir(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	m.logger.Debug().
		Str("operation", string(op)).
		Str("dir", dir).
		Msg("Workspace acquired")

	return &Workspace{
		dir:    dir,
		op:     op,
		logger: m.logger,
	}, nil
}

// Sweep removes workspace directories last modified before now-maxAge.
// Live workspaces are released by their owners long before this; anything left
// behind belongs to a request that died mid-flight.
func (m *Manager) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0, fmt.Errorf("failed to read workspace root: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error

	for _, entry := range entries {
		if !entry.IsDir() || !isWorkspaceName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(m.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove stale workspace %s: %w", path, err))
			continue
		}
		removed++
	}

	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("Swept stale workspaces")
	}

	return removed, errors.Join(errs...)
}

// isWorkspaceName reports whether name looks like "<operation>-<id>"
func isWorkspaceName(name string) bool {
	op, _, ok := strings.Cut(name, "-")
	return ok && models.Operation(op).Valid()
}

// Workspace is one request's private directory. Every path handed out by Path
// is removed by Release.
type Workspace struct {
	dir    string
	op     models.Operation
	logger arbor.ILogger

	mu       sync.Mutex
	paths    []string
	released bool
}

// Dir returns the workspace directory
func (w *Workspace) Dir() string {
	return w.dir
}

// Path declares a temporary file inside the workspace and returns its path
func (w *Workspace) Path(name string) string {
	path := filepath.Join(w.dir, filepath.Base(name))

	w.mu.Lock()
	w.paths = append(w.paths, path)
	w.mu.Unlock()

	return path
}

// Paths returns the declared temporary paths in declaration order
func (w *Workspace) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.paths...)
}

// WriteFile declares name and writes data to it
func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	path := w.Path(name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

// Release deletes every declared path and the workspace directory. Deletion
// failures are logged as warnings and returned; they never change the outcome
// of the operation that owned the workspace. Release is safe to call twice.
func (w *Workspace) Release() []error {
	w.mu.Lock()
	if w.released {
		w.mu.Unlock()
		return nil
	}
	w.released = true
	paths := w.paths
	w.mu.Unlock()

	var warnings []error
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			warnings = append(warnings, fmt.Errorf("could not delete file %s: %w", filepath.Base(path), err))
		}
	}

	// Catches files a library created beside the declared ones
	if err := os.RemoveAll(w.dir); err != nil {
		warnings = append(warnings, fmt.Errorf("could not delete workspace %s: %w", w.dir, err))
	}

	for _, warning := range warnings {
		w.logger.Warn().
			Str("operation", string(w.op)).
			Err(warning).
			Msg("Workspace cleanup failed")
	}

	return warnings
}
