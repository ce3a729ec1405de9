// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Kind classifies what happened to a processed entry.
type Kind int

const (
	KindSkip       Kind = iota // name unchanged, nothing to do
	KindPlan                   // dry-run: reports what apply would do
	KindRename                 // entry renamed
	KindRewrite                // file content rewritten
	KindSkipBinary             // file skipped by the text probe
)

// String returns the tag printed for this kind.
func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindPlan:
		return "plan"
	case KindRename:
		return "rename"
	case KindRewrite:
		return "rewrite"
	case KindSkipBinary:
		return "skip(bin)"
	default:
		return "unknown"
	}
}

// kinds in reporting order for the completion summary.
var kinds = []Kind{KindSkip, KindPlan, KindRename, KindRewrite, KindSkipBinary}

// 💾 FileManager handles the file system operations a run performs.
type FileManager interface {
	Exists(ctx context.Context, path string) (bool, error)
	Rename(ctx context.Context, oldPath, newPath string) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error
	BackupFile(ctx context.Context, path string, content []byte) error
}

// 📈 Reporter prints the user-facing run output and tracks per-kind counts.
type Reporter interface {
	Banner(ctx context.Context, root, replacement string, apply, contents bool, excludes int)
	Entry(ctx context.Context, kind Kind, path, detail string)
	Done(ctx context.Context)
}

// 🔧 Manager implements both FileManager and Reporter.
type Manager struct {
	console   io.Writer
	logger    *zerolog.Logger
	formatter EntryFormatter

	mu     sync.Mutex
	counts map[Kind]int
}

// 🏭 NewManager creates a new status manager writing user output to console.
func NewManager(console io.Writer, logger *zerolog.Logger) *Manager {
	return &Manager{
		console:   console,
		logger:    logger,
		formatter: NewDefaultEntryFormatter(),
		counts:    make(map[Kind]int),
	}
}

// Reporter implementation

func (m *Manager) Banner(ctx context.Context, root, replacement string, apply, contents bool, excludes int) {
	mode := "plan (dry-run)"
	if apply {
		mode = "apply"
	}
	contentsState := "off"
	if contents {
		contentsState = "on"
	}

	printer := pterm.Info.WithWriter(m.console).WithPrefix(pterm.Prefix{Text: "▶", Style: pterm.Info.Prefix.Style})
	printer.Println(fmt.Sprintf("rebrand: root=%s mode=%s target=%q contents=%s excludes=%d",
		root, mode, replacement, contentsState, excludes))

	m.logger.Info().
		Str("root", root).
		Str("mode", mode).
		Str("replacement", replacement).
		Bool("contents", contents).
		Int("excludes", excludes).
		Msg("starting run")
}

func (m *Manager) Entry(ctx context.Context, kind Kind, path, detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[kind]++
	fmt.Fprintln(m.console, m.formatter.FormatEntry(kind, path, detail))

	m.logger.Debug().
		Str("kind", kind.String()).
		Str("path", path).
		Str("detail", detail).
		Msg("processed entry")
}

func (m *Manager) Done(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := ""
	for _, k := range kinds {
		if summary != "" {
			summary += " "
		}
		summary += fmt.Sprintf("%s=%d", k, m.counts[k])
	}

	printer := pterm.Success.WithWriter(m.console).WithPrefix(pterm.Prefix{Text: "✔", Style: pterm.Success.Prefix.Style})
	printer.Println("done: " + summary)

	m.logger.Info().Str("summary", summary).Msg("run complete")
}

// Counts returns a copy of the per-kind entry counts.
func (m *Manager) Counts() map[Kind]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Kind]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// FileManager implementation

func (m *Manager) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking existence of %s: %w", path, err)
}

func (m *Manager) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return errors.Errorf("renaming %s: %w", oldPath, err)
	}
	return nil
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, mode); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// BackupFile writes the given pre-rewrite content to path.bak, replacing a
// stale backup from an earlier run.
func (m *Manager) BackupFile(ctx context.Context, path string, content []byte) error {
	backupPath := path + ".bak"

	info, err := os.Stat(path)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(backupPath, content, mode); err != nil {
		return errors.Errorf("creating backup %s: %w", filepath.Base(backupPath), err)
	}
	return nil
}
