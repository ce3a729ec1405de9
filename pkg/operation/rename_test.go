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

package operation_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rebrand/pkg/operation"
	"github.com/walteh/rebrand/pkg/probe"
	"github.com/walteh/rebrand/pkg/status"
	"github.com/walteh/rebrand/pkg/text"
	"github.com/walteh/rebrand/pkg/walk"
)

// 🧪 testEnv wires real collaborators around a temp directory
type testEnv struct {
	root    string
	console *bytes.Buffer
	opts    operation.Options
	ctx     context.Context
}

func createTestEnv(t *testing.T, replacement string, apply bool) *testEnv {
	t.Helper()

	root := t.TempDir()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	engine, err := text.NewEngine(text.DefaultGrammar(), replacement)
	require.NoError(t, err)

	walker, err := walk.New(root, nil)
	require.NoError(t, err)

	var console bytes.Buffer
	statusMgr := status.NewManager(&console, &logger)

	return &testEnv{
		root:    root,
		console: &console,
		ctx:     ctx,
		opts: operation.Options{
			Engine:    engine,
			Walker:    walker,
			StatusMgr: statusMgr,
			Probe:     probe.New(),
			Apply:     apply,
			Logger:    &logger,
		},
	}
}

func (e *testEnv) writeFile(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *testEnv) runRename(t *testing.T) {
	t.Helper()
	op, err := operation.NewRenameOperation(e.opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(e.ctx))
}

func TestRenameOperation_SkipsUnchangedNames(t *testing.T) {
	env := createTestEnv(t, "NewOS", true)
	path := env.writeFile(t, "plain.txt", "nothing to see")

	env.runRename(t)

	assert.FileExists(t, path)
	assert.Contains(t, env.console.String(), "skip")
}

func TestRenameOperation_PlanModeDoesNotTouchFilesystem(t *testing.T) {
	env := createTestEnv(t, "NewOS", false)
	path := env.writeFile(t, "Mac OS X Lion Notes.txt", "content")

	env.runRename(t)

	// The original is untouched and nothing new appeared.
	assert.FileExists(t, path)
	entries, err := os.ReadDir(env.root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Mac OS X Lion Notes.txt", entries[0].Name())

	out := env.console.String()
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "-> NewOS Notes.txt")
}

func TestRenameOperation_AppliesRename(t *testing.T) {
	env := createTestEnv(t, "NewOS", true)
	env.writeFile(t, "Mac OS X Lion Notes.txt", "content")

	env.runRename(t)

	assert.NoFileExists(t, filepath.Join(env.root, "Mac OS X Lion Notes.txt"))
	renamed := filepath.Join(env.root, "NewOS Notes.txt")
	assert.FileExists(t, renamed)

	content, err := os.ReadFile(renamed)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
	assert.Contains(t, env.console.String(), "rename")
}

func TestRenameOperation_CollisionSuffixes(t *testing.T) {
	env := createTestEnv(t, "NewOS", true)
	env.writeFile(t, "NewOS.txt", "occupied")
	env.writeFile(t, "OSX.txt", "first contender")

	env.runRename(t)

	assert.FileExists(t, filepath.Join(env.root, "NewOS.txt"))
	assert.FileExists(t, filepath.Join(env.root, "NewOS.txt_1"))
	assert.NoFileExists(t, filepath.Join(env.root, "OSX.txt"))

	content, err := os.ReadFile(filepath.Join(env.root, "NewOS.txt_1"))
	require.NoError(t, err)
	assert.Equal(t, "first contender", string(content))
}

func TestRenameOperation_CollisionSuffixIncrements(t *testing.T) {
	env := createTestEnv(t, "NewOS", true)
	env.writeFile(t, "NewOS.txt", "occupied")
	env.writeFile(t, "NewOS.txt_1", "also occupied")
	env.writeFile(t, "osx.txt", "third contender")

	env.runRename(t)

	assert.FileExists(t, filepath.Join(env.root, "NewOS.txt_2"))

	content, err := os.ReadFile(filepath.Join(env.root, "NewOS.txt_2"))
	require.NoError(t, err)
	assert.Equal(t, "third contender", string(content))
}

func TestRenameOperation_ChildrenRenamedBeforeParents(t *testing.T) {
	env := createTestEnv(t, "NewOS", true)
	env.writeFile(t, filepath.Join("a", "b", "Mac OS X", "Lion.txt"), "leaf")

	env.runRename(t)

	// The leaf was addressed by its original path while its ancestor still
	// had the old name; afterwards both carry the new name.
	renamedLeaf := filepath.Join(env.root, "a", "b", "NewOS", "NewOS.txt")
	assert.FileExists(t, renamedLeaf)
	assert.NoFileExists(t, filepath.Join(env.root, "a", "b", "Mac OS X"))

	content, err := os.ReadFile(renamedLeaf)
	require.NoError(t, err)
	assert.Equal(t, "leaf", string(content))
}

func TestRenameOperation_RenamesDirectories(t *testing.T) {
	env := createTestEnv(t, "NewOS", true)
	dir := filepath.Join(env.root, "Snow Leopard Backups")
	require.NoError(t, os.MkdirAll(dir, 0755))

	env.runRename(t)

	assert.NoDirExists(t, dir)
	assert.DirExists(t, filepath.Join(env.root, "NewOS Backups"))
}

func TestNewRenameOperation_Validation(t *testing.T) {
	env := createTestEnv(t, "NewOS", false)

	tests := []struct {
		name   string
		mutate func(*operation.Options)
	}{
		{"missing_engine", func(o *operation.Options) { o.Engine = nil }},
		{"missing_walker", func(o *operation.Options) { o.Walker = nil }},
		{"missing_status_manager", func(o *operation.Options) { o.StatusMgr = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := env.opts
			tt.mutate(&opts)
			_, err := operation.NewRenameOperation(opts)
			require.Error(t, err)
		})
	}
}
