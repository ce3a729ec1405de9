package operation_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rebrand/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// 🧪 stubOperation records whether it ran and can fail on demand
type stubOperation struct {
	name     string
	executed bool
	fail     bool
}

func (s *stubOperation) Name() string { return s.name }

func (s *stubOperation) Execute(ctx context.Context) error {
	s.executed = true
	if s.fail {
		return errors.Errorf("%s exploded", s.name)
	}
	return nil
}

func TestRunner_RunsOperationsInOrder(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	runner := operation.NewRunner(&logger)

	first := &stubOperation{name: "first"}
	second := &stubOperation{name: "second"}

	require.NoError(t, runner.Run(context.Background(), first, second))
	assert.True(t, first.executed)
	assert.True(t, second.executed)
}

func TestRunner_HaltsOnFirstFailure(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	runner := operation.NewRunner(&logger)

	first := &stubOperation{name: "first", fail: true}
	second := &stubOperation{name: "second"}

	err := runner.Run(context.Background(), first, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running first")
	assert.False(t, second.executed, "later operations must not run after a failure")
}

// The full two-pass scenario: rename, then rewrite over the renamed tree.
func TestRenameThenRewrite(t *testing.T) {
	replacement := "Samsoft OS X Beta 2.0 MARIO OS"
	env := createTestEnv(t, replacement, true)
	env.writeFile(t, "Mac OS X Lion Notes.txt", "Running OS X 10.7 was fun.")

	renameOp, err := operation.NewRenameOperation(env.opts)
	require.NoError(t, err)
	rewriteOp, err := operation.NewRewriteOperation(env.opts)
	require.NoError(t, err)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	runner := operation.NewRunner(&logger)
	require.NoError(t, runner.Run(env.ctx, renameOp, rewriteOp))

	renamed := filepath.Join(env.root, replacement+" Notes.txt")
	require.FileExists(t, renamed)

	content, err := os.ReadFile(renamed)
	require.NoError(t, err)
	assert.Equal(t, "Running Samsoft OS X Beta 2.0 MARIO OS was fun.", string(content))

	backup, err := os.ReadFile(renamed + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "Running OS X 10.7 was fun.", string(backup))
}

// Dry-run over the same fixture: nothing on disk may change.
func TestRenameThenRewrite_PlanMode(t *testing.T) {
	env := createTestEnv(t, "NewOS", false)
	path := env.writeFile(t, "Mac OS X Lion Notes.txt", "Running OS X 10.7 was fun.")

	env.runRename(t)
	env.runRewrite(t)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Running OS X 10.7 was fun.", string(content))

	entries, err := os.ReadDir(env.root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Mac OS X Lion Notes.txt", entries[0].Name())
}
