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

package operation

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/walteh/rebrand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📦 NewRenameOperation creates the rename pass
func NewRenameOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &renameOperation{BaseOperation: base}, nil
}

// 📦 renameOperation renames files and directories whose base name contains
// grammar tokens. Entries are processed children-first, so every entry is
// still addressable by its original path when its own turn comes.
type renameOperation struct {
	BaseOperation
}

func (op *renameOperation) Name() string {
	return "rename"
}

// 🏃 Execute runs the rename pass
func (op *renameOperation) Execute(ctx context.Context) error {
	entries, err := op.Walker.RenameOrder(ctx)
	if err != nil {
		return errors.Errorf("enumerating tree: %w", err)
	}

	for _, entry := range entries {
		if err := op.processEntry(ctx, entry.Path); err != nil {
			return errors.Errorf("processing %s: %w", entry.Path, err)
		}
	}
	return nil
}

// 📄 processEntry renames (or plans the rename of) a single entry
func (op *renameOperation) processEntry(ctx context.Context, path string) error {
	base := filepath.Base(path)
	newBase, err := op.Engine.Apply(base)
	if err != nil {
		return errors.Errorf("substituting name: %w", err)
	}

	if newBase == base {
		op.StatusMgr.Entry(ctx, status.KindSkip, path, "")
		return nil
	}

	dest, err := op.resolveCollision(ctx, filepath.Dir(path), newBase)
	if err != nil {
		return err
	}

	if !op.Apply {
		op.StatusMgr.Entry(ctx, status.KindPlan, path, "-> "+filepath.Base(dest))
		return nil
	}

	if err := op.StatusMgr.Rename(ctx, path, dest); err != nil {
		return err
	}
	op.StatusMgr.Entry(ctx, status.KindRename, path, "-> "+filepath.Base(dest))
	return nil
}

// 🔍 resolveCollision finds a free destination in dir for the candidate base
// name, appending _1, _2, ... until nothing occupies it.
func (op *renameOperation) resolveCollision(ctx context.Context, dir, base string) (string, error) {
	dest := filepath.Join(dir, base)
	for suffix := 1; ; suffix++ {
		exists, err := op.StatusMgr.Exists(ctx, dest)
		if err != nil {
			return "", err
		}
		if !exists {
			return dest, nil
		}
		dest = filepath.Join(dir, fmt.Sprintf("%s_%d", base, suffix))
	}
}
