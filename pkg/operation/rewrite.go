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
	"os"

	"github.com/walteh/rebrand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📦 NewRewriteOperation creates the content-rewrite pass. It runs after the
// rename pass and enumerates the post-rename tree on its own.
func NewRewriteOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	if opts.Probe == nil {
		return nil, errors.Errorf("probe is required")
	}
	return &rewriteOperation{BaseOperation: base}, nil
}

// 📦 rewriteOperation rewrites the content of every text file under the root
type rewriteOperation struct {
	BaseOperation
}

func (op *rewriteOperation) Name() string {
	return "rewrite"
}

// 🏃 Execute runs the rewrite pass
func (op *rewriteOperation) Execute(ctx context.Context) error {
	files, err := op.Walker.Files(ctx)
	if err != nil {
		return errors.Errorf("enumerating files: %w", err)
	}

	for _, file := range files {
		if err := op.processFile(ctx, file); err != nil {
			return errors.Errorf("processing %s: %w", file, err)
		}
	}
	return nil
}

// 📄 processFile rewrites (or plans the rewrite of) a single file
func (op *rewriteOperation) processFile(ctx context.Context, path string) error {
	isText, err := op.Probe.IsText(ctx, path)
	if err != nil {
		return errors.Errorf("classifying file: %w", err)
	}
	if !isText {
		op.StatusMgr.Entry(ctx, status.KindSkipBinary, path, "")
		return nil
	}

	if !op.Apply {
		op.StatusMgr.Entry(ctx, status.KindPlan, path, "rewrite")
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stating file: %w", err)
	}

	content, err := op.StatusMgr.ReadFile(ctx, path)
	if err != nil {
		return err
	}

	rewritten, err := op.Engine.ApplyContent(string(content))
	if err != nil {
		return errors.Errorf("substituting content: %w", err)
	}

	// Backup carries the pre-rewrite bytes; it lands before the overwrite
	// so an interrupted run always leaves a recovery path.
	if err := op.StatusMgr.BackupFile(ctx, path, content); err != nil {
		return err
	}
	if err := op.StatusMgr.WriteFileAtomic(ctx, path, []byte(rewritten), info.Mode().Perm()); err != nil {
		return err
	}

	op.StatusMgr.Entry(ctx, status.KindRewrite, path, "")
	return nil
}
