// Package operation provides the rename and rewrite passes of a run
package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/rebrand/pkg/probe"
	"github.com/walteh/rebrand/pkg/status"
	"github.com/walteh/rebrand/pkg/text"
	"github.com/walteh/rebrand/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a single pass over the tree
type Operation interface {
	// Name identifies the operation in logs and errors
	Name() string
	// Execute runs the operation to completion
	Execute(ctx context.Context) error
}

// 🔧 Options contains the collaborators an operation needs
type Options struct {
	// Engine is the compiled substitution engine, shared across passes
	Engine *text.Engine
	// Walker enumerates the tree
	Walker *walk.Walker
	// StatusMgr performs file operations and prints per-entry lines
	StatusMgr *status.Manager
	// Probe classifies files as text or binary (content pass only)
	Probe probe.Classifier
	// Apply mutates the filesystem; false previews only
	Apply bool
	// Logger for debug output
	Logger *zerolog.Logger
}

// 🎮 BaseOperation holds the shared collaborators
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation validates and stores the common options
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Engine == nil {
		return BaseOperation{}, errors.Errorf("engine is required")
	}
	if opts.Walker == nil {
		return BaseOperation{}, errors.Errorf("walker is required")
	}
	if opts.StatusMgr == nil {
		return BaseOperation{}, errors.Errorf("status manager is required")
	}
	return BaseOperation{Options: opts}, nil
}
