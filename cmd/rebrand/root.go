package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/rebrand/pkg/config"
	"github.com/walteh/rebrand/pkg/operation"
	"github.com/walteh/rebrand/pkg/probe"
	"github.com/walteh/rebrand/pkg/status"
	"github.com/walteh/rebrand/pkg/text"
	"github.com/walteh/rebrand/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrUsage marks bad flags or an unusable config (exit code 2)
	ErrUsage = errors.New("usage error")
	// ErrProbeUnavailable marks a broken text classifier (exit code 3)
	ErrProbeUnavailable = errors.New("text classifier unavailable")
	// ErrBadRoot marks a root path that is not a directory (exit code 4)
	ErrBadRoot = errors.New("root is not a directory")
)

// rootFlags holds the command-line flag values before they are merged over
// the config file.
type rootFlags struct {
	root        string
	apply       bool
	contents    bool
	replacement string
	excludes    []string
	configFile  string
	verbose     bool
}

// NewRootCmd builds the rebrand command.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "rebrand",
		Short: "Replace OS brand tokens in file names and file contents",
		Long: `rebrand walks a directory tree and replaces product names, release
codenames and version numbers with a single target string, in file and
directory names and optionally inside text file contents.

Without --apply nothing is touched: every line shows what apply would do.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.root, "root", "r", ".", "directory to process")
	cmd.Flags().BoolVarP(&flags.apply, "apply", "a", false, "perform the changes (default is dry-run)")
	cmd.Flags().BoolVarP(&flags.contents, "contents", "c", false, "also rewrite text file contents")
	cmd.Flags().StringVar(&flags.replacement, "replace", config.DefaultReplacement, "replacement string")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil, "glob pattern to exclude (repeatable)")
	cmd.Flags().StringVar(&flags.configFile, "config", "", "config file path")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Errorf("%w: %v", ErrUsage, err)
	})

	return cmd
}

// runRoot wires the collaborators together and executes the passes.
func runRoot(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, cmd, flags)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)
	ctx = logger.WithContext(ctx)
	logger.Debug().Str("config", cfg.String()).Str("location", cfg.Location()).Msg("configuration resolved")

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return errors.Errorf("%w: %s", ErrBadRoot, cfg.Root)
	}
	if !info.IsDir() {
		return errors.Errorf("%w: %s", ErrBadRoot, cfg.Root)
	}

	engine, err := text.NewEngine(text.DefaultGrammar(), cfg.Replacement)
	if err != nil {
		return errors.Errorf("%w: %v", ErrUsage, err)
	}

	walker, err := walk.New(cfg.Root, cfg.Excludes)
	if err != nil {
		return errors.Errorf("%w: %v", ErrUsage, err)
	}

	statusMgr := status.NewManager(cmd.OutOrStdout(), &logger)

	opts := operation.Options{
		Engine:    engine,
		Walker:    walker,
		StatusMgr: statusMgr,
		Apply:     flags.apply,
		Logger:    &logger,
	}

	renameOp, err := operation.NewRenameOperation(opts)
	if err != nil {
		return errors.Errorf("creating rename operation: %w", err)
	}
	ops := []operation.Operation{renameOp}

	if cfg.Contents {
		// The classifier has to be usable before any file is touched.
		p := probe.New()
		if err := p.Verify(); err != nil {
			return errors.Errorf("%w: %v", ErrProbeUnavailable, err)
		}
		opts.Probe = p

		rewriteOp, err := operation.NewRewriteOperation(opts)
		if err != nil {
			return errors.Errorf("creating rewrite operation: %w", err)
		}
		ops = append(ops, rewriteOp)
	}

	statusMgr.Banner(ctx, cfg.Root, cfg.Replacement, flags.apply, cfg.Contents, len(cfg.Excludes))

	runner := operation.NewRunner(&logger)
	if err := runner.Run(ctx, ops...); err != nil {
		return err
	}

	statusMgr.Done(ctx)
	return nil
}

// loadConfig resolves the layered configuration: defaults, then an optional
// config file, then whichever flags were set on the command line.
func loadConfig(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if flags.configFile != "" {
		cfg, err = config.Load(ctx, flags.configFile)
	} else {
		cfg, err = config.Discover(ctx)
	}
	if err != nil {
		return nil, errors.Errorf("%w: %v", ErrUsage, err)
	}

	if cmd.Flags().Changed("root") {
		cfg.Root = flags.root
	}
	if cmd.Flags().Changed("replace") {
		cfg.Replacement = flags.replacement
	}
	if cmd.Flags().Changed("contents") {
		cfg.Contents = flags.contents
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Excludes = flags.excludes
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flags.verbose
	}

	if err := cfg.Validate(ctx); err != nil {
		return nil, errors.Errorf("%w: %v", ErrUsage, err)
	}
	return cfg, nil
}
