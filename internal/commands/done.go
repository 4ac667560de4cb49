package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&ReopenCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string   { return "Mark tasks completed" }
func (c *DoneCmd) Usage() string      { return "todo done <ref>..." }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runEach(ctx, cfg, svc, args, out, errOut, svc.Complete)
}

// ReopenCmd implements the reopen command.
type ReopenCmd struct{}

func (c *ReopenCmd) Name() string       { return "reopen" }
func (c *ReopenCmd) Aliases() []string  { return []string{"undo"} }
func (c *ReopenCmd) Synopsis() string   { return "Mark tasks not completed" }
func (c *ReopenCmd) Usage() string      { return "todo reopen <ref>..." }
func (c *ReopenCmd) NeedsService() bool { return true }

func (c *ReopenCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReopenCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runEach(ctx, cfg, svc, args, out, errOut, svc.Reopen)
}

// runEach resolves all refs up front, then applies op to each task by ID.
// It stops at the first failure.
func runEach(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer, op func(context.Context, string) error) int {
	tasks, err := resolveTasks(ctx, svc, args)
	if err != nil {
		return reportError(errOut, err)
	}

	for _, t := range tasks {
		if err := op(ctx, t.ID); err != nil {
			return reportError(errOut, err)
		}
	}

	printOK(cfg, out)
	return exitcode.Success
}
