package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todo help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                               List all tasks
  todo list [common flags] [--open] [--ids]          List tasks
  todo add [common flags] [--priority <level>] <name...>
  todo create [common flags] [--priority <level>] <name...>
  todo done [common flags] <ref>...
  todo reopen [common flags] <ref>...
  todo priority [common flags] <ref> <High|Medium|Low>
  todo rename [common flags] <ref> <name...>
  todo rm [common flags] <ref>...
  todo ui [common flags]                             Interactive view
  todo serve [common flags] [--addr <host:port>]     HTTP API
  todo login [common flags]
  todo logout [common flags]
  todo help
  todo version

A <ref> is a row number from 'todo list' or a task ID from 'todo list --ids'.
Priority levels: High (default for add), Medium, Low.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TODO_BACKEND       file, sqlite, redis, googletasks or memory
  TODO_FILE          Task file for the file backend (.json, .yaml, .yml)
  TODO_SQLITE_PATH   Database file for the sqlite backend
  TODO_REDIS_URL     Redis URL for the redis backend
  TODO_REDIS_KEY     Redis key holding the task list
  TODO_GOOGLE_LIST   Google Tasks list ID for the googletasks backend
  TODO_LOG_FORMAT    text or json
`
