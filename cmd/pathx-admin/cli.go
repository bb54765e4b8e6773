package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeding"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `usage: pathx-admin <command> [flags]

commands:
  seed     [-clear] [-scope all|seeded] [-confirm]   insert the sample job postings
  clear    [-scope all|seeded] [-confirm]            delete job postings
  promote  [-token <session>]                        grant super_admin to the signed-in user
  migrate  [-down]                                   apply ClickHouse audit migrations, or revert the latest
  serve                                              run the admin HTTP API

-scope defaults to all. Clearing every job posting, alone or through
seed -clear, is refused without -confirm; -scope seeded needs no -confirm.
`

var errUsage = stderrors.New("usage error")

type command struct {
	name       string
	clearFirst bool
	scope      seeding.Scope
	confirm    bool
	token      string
	down       bool
}

func parseCommand(args []string, stderr io.Writer) (command, error) {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return command{}, errUsage
	}

	cmd := command{name: args[0]}
	fs := flag.NewFlagSet("pathx-admin "+cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var scope string
	switch cmd.name {
	case "seed":
		fs.BoolVar(&cmd.clearFirst, "clear", false, "clear job postings before seeding (needs -confirm unless -scope seeded)")
		fs.StringVar(&scope, "scope", string(seeding.ScopeAll), "what to clear: all or seeded")
		fs.BoolVar(&cmd.confirm, "confirm", false, "confirm clearing every job posting")
	case "clear":
		fs.StringVar(&scope, "scope", string(seeding.ScopeAll), "what to clear: all or seeded")
		fs.BoolVar(&cmd.confirm, "confirm", false, "confirm clearing every job posting")
	case "promote":
		fs.StringVar(&cmd.token, "token", "", "session token, overrides PATHX_SESSION_TOKEN")
	case "migrate":
		fs.BoolVar(&cmd.down, "down", false, "roll back the most recently applied migration")
	case "serve":
	case "help", "-h", "--help":
		fmt.Fprint(stderr, usage)
		return command{}, errUsage
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd.name, usage)
		return command{}, errUsage
	}

	if err := fs.Parse(args[1:]); err != nil {
		return command{}, errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return command{}, errUsage
	}

	if cmd.name == "seed" || cmd.name == "clear" {
		parsed, err := seeding.ParseScope(scope)
		if err != nil {
			fmt.Fprintln(stderr, seeding.Message(err))
			return command{}, errUsage
		}
		cmd.scope = parsed
	}
	return cmd, nil
}
