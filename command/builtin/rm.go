package builtin

import (
	"context"
	"io"

	"github.com/mwantia/cartvfs/command"
	"github.com/mwantia/cartvfs/data/errors"
)

type RmCommand struct{}

func (rm *RmCommand) Name() string {
	return "rm"
}

func (rm *RmCommand) Description() string {
	return "Remove files or empty directories"
}

func (rm *RmCommand) Usage() string {
	return "rm [-f] <path>..."
}

// Execute removes every path and reports all failures together.
func (rm *RmCommand) Execute(ctx context.Context, api command.API, args *command.CommandArgs, writer io.Writer) (int, error) {
	if err := args.Require(1); err != nil {
		return 2, err
	}

	force := args.Bool("force")
	var errs errors.Errors
	for _, path := range args.Args {
		if err := api.Remove(ctx, path); err != nil {
			if force && errors.Code(err) == errors.CodeNotFound {
				continue
			}
			errs.Add(err)
		}
	}

	if err := errs.Errors(); err != nil {
		return 1, err
	}
	return 0, nil
}

func (rm *RmCommand) GetFlags() *command.CommandFlagSet {
	return command.NewFlagSet(
		&command.CommandFlag{
			Name:        "force",
			Short:       "f",
			Type:        command.FlagBool,
			Description: "ignore nonexistent files",
		},
	)
}
