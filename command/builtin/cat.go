package builtin

import (
	"context"
	"io"

	"github.com/mwantia/cartvfs/command"
)

type CatCommand struct{}

func (c *CatCommand) Name() string {
	return "cat"
}

func (c *CatCommand) Description() string {
	return "Print file contents"
}

func (c *CatCommand) Usage() string {
	return "cat <path>..."
}

func (c *CatCommand) Execute(ctx context.Context, api command.API, args *command.CommandArgs, writer io.Writer) (int, error) {
	if err := args.Require(1); err != nil {
		return 2, err
	}

	for _, path := range args.Args {
		content, err := api.ReadBytes(ctx, path)
		if err != nil {
			return 1, err
		}
		if _, err := writer.Write(content); err != nil {
			return 1, err
		}
	}

	return 0, nil
}

func (c *CatCommand) GetFlags() *command.CommandFlagSet {
	return nil
}
