package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mwantia/cartvfs/command"
)

type StatCommand struct{}

func (s *StatCommand) Name() string {
	return "stat"
}

func (s *StatCommand) Description() string {
	return "Display file status"
}

func (s *StatCommand) Usage() string {
	return "stat [--json] <path>"
}

func (s *StatCommand) Execute(ctx context.Context, api command.API, args *command.CommandArgs, writer io.Writer) (int, error) {
	if err := args.Require(1); err != nil {
		return 2, err
	}

	stat, err := api.Stat(ctx, args.Args[0])
	if err != nil {
		return 1, err
	}

	if args.Bool("json") {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(stat); err != nil {
			return 1, err
		}
		return 0, nil
	}

	fmt.Fprintf(writer, "  Path: %s\n", stat.Path)
	fmt.Fprintf(writer, "  Size: %d\n", stat.Size)
	fmt.Fprintf(writer, "  Mode: %s\n", stat.Mode)
	fmt.Fprintf(writer, "Modify: %s\n", stat.ModifyTime.Format(time.RFC3339))
	if stat.ContentType != "" {
		fmt.Fprintf(writer, "  Type: %s\n", stat.ContentType)
	}
	return 0, nil
}

func (s *StatCommand) GetFlags() *command.CommandFlagSet {
	return command.NewFlagSet(
		&command.CommandFlag{
			Name:        "json",
			Type:        command.FlagBool,
			Description: "print the status as JSON",
		},
	)
}
