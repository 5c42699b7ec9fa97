package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

var (
	ErrUnknownCommand   = errors.New("command: unknown command")
	ErrCommandExists    = errors.New("command: command already registered")
	ErrEmptyCommandLine = errors.New("command: empty command line")
)

// CommandCenter holds the registered commands and dispatches command lines.
type CommandCenter struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewCommandCenter() *CommandCenter {
	return &CommandCenter{
		commands: make(map[string]Command),
	}
}

// Register adds cmd under its name.
func (cc *CommandCenter) Register(cmd Command) error {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if _, exists := cc.commands[cmd.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrCommandExists, cmd.Name())
	}

	cc.commands[cmd.Name()] = cmd
	return nil
}

// Get returns the command registered as name.
func (cc *CommandCenter) Get(name string) (Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Commands returns all registered commands sorted by name.
func (cc *CommandCenter) Commands() []Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	commands := make([]Command, 0, len(cc.commands))
	for _, cmd := range cc.commands {
		commands = append(commands, cmd)
	}
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})
	return commands
}

// Execute runs line, whose first element names the command.
func (cc *CommandCenter) Execute(ctx context.Context, api API, line []string, writer io.Writer) (int, error) {
	if len(line) == 0 {
		return 2, ErrEmptyCommandLine
	}

	cmd, ok := cc.Get(line[0])
	if !ok {
		return 127, fmt.Errorf("%w: %s", ErrUnknownCommand, line[0])
	}

	args, err := NewParser(cmd.GetFlags()).Parse(line[1:])
	if err != nil {
		return 2, fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	code, err := cmd.Execute(ctx, api, args, writer)
	if err != nil {
		return code, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return code, nil
}
