package command

import "fmt"

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags keyed by their long name
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string
}

// Bool returns the value of a bool flag, false if unset.
func (a *CommandArgs) Bool(name string) bool {
	v, _ := a.Flags[name].(bool)
	return v
}

// String returns the value of a string flag, "" if unset.
func (a *CommandArgs) String(name string) string {
	v, _ := a.Flags[name].(string)
	return v
}

// Int returns the value of an int flag, 0 if unset.
func (a *CommandArgs) Int(name string) int64 {
	v, _ := a.Flags[name].(int64)
	return v
}

// Require checks that at least n positional arguments were given.
func (a *CommandArgs) Require(n int) error {
	if len(a.Args) < n {
		return fmt.Errorf("expected at least %d argument(s), got %d", n, len(a.Args))
	}
	return nil
}

type FlagType string

const (
	FlagBool   FlagType = "bool"
	FlagString FlagType = "string"
	FlagInt    FlagType = "int"
)

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// NewFlagSet creates a flag set from flags, keyed by their long name.
func NewFlagSet(flags ...*CommandFlag) *CommandFlagSet {
	set := &CommandFlagSet{
		Flags: make(map[string]*CommandFlag, len(flags)),
	}
	for _, flag := range flags {
		set.Flags[flag.Name] = flag
	}
	return set
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string   `json:"name"`              // e.g., "long"
	Short       string   `json:"short"`             // Single-char shorthand (e.g., "l")
	Type        FlagType `json:"type"`              // bool, string or int
	Default     any      `json:"default,omitempty"` // Default value
	Required    bool     `json:"required"`          // Must be provided
	Description string   `json:"description"`       // Help text
}
