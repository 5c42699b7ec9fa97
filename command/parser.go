package command

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses raw arguments into flags and positional arguments
type Parser struct {
	flagSet *CommandFlagSet
}

func NewParser(flagSet *CommandFlagSet) *Parser {
	if flagSet == nil {
		flagSet = NewFlagSet()
	}
	return &Parser{
		flagSet: flagSet,
	}
}

func (cp *Parser) Parse(raw []string) (*CommandArgs, error) {
	args := &CommandArgs{
		Flags: make(map[string]any),
		Raw:   raw,
	}

	shortToName := make(map[string]string)
	for name, flag := range cp.flagSet.Flags {
		if flag.Default != nil {
			args.Flags[name] = flag.Default
		}
		if flag.Short != "" {
			shortToName[flag.Short] = name
		}
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			args.Args = append(args.Args, raw[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "--") {
			key, value, hasValue := parseLongFlag(arg)
			flag, exists := cp.flagSet.Flags[key]
			if !exists {
				return nil, fmt.Errorf("unknown flag: --%s", key)
			}

			switch {
			case flag.Type == FlagBool && !hasValue:
				args.Flags[flag.Name] = true
			case hasValue:
				v, err := coerce(value, flag.Type)
				if err != nil {
					return nil, fmt.Errorf("flag --%s: %w", key, err)
				}
				args.Flags[flag.Name] = v
			case i+1 < len(raw):
				v, err := coerce(raw[i+1], flag.Type)
				if err != nil {
					return nil, fmt.Errorf("flag --%s: %w", key, err)
				}
				args.Flags[flag.Name] = v
				i++
			default:
				return nil, fmt.Errorf("flag --%s requires a value", key)
			}
			continue
		}

		// Namespace paths never start with '-', so a single dash group is
		// always a set of short flags.
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			shortFlags := arg[1:]

			for j, shortChar := range shortFlags {
				shortStr := string(shortChar)
				name, exists := shortToName[shortStr]
				if !exists {
					return nil, fmt.Errorf("unknown flag: -%s", shortStr)
				}

				flag := cp.flagSet.Flags[name]
				if flag.Type == FlagBool {
					args.Flags[name] = true
					continue
				}

				var value string
				if j+1 < len(shortFlags) {
					value = shortFlags[j+1:]
				} else if i+1 < len(raw) {
					value = raw[i+1]
					i++
				} else {
					return nil, fmt.Errorf("flag -%s requires a value", shortStr)
				}

				v, err := coerce(value, flag.Type)
				if err != nil {
					return nil, fmt.Errorf("flag -%s: %w", shortStr, err)
				}
				args.Flags[name] = v
				break
			}
			continue
		}

		args.Args = append(args.Args, arg)
	}

	for name, flag := range cp.flagSet.Flags {
		if !flag.Required {
			continue
		}
		if _, ok := args.Flags[name]; !ok {
			if flag.Short != "" {
				return nil, fmt.Errorf("required flag: -%s / --%s", flag.Short, flag.Name)
			}
			return nil, fmt.Errorf("required flag: --%s", flag.Name)
		}
	}

	return args, nil
}

func parseLongFlag(arg string) (key, value string, hasValue bool) {
	arg = strings.TrimPrefix(arg, "--")
	if idx := strings.Index(arg, "="); idx >= 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}

func coerce(value string, flagType FlagType) (any, error) {
	switch flagType {
	case FlagInt:
		return strconv.ParseInt(value, 10, 64)
	case FlagBool:
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}
