package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeRemove Type = "remove"
	TypeList   Type = "list"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

// RemoveArgs carries the 1-based position shown next to each item.
type RemoveArgs struct {
	Position int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Remove *RemoveArgs
}

var aliases = map[string]Type{
	"rm":  TypeRemove,
	"del": TypeRemove,
	"ls":  TypeList,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	rest := strings.TrimSpace(strings.TrimPrefix(raw, parts[0]))
	if alias, ok := aliases[head]; ok {
		head = string(alias)
	}

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, rest)
	case TypeRemove:
		return parseRemove(input, parts[1:])
	case TypeList:
		return Command{Type: TypeList, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd keeps the text as typed after the verb, inner spacing included.
func parseAdd(raw string, rest string) (Command, error) {
	if rest == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: rest}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remove requires exactly one item number"}
	}
	pos, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || pos < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid item number: %s", args[0])}
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{Position: pos}}, nil
}

// ParseArgs joins command-line arguments into a single command.
func ParseArgs(args []string) (Command, error) {
	return Parse(strings.Join(args, " "))
}
