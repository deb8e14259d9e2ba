package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
)

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Remove func(RemoveArgs) (Result, error)
	List   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "remove handler not configured"}
		}
		return handlers.Remove(*cmd.Remove)
	case TypeList:
		if handlers.List == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "list handler not configured"}
		}
		return handlers.List()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

// Lister is the read side a list handler needs.
type Lister interface {
	Items() []string
}

// Mutator is the write side the add and remove handlers need.
type Mutator interface {
	Lister
	Add(text string) (bool, error)
	RemoveAt(index int) (bool, error)
}

// ListHandlers wires the three verbs to a to-do list.
func ListHandlers(list Mutator) Handlers {
	return Handlers{
		Add: func(a AddArgs) (Result, error) {
			added, err := list.Add(a.Text)
			if err != nil {
				return Result{}, err
			}
			if !added {
				return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires text"}
			}
			item, _ := model.Normalize(a.Text)
			return Result{Message: fmt.Sprintf("added: %s", item)}, nil
		},
		Remove: func(r RemoveArgs) (Result, error) {
			items := list.Items()
			idx := r.Position - 1
			if idx < 0 || idx >= len(items) {
				return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no item #%d (list has %d)", r.Position, len(items))}
			}
			removed, err := list.RemoveAt(idx)
			if err != nil {
				return Result{}, err
			}
			if !removed {
				return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no item #%d", r.Position)}
			}
			return Result{Message: fmt.Sprintf("removed #%d: %s", r.Position, items[idx])}, nil
		},
		List: func() (Result, error) {
			return Result{Message: FormatList(list.Items())}, nil
		},
	}
}

// FormatList numbers items from 1, one per line.
func FormatList(items []string) string {
	if len(items) == 0 {
		return "(no items)"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, item)
	}
	return b.String()
}
