package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
)

type Type string

const (
	TypeDone    Type = "done"
	TypeUndo    Type = "undo"
	TypeRemind  Type = "remind"
	TypeSuggest Type = "suggest"
	TypeShow    Type = "show"
	TypeReset   Type = "reset"
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

// Target names a row of the today list: the selected one, or a 1-based index.
type Target struct {
	Selected bool
	Index    int
}

type CompletionArgs struct {
	Target Target
	Date   string
}

type RemindArgs struct {
	Target  Target
	Enabled bool
}

type SuggestArgs struct {
	Exercise string
}

type ShowArgs struct {
	Subject string
}

type ResetArgs struct {
	Plan string
}

type Command struct {
	Type       Type
	Raw        string
	Completion *CompletionArgs
	Remind     *RemindArgs
	Suggest    *SuggestArgs
	Show       *ShowArgs
	Reset      *ResetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeDone, TypeUndo:
		return parseCompletion(input, Type(head), args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeSuggest:
		return parseSuggest(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeReset:
		return Command{Type: TypeReset, Raw: input, Reset: &ResetArgs{Plan: strings.Join(args, " ")}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseTarget(raw string) (Target, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "selected" || s == "." {
		return Target{Selected: true}, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n < 1 {
		return Target{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid target %q", raw)}
	}
	return Target{Index: n}, nil
}

func parseCompletion(raw string, typ Type, args []string) (Command, error) {
	targetRaw := ""
	if len(args) > 0 {
		targetRaw = args[0]
	}
	target, err := parseTarget(targetRaw)
	if err != nil {
		return Command{}, err
	}
	date := ""
	if len(args) > 1 {
		date = args[1]
		if _, err := model.ParseDay(date, time.UTC); err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("date must be YYYY-MM-DD, got %q", date)}
		}
	}
	return Command{Type: typ, Raw: raw, Completion: &CompletionArgs{Target: target, Date: date}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires on or off"}
	}
	targetRaw, state := "", args[len(args)-1]
	if len(args) > 1 {
		targetRaw = args[0]
	}
	target, err := parseTarget(targetRaw)
	if err != nil {
		return Command{}, err
	}
	var enabled bool
	switch strings.ToLower(state) {
	case "on", "enable", "yes":
		enabled = true
	case "off", "disable", "no":
		enabled = false
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires on or off"}
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Target: target, Enabled: enabled}}, nil
}

func parseSuggest(raw string, args []string) (Command, error) {
	exercise := strings.TrimSpace(strings.Join(args, " "))
	if exercise == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "suggest requires an exercise name"}
	}
	return Command{Type: TypeSuggest, Raw: raw, Suggest: &SuggestArgs{Exercise: exercise}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "today", "stats", "plans", "exercises":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject %q", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}
