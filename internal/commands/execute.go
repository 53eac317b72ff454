package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Done    func(CompletionArgs) (Result, error)
	Undo    func(CompletionArgs) (Result, error)
	Remind  func(RemindArgs) (Result, error)
	Suggest func(SuggestArgs) (Result, error)
	Show    func(ShowArgs) (Result, error)
	Reset   func(ResetArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing("done")
		}
		return handlers.Done(*cmd.Completion)
	case TypeUndo:
		if handlers.Undo == nil {
			return Result{}, missing("undo")
		}
		return handlers.Undo(*cmd.Completion)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, missing("remind")
		}
		return handlers.Remind(*cmd.Remind)
	case TypeSuggest:
		if handlers.Suggest == nil {
			return Result{}, missing("suggest")
		}
		return handlers.Suggest(*cmd.Suggest)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing("show")
		}
		return handlers.Show(*cmd.Show)
	case TypeReset:
		if handlers.Reset == nil {
			return Result{}, missing("reset")
		}
		return handlers.Reset(*cmd.Reset)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
