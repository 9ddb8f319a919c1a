package command

import (
	"errors"
	"fmt"

	"tableflip.dev/taskq/pkg/collection"
	"tableflip.dev/taskq/pkg/tag"
)

var (
	// ErrInvalidIndex is returned for targets outside the current view.
	ErrInvalidIndex = errors.New("command: invalid entry index")
	// ErrNothingToUndo is returned when no command can be undone.
	ErrNothingToUndo = errors.New("command: nothing to undo")
	// ErrNothingToRedo is returned when no command can be redone.
	ErrNothingToRedo = errors.New("command: nothing to redo")
	// ErrNoChange is returned when a command would leave the entry as is.
	ErrNoChange = errors.New("command: nothing to change")
	// ErrAlreadyExecuted is returned when executing an undoable command.
	ErrAlreadyExecuted = errors.New("command: already executed")
	// ErrInconsistent is returned when undo or redo finds the collection no
	// longer holds what the command captured.
	ErrInconsistent = errors.New("command: collection out of sync with history")
)

func inconsistent(err error) error {
	return fmt.Errorf("%w: %w", ErrInconsistent, err)
}

// Describe turns err into the message shown to the user.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInconsistent):
		return "The entry is no longer in the list; the command was dropped from history"
	case errors.Is(err, collection.ErrDuplicateEntry):
		return "This entry already exists in the list"
	case errors.Is(err, collection.ErrEntryNotFound):
		return "The target entry cannot be found"
	case errors.Is(err, collection.ErrEntryConversion):
		return "The entry would change type between task and event. Please use delete and add instead"
	case errors.Is(err, collection.ErrUnsupportedMark):
		return "Events cannot be marked or unmarked"
	case errors.Is(err, collection.ErrInvalidTimeRange):
		return "The event would end before it starts"
	case errors.Is(err, collection.ErrEmptyTitle):
		return "An entry needs a title"
	case errors.Is(err, tag.ErrInvalidTag):
		return fmt.Sprintf("Tags must be single words: %v", err)
	case errors.Is(err, ErrInvalidIndex):
		return "The entry index provided is invalid"
	case errors.Is(err, ErrNothingToUndo):
		return "There is no command to undo"
	case errors.Is(err, ErrNothingToRedo):
		return "There is no command to redo"
	case errors.Is(err, ErrNoChange):
		return "Nothing to change"
	case errors.Is(err, ErrAlreadyExecuted):
		return "The command has already been executed"
	}
	return err.Error()
}
