package maintenance

import (
	"errors"
	"fmt"

	"biomed-system/pkg/constants"
)

// ErrInvalidTransition is matched (errors.Is) by every rejected work order action.
var ErrInvalidTransition = errors.New("invalid work order transition")

// TransitionError describes a rejected action. Nothing was changed.
type TransitionError struct {
	WorkOrderID string
	Action      ActionKind
	From        constants.WorkOrderStatus
	Reason      string
}

func (e *TransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("work order %s: cannot %s: %s", e.WorkOrderID, e.Action, e.Reason)
	}
	return fmt.Sprintf("work order %s: cannot %s from %s: %s", e.WorkOrderID, e.Action, e.From, e.Reason)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
