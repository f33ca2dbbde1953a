package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrTerminalState is returned when a transition is attempted from a
	// closed, completed or rejected request.
	ErrTerminalState = errors.New("request is in a terminal state")

	// ErrInvalidTransition is returned when the target status is not
	// reachable from the current one for the request's type.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrRevertReasonRequired is returned when a backward step is attempted
	// without a justification.
	ErrRevertReasonRequired = errors.New("revert requires a justification reason")
)

// forward transition table per request type. Returns/exchanges share one
// flow; refunds have their own. rejected is reachable only where listed.
var returnFlow = map[Status][]Status{
	StatusNew:          {StatusReview, StatusApproved, StatusRejected},
	StatusReview:       {StatusApproved, StatusRejected},
	StatusApproved:     {StatusAwaitingPost, StatusRejected},
	StatusAwaitingPost: {StatusReceivedDC},
	StatusReceivedDC:   {StatusClosed},
}

var refundFlow = map[Status][]Status{
	StatusNew:        {StatusApproved, StatusRejected},
	StatusApproved:   {StatusProcessing},
	StatusProcessing: {StatusCompleted},
}

// revert table: the single permitted backward step per type.
var returnRevert = map[Status]Status{
	StatusReview:       StatusNew,
	StatusApproved:     StatusReview,
	StatusAwaitingPost: StatusApproved,
	StatusReceivedDC:   StatusAwaitingPost,
}

var refundRevert = map[Status]Status{
	StatusApproved:   StatusNew,
	StatusProcessing: StatusApproved,
}

func flowFor(t Type) map[Status][]Status {
	if t == TypeRefund {
		return refundFlow
	}
	return returnFlow
}

func revertFor(t Type) map[Status]Status {
	if t == TypeRefund {
		return refundRevert
	}
	return returnRevert
}

// IsTerminal reports whether no further transitions are accepted from s.
func IsTerminal(s Status) bool {
	return s == StatusRejected || s == StatusClosed || s == StatusCompleted
}

// Next returns the statuses reachable forward from the current one.
func Next(t Type, from Status) []Status {
	return flowFor(t)[from]
}

// Validate checks a forward transition. Terminal states reject every
// transition; everything else must appear in the flow table.
func Validate(t Type, from, to Status) error {
	if IsTerminal(from) {
		return fmt.Errorf("%w: %s", ErrTerminalState, from)
	}
	for _, s := range flowFor(t)[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s (%s)", ErrInvalidTransition, from, to, t)
}

// RevertTarget returns the status a revert lands on, if the current status
// admits a backward step.
func RevertTarget(t Type, from Status) (Status, bool) {
	if IsTerminal(from) {
		return "", false
	}
	to, ok := revertFor(t)[from]
	return to, ok
}

// ValidateRevert checks the explicit operator backward step. A non-empty
// justification is mandatory; it ends up in the timeline event.
func ValidateRevert(t Type, from Status, reason string) (Status, error) {
	if reason == "" {
		return "", ErrRevertReasonRequired
	}
	if IsTerminal(from) {
		return "", fmt.Errorf("%w: %s", ErrTerminalState, from)
	}
	to, ok := revertFor(t)[from]
	if !ok {
		return "", fmt.Errorf("%w: no revert step from %s (%s)", ErrInvalidTransition, from, t)
	}
	return to, nil
}
