package membership

import (
	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/proto"
)

// Event is a requested change to the user and company relationship.
type Event int

const (
	// EventUnspecified represents an invalid event.
	EventUnspecified Event = iota
	// EventCreateInvite is the owner inviting a user.
	EventCreateInvite
	// EventCreateRequest is a user asking to join.
	EventCreateRequest
	// EventAcceptInvite is the invited user accepting.
	EventAcceptInvite
	// EventDeclineInvite is the invited user declining.
	EventDeclineInvite
	// EventCancelInvite is the owner withdrawing an invite.
	EventCancelInvite
	// EventAcceptRequest is the owner accepting a request.
	EventAcceptRequest
	// EventDeclineRequest is the owner declining a request.
	EventDeclineRequest
	// EventCancelRequest is the requesting user withdrawing.
	EventCancelRequest
)

// String returns the label of the event.
func (e Event) String() string {
	switch e {
	case EventCreateInvite:
		return "CREATE_INVITE"
	case EventCreateRequest:
		return "CREATE_REQUEST"
	case EventAcceptInvite:
		return "ACCEPT_INVITE"
	case EventDeclineInvite:
		return "DECLINE_INVITE"
	case EventCancelInvite:
		return "CANCEL_INVITE"
	case EventAcceptRequest:
		return "ACCEPT_REQUEST"
	case EventDeclineRequest:
		return "DECLINE_REQUEST"
	case EventCancelRequest:
		return "CANCEL_REQUEST"
	case EventUnspecified:
	}
	return "UNSPECIFIED"
}

// Requires returns the capability a caller needs to submit the event.
// EventCreateRequest needs none since any non-member may ask to join.
func (e Event) Requires() access.Capability {
	switch e {
	case EventCreateInvite:
		return access.Invite
	case EventCancelInvite:
		return access.CancelInvite
	case EventAcceptInvite:
		return access.AcceptInvite
	case EventDeclineInvite:
		return access.DeclineInvite
	case EventAcceptRequest:
		return access.AcceptRequest
	case EventDeclineRequest:
		return access.DeclineRequest
	case EventCancelRequest:
		return access.CancelRequest
	case EventCreateRequest, EventUnspecified:
	}
	return 0
}

// Effect is what must happen to the stored action row.
type Effect int

const (
	// EffectUnspecified represents an invalid effect.
	EffectUnspecified Effect = iota
	// EffectCreateNew inserts a new action row.
	EffectCreateNew
	// EffectMergeAccept accepts the opposite direction pending action
	// instead of creating a second one, and creates the member.
	EffectMergeAccept
	// EffectReopen moves a declined action back to pending in place.
	EffectReopen
	// EffectReplace deletes the declined action and inserts a new one with
	// the other type.
	EffectReplace
	// EffectAccept marks the action accepted and creates the member.
	EffectAccept
	// EffectDecline marks the action declined.
	EffectDecline
	// EffectDelete removes the action row.
	EffectDelete
	// EffectRejectConflict rejects the event as violating a state invariant.
	EffectRejectConflict
	// EffectRejectForbidden rejects the event as not allowed for the caller.
	EffectRejectForbidden
)

// String returns the label of the effect.
func (e Effect) String() string {
	switch e {
	case EffectCreateNew:
		return "CREATE_NEW"
	case EffectMergeAccept:
		return "MERGE_ACCEPT"
	case EffectReopen:
		return "REOPEN"
	case EffectReplace:
		return "REPLACE"
	case EffectAccept:
		return "ACCEPT"
	case EffectDecline:
		return "DECLINE"
	case EffectDelete:
		return "DELETE"
	case EffectRejectConflict:
		return "REJECT_CONFLICT"
	case EffectRejectForbidden:
		return "REJECT_FORBIDDEN"
	case EffectUnspecified:
	}
	return "UNSPECIFIED"
}

// Decision is the outcome of applying an event to the current state.
type Decision struct {
	Effect Effect
	// Type is the type of the row after the effect is applied.
	Type Type
	// Status is the status of the row after the effect is applied. It is
	// StatusUnspecified for EffectDelete and rejections.
	Status Status
	// Reason is set for rejections.
	Reason error
}

// Err returns the rejection reason, or nil when the event is allowed.
func (d Decision) Err() error {
	switch d.Effect {
	case EffectRejectConflict, EffectRejectForbidden:
		return d.Reason
	case EffectUnspecified, EffectCreateNew, EffectMergeAccept, EffectReopen,
		EffectReplace, EffectAccept, EffectDecline, EffectDelete:
	}
	return nil
}

// CreatesMember reports whether applying the decision materializes a member.
func (d Decision) CreatesMember() bool {
	return d.Effect == EffectAccept || d.Effect == EffectMergeAccept
}

func conflict(err error) Decision {
	return Decision{Effect: EffectRejectConflict, Reason: err}
}

// Forbid returns a Decision rejecting an event for lack of permission.
func Forbid(err error) Decision {
	return Decision{Effect: EffectRejectForbidden, Reason: err}
}

func statusDisallows(s Status, e Event) error {
	return proto.Conflict("action status %s does not allow %s", s, e)
}

// Resolve decides what a creation event does given the status of the
// existing action for the same user and company, or nil when there is none.
func Resolve(existing *Status, e Event) Decision {
	var created Decision
	switch e {
	case EventCreateInvite:
		created = Decision{Effect: EffectCreateNew, Type: TypeInvite, Status: StatusInvited}
	case EventCreateRequest:
		created = Decision{Effect: EffectCreateNew, Type: TypeRequest, Status: StatusRequested}
	case EventUnspecified, EventAcceptInvite, EventDeclineInvite, EventCancelInvite,
		EventAcceptRequest, EventDeclineRequest, EventCancelRequest:
		return conflict(proto.Conflict("%s is not a creation event", e))
	}

	if existing == nil {
		return created
	}

	switch *existing {
	case StatusInvited:
		switch e {
		case EventCreateRequest:
			return Decision{Effect: EffectMergeAccept, Type: TypeInvite, Status: StatusAccepted}
		default:
			return conflict(proto.ErrAlreadyInvited)
		}
	case StatusRequested:
		switch e {
		case EventCreateInvite:
			return Decision{Effect: EffectMergeAccept, Type: TypeRequest, Status: StatusAccepted}
		default:
			return conflict(proto.ErrAlreadyRequested)
		}
	case StatusAccepted:
		return conflict(proto.ErrAlreadyInCompany)
	case StatusDeclinedByUser:
		switch e {
		case EventCreateRequest:
			created.Effect = EffectReplace
			return created
		default:
			return conflict(proto.ErrDeclinedByUser)
		}
	case StatusDeclinedByCompany:
		switch e {
		case EventCreateRequest:
			return Decision{Effect: EffectReopen, Type: TypeRequest, Status: StatusRequested}
		default:
			created.Effect = EffectReplace
			return created
		}
	case StatusUnspecified:
	}

	return conflict(statusDisallows(*existing, e))
}

// Transition decides what an answer event does to an existing action.
func Transition(current Status, e Event) Decision {
	switch e {
	case EventAcceptInvite:
		if current == StatusInvited {
			return Decision{Effect: EffectAccept, Type: TypeInvite, Status: StatusAccepted}
		}
	case EventDeclineInvite:
		if current == StatusInvited {
			return Decision{Effect: EffectDecline, Type: TypeInvite, Status: StatusDeclinedByUser}
		}
	case EventCancelInvite:
		if current == StatusInvited {
			return Decision{Effect: EffectDelete, Type: TypeInvite}
		}
	case EventAcceptRequest:
		if current == StatusRequested {
			return Decision{Effect: EffectAccept, Type: TypeRequest, Status: StatusAccepted}
		}
	case EventDeclineRequest:
		if current == StatusRequested {
			return Decision{Effect: EffectDecline, Type: TypeRequest, Status: StatusDeclinedByCompany}
		}
	case EventCancelRequest:
		if current == StatusRequested {
			return Decision{Effect: EffectDelete, Type: TypeRequest}
		}
	case EventUnspecified, EventCreateInvite, EventCreateRequest:
	}

	return conflict(statusDisallows(current, e))
}
