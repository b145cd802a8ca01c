package access

import "strings"

// Capability is something a caller is allowed to do within a company.
type Capability uint32

const (
	// Invite allows inviting users.
	Invite Capability = 1 << iota
	// CancelInvite allows withdrawing a pending invite.
	CancelInvite
	// AcceptRequest allows accepting a join request.
	AcceptRequest
	// DeclineRequest allows declining a join request.
	DeclineRequest
	// Kick allows removing members.
	Kick
	// Promote allows granting and revoking the admin role.
	Promote
	// ViewPending allows listing pending invites and requests.
	ViewPending
	// ViewMembers allows listing members and admins.
	ViewMembers
	// ManageQuizzes allows creating, updating and deleting quizzes.
	ManageQuizzes
	// ViewAnalytics allows reading other members' results.
	ViewAnalytics
	// EditCompany allows editing and deleting the company.
	EditCompany
	// TakeQuizzes allows submitting quiz results.
	TakeQuizzes
	// Leave allows leaving the company.
	Leave
	// AcceptInvite allows the invited user to accept.
	AcceptInvite
	// DeclineInvite allows the invited user to decline.
	DeclineInvite
	// CancelRequest allows the requesting user to withdraw.
	CancelRequest
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{Invite, "invite"},
	{CancelInvite, "cancel-invite"},
	{AcceptRequest, "accept-request"},
	{DeclineRequest, "decline-request"},
	{Kick, "kick"},
	{Promote, "promote"},
	{ViewPending, "view-pending"},
	{ViewMembers, "view-members"},
	{ManageQuizzes, "manage-quizzes"},
	{ViewAnalytics, "view-analytics"},
	{EditCompany, "edit-company"},
	{TakeQuizzes, "take-quizzes"},
	{Leave, "leave"},
	{AcceptInvite, "accept-invite"},
	{DeclineInvite, "decline-invite"},
	{CancelRequest, "cancel-request"},
}

const (
	memberCaps = ViewMembers | TakeQuizzes
	adminCaps  = memberCaps | ViewPending | ManageQuizzes | ViewAnalytics
	ownerCaps  = adminCaps | Invite | CancelInvite | AcceptRequest |
		DeclineRequest | Kick | Promote | EditCompany
	subjectCaps = AcceptInvite | DeclineInvite | CancelRequest
)

// For returns the capabilities of a caller holding role in a company. self
// is true when the caller is the user a membership action targets.
func For(role Role, self bool) Capability {
	var c Capability
	switch role {
	case OwnerRole:
		c = ownerCaps
	case AdminRole:
		c = adminCaps | Leave
	case UserRole:
		c = memberCaps | Leave
	case NoRole:
	}

	if self {
		c |= subjectCaps
	}

	return c
}

// Has reports whether all of want are granted.
func (c Capability) Has(want Capability) bool {
	return want != 0 && c&want == want
}

// String returns the granted capabilities joined by "|".
func (c Capability) String() string {
	var names []string
	for _, n := range capabilityNames {
		if c&n.c != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
