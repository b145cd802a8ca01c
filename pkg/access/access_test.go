package access

import (
	"testing"

	"github.com/matryer/is"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in  string
		out Role
	}{
		{"", -1},
		{"foo", -1},
		{OwnerRole.String(), OwnerRole},
		{AdminRole.String(), AdminRole},
		{UserRole.String(), UserRole},
		{NoRole.String(), NoRole},
		{"admin", AdminRole},
	}

	for _, c := range cases {
		out := ParseRole(c.in)
		if out != c.out {
			t.Errorf("ParseRole(%q) => %d, want %d", c.in, out, c.out)
		}
	}
}

func TestRoleScan(t *testing.T) {
	is := is.New(t)
	var r Role
	is.NoErr(r.Scan("ADMIN"))
	is.Equal(r, AdminRole)
	is.NoErr(r.Scan([]byte("OWNER")))
	is.Equal(r, OwnerRole)
	is.True(r.Scan(42) != nil)
	is.True(r.Scan("boss") != nil)

	v, err := UserRole.Value()
	is.NoErr(err)
	is.Equal(v, "USER")
}

func TestFor(t *testing.T) {
	cases := []struct {
		name string
		role Role
		self bool
		has  []Capability
		not  []Capability
	}{
		{
			name: "owner",
			role: OwnerRole,
			has:  []Capability{Invite, CancelInvite, AcceptRequest, DeclineRequest, Kick, Promote, ViewPending, ViewMembers, ManageQuizzes, ViewAnalytics, EditCompany, TakeQuizzes},
			not:  []Capability{Leave, AcceptInvite, CancelRequest},
		},
		{
			name: "admin",
			role: AdminRole,
			has:  []Capability{ViewPending, ViewMembers, ManageQuizzes, ViewAnalytics, TakeQuizzes, Leave},
			not:  []Capability{Invite, AcceptRequest, DeclineRequest, Kick, Promote, EditCompany},
		},
		{
			name: "user",
			role: UserRole,
			has:  []Capability{ViewMembers, TakeQuizzes, Leave},
			not:  []Capability{ViewPending, ManageQuizzes, ViewAnalytics, Kick},
		},
		{
			name: "outsider",
			role: NoRole,
			not:  []Capability{ViewMembers, TakeQuizzes, Leave, AcceptInvite},
		},
		{
			name: "invited outsider",
			role: NoRole,
			self: true,
			has:  []Capability{AcceptInvite, DeclineInvite, CancelRequest},
			not:  []Capability{ViewMembers},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			caps := For(c.role, c.self)
			for _, want := range c.has {
				if !caps.Has(want) {
					t.Errorf("For(%s, %t) => %s, missing %s", c.role, c.self, caps, want)
				}
			}
			for _, want := range c.not {
				if caps.Has(want) {
					t.Errorf("For(%s, %t) => %s, unexpected %s", c.role, c.self, caps, want)
				}
			}
		})
	}
}

func TestCapabilityString(t *testing.T) {
	is := is.New(t)
	is.Equal(Capability(0).String(), "none")
	is.Equal((Invite | Kick).String(), "invite|kick")
	is.True(!Capability(0).Has(0))
}
