package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/membership"
	"github.com/quizhub/quizhub/pkg/proto"
)

type fixture struct {
	ctx     context.Context
	be      *Backend
	owner   models.User
	u       models.User
	v       models.User
	company models.Company
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx, be := setup(t)
	f := fixture{
		ctx:   ctx,
		be:    be,
		owner: mustUser(t, ctx, be, "owner"),
		u:     mustUser(t, ctx, be, "ursula"),
		v:     mustUser(t, ctx, be, "victor"),
	}

	var err error
	f.company, err = be.CreateCompany(ctx, f.owner.ID, "Acme", "anvils", true)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func (f fixture) members(t *testing.T) map[int64]access.Role {
	t.Helper()
	ms, err := f.be.CompanyMembers(f.ctx, f.owner.ID, f.company.ID)
	if err != nil {
		t.Fatal(err)
	}
	out := make(map[int64]access.Role, len(ms))
	for _, m := range ms {
		out[m.UserID] = m.Role
	}
	return out
}

func (f fixture) action(t *testing.T, user int64) *models.Action {
	t.Helper()
	a, err := f.be.findAction(f.ctx, f.be.db, f.company.ID, user)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestInviteAccept(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	a, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	is.Equal(a.Status, membership.StatusInvited)
	is.Equal(a.Type, membership.TypeInvite)

	invites, err := f.be.MyInvites(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(invites), 1)
	is.Equal(invites[0].ActionID, a.ID)

	pending, err := f.be.CompanyInvites(f.ctx, f.owner.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(len(pending), 1)
	is.Equal(pending[0].Username, "ursula")

	a, err = f.be.AcceptInvite(f.ctx, f.u.ID, a.ID)
	is.NoErr(err)
	is.Equal(a.Status, membership.StatusAccepted)
	is.Equal(f.members(t)[f.u.ID], access.UserRole)

	// Accepting twice fails and doesn't add a second member.
	_, err = f.be.AcceptInvite(f.ctx, f.u.ID, a.ID)
	is.True(errors.Is(err, proto.ErrConflict))
	is.Equal(len(f.members(t)), 2)

	invites, err = f.be.MyInvites(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(invites), 0)
}

func TestRequestMergesIntoInvite(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	inv, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.v.ID)
	is.NoErr(err)

	a, err := f.be.CreateRequest(f.ctx, f.v.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(a.ID, inv.ID)
	is.Equal(a.Status, membership.StatusAccepted)
	is.Equal(a.Type, membership.TypeInvite)
	is.Equal(f.members(t)[f.v.ID], access.UserRole)

	requests, err := f.be.MyRequests(f.ctx, f.v.ID)
	is.NoErr(err)
	is.Equal(len(requests), 0)
}

func TestInviteMergesIntoRequest(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	req, err := f.be.CreateRequest(f.ctx, f.u.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(req.Status, membership.StatusRequested)

	a, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	is.Equal(a.ID, req.ID)
	is.Equal(a.Status, membership.StatusAccepted)
	is.Equal(a.Type, membership.TypeRequest)
	is.Equal(len(f.members(t)), 2)
}

func TestDeclinedRequestReopens(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	req, err := f.be.CreateRequest(f.ctx, f.u.ID, f.company.ID)
	is.NoErr(err)

	requests, err := f.be.CompanyRequests(f.ctx, f.owner.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(len(requests), 1)

	a, err := f.be.DeclineRequest(f.ctx, f.owner.ID, req.ID)
	is.NoErr(err)
	is.Equal(a.Status, membership.StatusDeclinedByCompany)

	a, err = f.be.CreateRequest(f.ctx, f.u.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(a.ID, req.ID)
	is.Equal(a.Status, membership.StatusRequested)

	a, err = f.be.AcceptRequest(f.ctx, f.owner.ID, req.ID)
	is.NoErr(err)
	is.Equal(a.Status, membership.StatusAccepted)
	is.Equal(f.members(t)[f.u.ID], access.UserRole)
}

func TestReplaceDeclined(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	// A declined invite is replaced by a new request.
	inv, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	_, err = f.be.DeclineInvite(f.ctx, f.u.ID, inv.ID)
	is.NoErr(err)

	_, err = f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.Equal(err, proto.ErrDeclinedByUser)

	req, err := f.be.CreateRequest(f.ctx, f.u.ID, f.company.ID)
	is.NoErr(err)
	is.True(req.ID != inv.ID)
	is.Equal(req.Type, membership.TypeRequest)
	is.Equal(req.Status, membership.StatusRequested)

	// A declined request is replaced by a new invite.
	_, err = f.be.DeclineRequest(f.ctx, f.owner.ID, req.ID)
	is.NoErr(err)
	inv2, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	is.True(inv2.ID != req.ID)
	is.Equal(inv2.Type, membership.TypeInvite)
	is.Equal(inv2.Status, membership.StatusInvited)

	is.Equal(f.action(t, f.u.ID).ID, inv2.ID)
}

func TestDuplicates(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	_, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	_, err = f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.Equal(err, proto.ErrAlreadyInvited)

	_, err = f.be.CreateRequest(f.ctx, f.v.ID, f.company.ID)
	is.NoErr(err)
	_, err = f.be.CreateRequest(f.ctx, f.v.ID, f.company.ID)
	is.Equal(err, proto.ErrAlreadyRequested)

	// Members can't be invited and can't request.
	_, err = f.be.CreateRequest(f.ctx, f.owner.ID, f.company.ID)
	is.Equal(err, proto.ErrAlreadyInCompany)
	_, err = f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.v.ID)
	is.NoErr(err)
	_, err = f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.v.ID)
	is.Equal(err, proto.ErrAlreadyInCompany)
}

func TestSelfInvite(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	_, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.owner.ID)
	is.Equal(err, proto.ErrSelfInvite)
	is.True(f.action(t, f.owner.ID) == nil)
}

func TestGuards(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	_, err := f.be.CreateInvite(f.ctx, f.owner.ID, 999, f.u.ID)
	is.Equal(err, proto.ErrCompanyNotFound)
	_, err = f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, 999)
	is.Equal(err, proto.ErrUserNotFound)
	_, err = f.be.CreateInvite(f.ctx, f.u.ID, f.company.ID, f.v.ID)
	is.Equal(err, proto.ErrNotOwner)
	_, err = f.be.AcceptInvite(f.ctx, f.u.ID, 999)
	is.Equal(err, proto.ErrActionNotFound)

	inv, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	req, err := f.be.CreateRequest(f.ctx, f.v.ID, f.company.ID)
	is.NoErr(err)

	// Only the invited user may answer an invite.
	_, err = f.be.AcceptInvite(f.ctx, f.v.ID, inv.ID)
	is.Equal(err, proto.ErrNotSubject)
	_, err = f.be.DeclineInvite(f.ctx, f.owner.ID, inv.ID)
	is.Equal(err, proto.ErrNotSubject)

	// Only the owner may answer a request or cancel an invite.
	_, err = f.be.AcceptRequest(f.ctx, f.v.ID, req.ID)
	is.Equal(err, proto.ErrNotOwner)
	_, err = f.be.DeclineRequest(f.ctx, f.u.ID, req.ID)
	is.Equal(err, proto.ErrNotOwner)
	_, err = f.be.CancelInvite(f.ctx, f.u.ID, inv.ID)
	is.Equal(err, proto.ErrNotOwner)

	// Only the requester may cancel a request.
	_, err = f.be.CancelRequest(f.ctx, f.owner.ID, req.ID)
	is.Equal(err, proto.ErrNotSubject)

	// Actions are addressed by their type.
	_, err = f.be.AcceptInvite(f.ctx, f.v.ID, req.ID)
	is.Equal(err, proto.ErrActionNotFound)

	// Nothing changed.
	is.Equal(f.action(t, f.u.ID).Status, membership.StatusInvited)
	is.Equal(f.action(t, f.v.ID).Status, membership.StatusRequested)
	is.Equal(len(f.members(t)), 1)

	// Admins can see pending actions but can't answer them.
	_, err = f.be.AcceptInvite(f.ctx, f.u.ID, inv.ID)
	is.NoErr(err)
	is.NoErr(f.be.AddAdmin(f.ctx, f.owner.ID, f.company.ID, f.u.ID))
	_, err = f.be.CompanyRequests(f.ctx, f.u.ID, f.company.ID)
	is.NoErr(err)
	_, err = f.be.AcceptRequest(f.ctx, f.u.ID, req.ID)
	is.Equal(err, proto.ErrNotOwner)
	is.Equal(f.be.KickMember(f.ctx, f.u.ID, f.company.ID, f.owner.ID), proto.ErrNotOwner)

	_, err = f.be.CompanyRequests(f.ctx, f.v.ID, f.company.ID)
	is.Equal(err, proto.ErrNotPermitted)
}

func TestCancel(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	inv, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	_, err = f.be.CancelInvite(f.ctx, f.owner.ID, inv.ID)
	is.NoErr(err)
	is.True(f.action(t, f.u.ID) == nil)

	req, err := f.be.CreateRequest(f.ctx, f.v.ID, f.company.ID)
	is.NoErr(err)
	_, err = f.be.CancelRequest(f.ctx, f.v.ID, req.ID)
	is.NoErr(err)
	is.True(f.action(t, f.v.ID) == nil)

	_, err = f.be.CancelRequest(f.ctx, f.v.ID, req.ID)
	is.Equal(err, proto.ErrActionNotFound)

	// Answered actions can't be cancelled.
	inv, err = f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	_, err = f.be.DeclineInvite(f.ctx, f.u.ID, inv.ID)
	is.NoErr(err)
	_, err = f.be.CancelInvite(f.ctx, f.owner.ID, inv.ID)
	is.True(errors.Is(err, proto.ErrConflict))
}

func TestLeaveAndKick(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	inv, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	_, err = f.be.AcceptInvite(f.ctx, f.u.ID, inv.ID)
	is.NoErr(err)

	ms, err := f.be.CompanyMembers(f.ctx, f.u.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(len(ms), 2)
	for _, m := range ms {
		if m.UserID == f.u.ID {
			is.Equal(m.ActionID.Int64, inv.ID)
		} else {
			is.True(!m.ActionID.Valid)
		}
	}

	is.NoErr(f.be.LeaveCompany(f.ctx, f.u.ID, f.company.ID))
	_, ok := f.members(t)[f.u.ID]
	is.True(!ok)
	is.True(f.action(t, f.u.ID) == nil)

	is.Equal(f.be.LeaveCompany(f.ctx, f.u.ID, f.company.ID), proto.ErrNotMember)
	is.Equal(f.be.LeaveCompany(f.ctx, f.owner.ID, f.company.ID), proto.ErrOwnerCannotLeave)

	// The user can be invited again after leaving.
	inv, err = f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	_, err = f.be.AcceptInvite(f.ctx, f.u.ID, inv.ID)
	is.NoErr(err)

	is.Equal(f.be.KickMember(f.ctx, f.v.ID, f.company.ID, f.u.ID), proto.ErrNotOwner)
	is.Equal(f.be.KickMember(f.ctx, f.owner.ID, f.company.ID, f.owner.ID), proto.ErrCannotKickOwner)
	is.Equal(f.be.KickMember(f.ctx, f.owner.ID, f.company.ID, f.v.ID), proto.ErrMemberNotFound)
	is.NoErr(f.be.KickMember(f.ctx, f.owner.ID, f.company.ID, f.u.ID))
	is.Equal(len(f.members(t)), 1)
	is.True(f.action(t, f.u.ID) == nil)
}

func TestAdmins(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	is.Equal(f.be.AddAdmin(f.ctx, f.owner.ID, f.company.ID, f.u.ID), proto.ErrMemberNotFound)

	req, err := f.be.CreateRequest(f.ctx, f.u.ID, f.company.ID)
	is.NoErr(err)
	_, err = f.be.AcceptRequest(f.ctx, f.owner.ID, req.ID)
	is.NoErr(err)

	is.Equal(f.be.RemoveAdmin(f.ctx, f.owner.ID, f.company.ID, f.u.ID), proto.ErrNotAdmin)
	is.Equal(f.be.AddAdmin(f.ctx, f.u.ID, f.company.ID, f.u.ID), proto.ErrNotOwner)
	is.NoErr(f.be.AddAdmin(f.ctx, f.owner.ID, f.company.ID, f.u.ID))
	is.Equal(f.be.AddAdmin(f.ctx, f.owner.ID, f.company.ID, f.u.ID), proto.ErrAlreadyAdmin)

	admins, err := f.be.CompanyAdmins(f.ctx, f.owner.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(len(admins), 1)
	is.Equal(admins[0].UserID, f.u.ID)

	err = f.be.AddAdmin(f.ctx, f.owner.ID, f.company.ID, f.owner.ID)
	is.True(errors.Is(err, proto.ErrConflict))

	is.NoErr(f.be.RemoveAdmin(f.ctx, f.owner.ID, f.company.ID, f.u.ID))
	is.Equal(f.members(t)[f.u.ID], access.UserRole)
}

func TestHiddenCompanyMembers(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	c, err := f.be.UpdateCompany(f.ctx, f.owner.ID, f.company.ID, "Acme", "hidden anvils", false)
	is.NoErr(err)
	is.True(!c.Visible)

	_, err = f.be.CompanyMembers(f.ctx, f.u.ID, f.company.ID)
	is.Equal(err, proto.ErrNotMember)
	_, err = f.be.Company(f.ctx, f.u.ID, f.company.ID)
	is.Equal(err, proto.ErrNotMember)

	ms, err := f.be.CompanyMembers(f.ctx, f.owner.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(len(ms), 1)
	is.Equal(ms[0].Role, access.OwnerRole)
}
