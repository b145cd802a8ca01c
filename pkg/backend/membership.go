package backend

import (
	"context"
	"errors"

	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/membership"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/stats"
)

// findAction returns the action of user in company, or nil when there is
// none.
func (d *Backend) findAction(ctx context.Context, h db.Handler, company, user int64) (*models.Action, error) {
	a, err := d.store.FindAction(ctx, h, company, user)
	if err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// apply performs a membership decision on the action row of user in
// company. existing is nil when no row exists.
func (d *Backend) apply(ctx context.Context, tx *db.Tx, dec membership.Decision, existing *models.Action, company, user int64) (models.Action, error) {
	switch dec.Effect {
	case membership.EffectCreateNew:
		return d.store.CreateAction(ctx, tx, company, user, dec.Type, dec.Status)
	case membership.EffectReplace:
		if err := d.store.DeleteActionByID(ctx, tx, existing.ID); err != nil {
			return models.Action{}, err
		}
		return d.store.CreateAction(ctx, tx, company, user, dec.Type, dec.Status)
	case membership.EffectReopen, membership.EffectDecline:
		if err := d.store.UpdateActionStatus(ctx, tx, existing.ID, existing.Status, dec.Status); err != nil {
			return models.Action{}, err
		}
	case membership.EffectAccept, membership.EffectMergeAccept:
		if err := d.store.UpdateActionStatus(ctx, tx, existing.ID, existing.Status, dec.Status); err != nil {
			return models.Action{}, err
		}
		if _, err := d.store.AddCompanyMember(ctx, tx, company, user, access.UserRole); err != nil {
			if errors.Is(db.WrapError(err), db.ErrDuplicateKey) {
				return models.Action{}, proto.ErrAlreadyInCompany
			}
			return models.Action{}, err
		}
	case membership.EffectDelete:
		if err := d.store.DeleteActionByID(ctx, tx, existing.ID); err != nil {
			return models.Action{}, err
		}
		return *existing, nil
	case membership.EffectRejectConflict, membership.EffectRejectForbidden:
		return models.Action{}, dec.Err()
	case membership.EffectUnspecified:
		return models.Action{}, proto.Conflict("no membership change to apply")
	}

	return d.store.GetActionByID(ctx, tx, existing.ID)
}

func (d *Backend) recordEvent(e membership.Event, dec membership.Decision, err error) {
	if err != nil {
		stats.MembershipRejections.WithLabelValues(e.String(), proto.KindOf(err).String()).Inc()
		return
	}
	stats.MembershipTransitions.WithLabelValues(e.String(), dec.Effect.String()).Inc()
}

// forbidden returns the error for a caller lacking the capability e needs.
func forbidden(e membership.Event) error {
	switch e {
	case membership.EventAcceptInvite, membership.EventDeclineInvite, membership.EventCancelRequest:
		return proto.ErrNotSubject
	case membership.EventCreateInvite, membership.EventCancelInvite,
		membership.EventAcceptRequest, membership.EventDeclineRequest:
		return proto.ErrNotOwner
	case membership.EventCreateRequest, membership.EventUnspecified:
	}
	return proto.ErrNotPermitted
}

// CreateInvite invites user to company. An open request from the user is
// accepted instead.
func (d *Backend) CreateInvite(ctx context.Context, caller, company, user int64) (models.Action, error) {
	e := membership.EventCreateInvite
	var dec membership.Decision
	var a models.Action
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, company); err != nil {
			return err
		}
		if _, err := d.store.GetUserByID(ctx, tx, user); err != nil {
			return notFound(err, proto.ErrUserNotFound)
		}

		caps, _, err := d.capabilities(ctx, tx, company, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(e.Requires()) {
			return forbidden(e)
		}
		if user == caller {
			return proto.ErrSelfInvite
		}

		r, err := d.role(ctx, tx, company, user)
		if err != nil {
			return err
		}
		if r != access.NoRole {
			return proto.ErrAlreadyInCompany
		}

		existing, err := d.findAction(ctx, tx, company, user)
		if err != nil {
			return err
		}
		var status *membership.Status
		if existing != nil {
			status = &existing.Status
		}

		dec = membership.Resolve(status, e)
		if err := dec.Err(); err != nil {
			return err
		}

		a, err = d.apply(ctx, tx, dec, existing, company, user)
		return err
	})
	d.recordEvent(e, dec, err)
	if err != nil {
		return models.Action{}, d.txError(err, "creating invite", "company", company, "user", user)
	}

	d.logger.Info("invite created", "company", company, "user", user, "effect", dec.Effect)
	return a, nil
}

// CreateRequest asks for caller to join company. An open invite for the
// caller is accepted instead.
func (d *Backend) CreateRequest(ctx context.Context, caller, company int64) (models.Action, error) {
	e := membership.EventCreateRequest
	var dec membership.Decision
	var a models.Action
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, company); err != nil {
			return err
		}

		r, err := d.role(ctx, tx, company, caller)
		if err != nil {
			return err
		}
		if r != access.NoRole {
			return proto.ErrAlreadyInCompany
		}

		existing, err := d.findAction(ctx, tx, company, caller)
		if err != nil {
			return err
		}
		var status *membership.Status
		if existing != nil {
			status = &existing.Status
		}

		dec = membership.Resolve(status, e)
		if err := dec.Err(); err != nil {
			return err
		}

		a, err = d.apply(ctx, tx, dec, existing, company, caller)
		return err
	})
	d.recordEvent(e, dec, err)
	if err != nil {
		return models.Action{}, d.txError(err, "creating request", "company", company, "user", caller)
	}

	d.logger.Info("request created", "company", company, "user", caller, "effect", dec.Effect)
	return a, nil
}

// answer applies an accept, decline, or cancel event to the action id of
// type typ.
func (d *Backend) answer(ctx context.Context, caller, id int64, typ membership.Type, e membership.Event) (models.Action, error) {
	var dec membership.Decision
	var a models.Action
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		a, err = d.store.GetActionByID(ctx, tx, id)
		if err != nil {
			return notFound(err, proto.ErrActionNotFound)
		}
		if a.Type != typ {
			return proto.ErrActionNotFound
		}

		caps, _, err := d.capabilities(ctx, tx, a.CompanyID, caller, a.UserID == caller)
		if err != nil {
			return err
		}
		if !caps.Has(e.Requires()) {
			return forbidden(e)
		}

		dec = membership.Transition(a.Status, e)
		if err := dec.Err(); err != nil {
			return err
		}

		a, err = d.apply(ctx, tx, dec, &a, a.CompanyID, a.UserID)
		return err
	})
	d.recordEvent(e, dec, err)
	if err != nil {
		return models.Action{}, d.txError(err, "answering action", "id", id, "event", e)
	}

	d.logger.Info("action answered", "id", id, "event", e, "effect", dec.Effect)
	return a, nil
}

// AcceptInvite accepts an invite addressed to caller.
func (d *Backend) AcceptInvite(ctx context.Context, caller, id int64) (models.Action, error) {
	return d.answer(ctx, caller, id, membership.TypeInvite, membership.EventAcceptInvite)
}

// DeclineInvite declines an invite addressed to caller.
func (d *Backend) DeclineInvite(ctx context.Context, caller, id int64) (models.Action, error) {
	return d.answer(ctx, caller, id, membership.TypeInvite, membership.EventDeclineInvite)
}

// CancelInvite withdraws a pending invite. Only the owner may do this.
func (d *Backend) CancelInvite(ctx context.Context, caller, id int64) (models.Action, error) {
	return d.answer(ctx, caller, id, membership.TypeInvite, membership.EventCancelInvite)
}

// AcceptRequest accepts a join request.
func (d *Backend) AcceptRequest(ctx context.Context, caller, id int64) (models.Action, error) {
	return d.answer(ctx, caller, id, membership.TypeRequest, membership.EventAcceptRequest)
}

// DeclineRequest declines a join request.
func (d *Backend) DeclineRequest(ctx context.Context, caller, id int64) (models.Action, error) {
	return d.answer(ctx, caller, id, membership.TypeRequest, membership.EventDeclineRequest)
}

// CancelRequest withdraws caller's pending join request.
func (d *Backend) CancelRequest(ctx context.Context, caller, id int64) (models.Action, error) {
	return d.answer(ctx, caller, id, membership.TypeRequest, membership.EventCancelRequest)
}

// removeMember deletes the member row and the action row of user.
func (d *Backend) removeMember(ctx context.Context, tx *db.Tx, company, user int64) error {
	if err := d.store.RemoveCompanyMember(ctx, tx, company, user); err != nil {
		return err
	}
	return d.store.DeleteAction(ctx, tx, company, user)
}

// LeaveCompany removes caller from company.
func (d *Backend) LeaveCompany(ctx context.Context, caller, company int64) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, company); err != nil {
			return err
		}

		caps, r, err := d.capabilities(ctx, tx, company, caller, false)
		if err != nil {
			return err
		}
		if r == access.NoRole {
			return proto.ErrNotMember
		}
		if !caps.Has(access.Leave) {
			return proto.ErrOwnerCannotLeave
		}

		return d.removeMember(ctx, tx, company, caller)
	})
	if err != nil {
		return d.txError(err, "leaving company", "company", company, "user", caller)
	}

	d.logger.Info("member left", "company", company, "user", caller)
	return nil
}

// KickMember removes user from company.
func (d *Backend) KickMember(ctx context.Context, caller, company, user int64) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, company); err != nil {
			return err
		}

		caps, _, err := d.capabilities(ctx, tx, company, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.Kick) {
			return proto.ErrNotOwner
		}

		r, err := d.role(ctx, tx, company, user)
		if err != nil {
			return err
		}
		switch r {
		case access.NoRole:
			return proto.ErrMemberNotFound
		case access.OwnerRole:
			return proto.ErrCannotKickOwner
		case access.UserRole, access.AdminRole:
		}

		return d.removeMember(ctx, tx, company, user)
	})
	if err != nil {
		return d.txError(err, "kicking member", "company", company, "user", user)
	}

	d.logger.Info("member kicked", "company", company, "user", user, "by", caller)
	return nil
}

// setAdmin moves user between the user and admin roles.
func (d *Backend) setAdmin(ctx context.Context, caller, company, user int64, admin bool) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, company); err != nil {
			return err
		}

		caps, _, err := d.capabilities(ctx, tx, company, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.Promote) {
			return proto.ErrNotOwner
		}

		r, err := d.role(ctx, tx, company, user)
		if err != nil {
			return err
		}

		from, to := access.UserRole, access.AdminRole
		if !admin {
			from, to = to, from
		}

		switch r {
		case access.NoRole:
			return proto.ErrMemberNotFound
		case access.OwnerRole:
			return proto.Conflict("the owner role cannot be changed")
		case access.AdminRole:
			if admin {
				return proto.ErrAlreadyAdmin
			}
		case access.UserRole:
			if !admin {
				return proto.ErrNotAdmin
			}
		}

		return d.store.UpdateCompanyMemberRole(ctx, tx, company, user, from, to)
	})
	if err != nil {
		return d.txError(err, "changing member role", "company", company, "user", user)
	}

	d.logger.Info("member role changed", "company", company, "user", user, "admin", admin)
	return nil
}

// AddAdmin promotes a member to admin.
func (d *Backend) AddAdmin(ctx context.Context, caller, company, user int64) error {
	return d.setAdmin(ctx, caller, company, user, true)
}

// RemoveAdmin demotes an admin to a regular member.
func (d *Backend) RemoveAdmin(ctx context.Context, caller, company, user int64) error {
	return d.setAdmin(ctx, caller, company, user, false)
}

// companyActions lists the actions of company with status. The caller must
// be able to view pending actions.
func (d *Backend) companyActions(ctx context.Context, caller, company int64, status membership.Status) ([]models.ActionEntry, error) {
	var es []models.ActionEntry
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, company); err != nil {
			return err
		}

		caps, _, err := d.capabilities(ctx, tx, company, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.ViewPending) {
			return proto.ErrNotPermitted
		}

		es, err = d.store.ListCompanyActions(ctx, tx, company, status)
		return err
	})
	if err != nil {
		return nil, d.txError(err, "listing company actions", "company", company)
	}

	return es, nil
}

// CompanyInvites lists the pending invites of company.
func (d *Backend) CompanyInvites(ctx context.Context, caller, company int64) ([]models.ActionEntry, error) {
	return d.companyActions(ctx, caller, company, membership.StatusInvited)
}

// CompanyRequests lists the pending join requests of company.
func (d *Backend) CompanyRequests(ctx context.Context, caller, company int64) ([]models.ActionEntry, error) {
	return d.companyActions(ctx, caller, company, membership.StatusRequested)
}

// companyMembers lists members of company holding any of roles. Hidden
// companies only show their members to members.
func (d *Backend) companyMembers(ctx context.Context, caller, company int64, roles ...access.Role) ([]models.MemberEntry, error) {
	var es []models.MemberEntry
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		c, err := d.company(ctx, tx, company)
		if err != nil {
			return err
		}

		if !c.Visible {
			caps, _, err := d.capabilities(ctx, tx, company, caller, false)
			if err != nil {
				return err
			}
			if !caps.Has(access.ViewMembers) {
				return proto.ErrNotMember
			}
		}

		es, err = d.store.ListCompanyMembers(ctx, tx, company, roles...)
		return err
	})
	if err != nil {
		return nil, d.txError(err, "listing company members", "company", company)
	}

	return es, nil
}

// CompanyMembers lists every member of company.
func (d *Backend) CompanyMembers(ctx context.Context, caller, company int64) ([]models.MemberEntry, error) {
	return d.companyMembers(ctx, caller, company)
}

// CompanyAdmins lists the admins of company.
func (d *Backend) CompanyAdmins(ctx context.Context, caller, company int64) ([]models.MemberEntry, error) {
	return d.companyMembers(ctx, caller, company, access.AdminRole)
}

func (d *Backend) userActions(ctx context.Context, caller int64, status membership.Status) ([]models.ActionEntry, error) {
	es, err := d.store.ListUserActions(ctx, d.db, caller, status)
	if err != nil {
		d.logger.Error("error listing user actions", "user", caller, "err", err)
		return nil, db.WrapError(err)
	}
	return es, nil
}

// MyInvites lists the pending invites addressed to caller.
func (d *Backend) MyInvites(ctx context.Context, caller int64) ([]models.ActionEntry, error) {
	return d.userActions(ctx, caller, membership.StatusInvited)
}

// MyRequests lists caller's pending join requests.
func (d *Backend) MyRequests(ctx context.Context, caller int64) ([]models.ActionEntry, error) {
	return d.userActions(ctx, caller, membership.StatusRequested)
}
