package backend

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/store"
)

func validateCompany(name, description string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return proto.Invalid("company name is required")
	case utf8.RuneCountInString(name) > 255:
		return proto.Invalid("company name must be at most 255 characters")
	case utf8.RuneCountInString(description) > 1000:
		return proto.Invalid("company description must be at most 1000 characters")
	}
	return nil
}

// company returns the company id or proto.ErrCompanyNotFound.
func (d *Backend) company(ctx context.Context, h db.Handler, id int64) (models.Company, error) {
	c, err := d.store.GetCompanyByID(ctx, h, id)
	if err != nil {
		return models.Company{}, notFound(err, proto.ErrCompanyNotFound)
	}
	return c, nil
}

// role returns the role of user in company, or access.NoRole when they are
// not a member.
func (d *Backend) role(ctx context.Context, h db.Handler, company, user int64) (access.Role, error) {
	m, err := d.store.GetCompanyMember(ctx, h, company, user)
	if err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return access.NoRole, nil
		}
		return access.NoRole, err
	}
	return m.Role, nil
}

// capabilities returns what caller may do in company.
func (d *Backend) capabilities(ctx context.Context, h db.Handler, company, caller int64, self bool) (access.Capability, access.Role, error) {
	r, err := d.role(ctx, h, company, caller)
	if err != nil {
		return 0, access.NoRole, err
	}
	return access.For(r, self), r, nil
}

// CreateCompany creates a company owned by caller.
func (d *Backend) CreateCompany(ctx context.Context, caller int64, name, description string, visible bool) (models.Company, error) {
	if err := validateCompany(name, description); err != nil {
		return models.Company{}, err
	}

	var c models.Company
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		c, err = d.store.CreateCompany(ctx, tx, caller, name, description, visible)
		return err
	})
	if err != nil {
		return models.Company{}, d.txError(err, "creating company", "owner", caller)
	}

	d.logger.Info("company created", "id", c.ID, "owner", caller)
	return c, nil
}

// Company returns a company visible to caller.
func (d *Backend) Company(ctx context.Context, caller, id int64) (models.Company, error) {
	c, err := d.company(ctx, d.db, id)
	if err != nil {
		return models.Company{}, err
	}

	if !c.Visible {
		caps, _, err := d.capabilities(ctx, d.db, id, caller, false)
		if err != nil {
			return models.Company{}, err
		}
		if !caps.Has(access.ViewMembers) {
			return models.Company{}, proto.ErrNotMember
		}
	}

	return c, nil
}

// Companies lists the companies visible to caller.
func (d *Backend) Companies(ctx context.Context, caller int64, page store.Page) ([]models.Company, error) {
	cs, err := d.store.ListCompanies(ctx, d.db, caller, page)
	if err != nil {
		d.logger.Error("error listing companies", "err", err)
		return nil, db.WrapError(err)
	}

	return cs, nil
}

// UpdateCompany edits a company.
func (d *Backend) UpdateCompany(ctx context.Context, caller, id int64, name, description string, visible bool) (models.Company, error) {
	if err := validateCompany(name, description); err != nil {
		return models.Company{}, err
	}

	var c models.Company
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, id); err != nil {
			return err
		}
		caps, _, err := d.capabilities(ctx, tx, id, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.EditCompany) {
			return proto.ErrNotOwner
		}
		if err := d.store.UpdateCompany(ctx, tx, id, name, description, visible); err != nil {
			return err
		}

		c, err = d.store.GetCompanyByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Company{}, d.txError(err, "updating company", "id", id)
	}

	return c, nil
}

// DeleteCompany deletes a company with its members, actions, quizzes, and
// results.
func (d *Backend) DeleteCompany(ctx context.Context, caller, id int64) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, id); err != nil {
			return err
		}
		caps, _, err := d.capabilities(ctx, tx, id, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.EditCompany) {
			return proto.ErrNotOwner
		}

		return d.store.DeleteCompanyByID(ctx, tx, id)
	})
	if err != nil {
		return d.txError(err, "deleting company", "id", id)
	}

	d.logger.Info("company deleted", "id", id, "by", caller)
	return nil
}
