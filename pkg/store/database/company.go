package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/store"
)

type companyStore struct{}

var _ store.CompanyStore = (*companyStore)(nil)

// CreateCompany implements store.CompanyStore.
func (s *companyStore) CreateCompany(ctx context.Context, h db.Handler, owner int64, name, description string, visible bool) (models.Company, error) {
	query := h.Rebind(`
		INSERT INTO
		  companies (owner_id, name, description, visible, updated_at)
		VALUES
		  (?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, owner, name, description, visible); err != nil {
		return models.Company{}, err
	}
	if _, err := s.AddCompanyMember(ctx, h, id, owner, access.OwnerRole); err != nil {
		return models.Company{}, err
	}

	return s.GetCompanyByID(ctx, h, id)
}

// GetCompanyByID implements store.CompanyStore.
func (*companyStore) GetCompanyByID(ctx context.Context, h db.Handler, id int64) (models.Company, error) {
	var m models.Company
	query := h.Rebind(`SELECT * FROM companies WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// ListCompanies implements store.CompanyStore.
func (*companyStore) ListCompanies(ctx context.Context, h db.Handler, user int64, page store.Page) ([]models.Company, error) {
	page = page.Normalize()
	var ms []models.Company
	query := h.Rebind(`
		SELECT
		  c.*
		FROM
		  companies c
		WHERE
		  c.visible = ?
		  OR EXISTS (
		    SELECT 1 FROM company_members cm
		    WHERE cm.company_id = c.id AND cm.user_id = ?
		  )
		ORDER BY
		  c.id
		LIMIT ? OFFSET ?;
	`)
	err := h.SelectContext(ctx, &ms, query, true, user, page.Limit, page.Offset)
	return ms, err
}

// UpdateCompany implements store.CompanyStore.
func (*companyStore) UpdateCompany(ctx context.Context, h db.Handler, id int64, name, description string, visible bool) error {
	query := h.Rebind(`
		UPDATE companies
		SET
		  name = ?,
		  description = ?,
		  visible = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?;
	`)
	return checkAffected(h.ExecContext(ctx, query, name, description, visible, id))
}

// DeleteCompanyByID implements store.CompanyStore. Children are deleted
// explicitly so the result doesn't depend on the foreign_keys pragma.
func (*companyStore) DeleteCompanyByID(ctx context.Context, h db.Handler, id int64) error {
	for _, query := range []string{
		`DELETE FROM results WHERE quiz_id IN (SELECT id FROM quizzes WHERE company_id = ?);`,
		`DELETE FROM questions WHERE quiz_id IN (SELECT id FROM quizzes WHERE company_id = ?);`,
		`DELETE FROM quizzes WHERE company_id = ?;`,
		`DELETE FROM actions WHERE company_id = ?;`,
		`DELETE FROM company_members WHERE company_id = ?;`,
	} {
		if _, err := h.ExecContext(ctx, h.Rebind(query), id); err != nil {
			return err
		}
	}

	query := h.Rebind(`DELETE FROM companies WHERE id = ?;`)
	return checkAffected(h.ExecContext(ctx, query, id))
}

// AddCompanyMember implements store.CompanyStore.
func (s *companyStore) AddCompanyMember(ctx context.Context, h db.Handler, company, user int64, role access.Role) (models.CompanyMember, error) {
	query := h.Rebind(`
		INSERT INTO
		  company_members (company_id, user_id, role, updated_at)
		VALUES
		  (?, ?, ?, CURRENT_TIMESTAMP);
	`)
	if _, err := h.ExecContext(ctx, query, company, user, role); err != nil {
		return models.CompanyMember{}, err
	}
	return s.GetCompanyMember(ctx, h, company, user)
}

// GetCompanyMember implements store.CompanyStore.
func (*companyStore) GetCompanyMember(ctx context.Context, h db.Handler, company, user int64) (models.CompanyMember, error) {
	var m models.CompanyMember
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  company_members
		WHERE
		  company_id = ?
		  AND user_id = ?;
	`)
	err := h.GetContext(ctx, &m, query, company, user)
	return m, err
}

// UpdateCompanyMemberRole implements store.CompanyStore.
func (*companyStore) UpdateCompanyMemberRole(ctx context.Context, h db.Handler, company, user int64, from, to access.Role) error {
	query := h.Rebind(`
		UPDATE company_members
		SET
		  role = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  company_id = ?
		  AND user_id = ?
		  AND role = ?;
	`)
	return checkAffected(h.ExecContext(ctx, query, to, company, user, from))
}

// RemoveCompanyMember implements store.CompanyStore.
func (*companyStore) RemoveCompanyMember(ctx context.Context, h db.Handler, company, user int64) error {
	query := h.Rebind(`
		DELETE FROM company_members
		WHERE
		  company_id = ?
		  AND user_id = ?;
	`)
	return checkAffected(h.ExecContext(ctx, query, company, user))
}

// IsCompanyOwner implements store.CompanyStore.
func (*companyStore) IsCompanyOwner(ctx context.Context, h db.Handler, company, user int64) (bool, error) {
	var count int
	query := h.Rebind(`
		SELECT
		  COUNT(*)
		FROM
		  company_members
		WHERE
		  company_id = ?
		  AND user_id = ?
		  AND role = ?;
	`)
	err := h.GetContext(ctx, &count, query, company, user, access.OwnerRole)
	return count > 0, err
}

// ListCompanyMembers implements store.CompanyStore.
func (*companyStore) ListCompanyMembers(ctx context.Context, h db.Handler, company int64, roles ...access.Role) ([]models.MemberEntry, error) {
	query := `
		SELECT
		  a.id AS action_id,
		  u.id AS user_id,
		  u.username,
		  cm.role
		FROM
		  company_members cm
		  JOIN users u ON u.id = cm.user_id
		  LEFT JOIN actions a ON a.company_id = cm.company_id AND a.user_id = cm.user_id
		WHERE
		  cm.company_id = ?`
	args := []interface{}{company}
	if len(roles) > 0 {
		in, inArgs, err := sqlx.In(` AND cm.role IN (?)`, roles)
		if err != nil {
			return nil, err
		}
		query += in
		args = append(args, inArgs...)
	}
	query += ` ORDER BY cm.id;`

	var ms []models.MemberEntry
	err := h.SelectContext(ctx, &ms, h.Rebind(query), args...)
	return ms, err
}
