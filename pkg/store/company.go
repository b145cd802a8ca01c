package store

import (
	"context"

	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
)

// CompanyStore is an interface for managing companies and their members.
type CompanyStore interface {
	// CreateCompany creates the company and its owner member.
	CreateCompany(ctx context.Context, h db.Handler, owner int64, name, description string, visible bool) (models.Company, error)
	GetCompanyByID(ctx context.Context, h db.Handler, id int64) (models.Company, error)
	// ListCompanies lists visible companies and the hidden ones user is a
	// member of.
	ListCompanies(ctx context.Context, h db.Handler, user int64, page Page) ([]models.Company, error)
	UpdateCompany(ctx context.Context, h db.Handler, id int64, name, description string, visible bool) error
	DeleteCompanyByID(ctx context.Context, h db.Handler, id int64) error

	AddCompanyMember(ctx context.Context, h db.Handler, company, user int64, role access.Role) (models.CompanyMember, error)
	GetCompanyMember(ctx context.Context, h db.Handler, company, user int64) (models.CompanyMember, error)
	// UpdateCompanyMemberRole changes the role only if it is currently from.
	UpdateCompanyMemberRole(ctx context.Context, h db.Handler, company, user int64, from, to access.Role) error
	RemoveCompanyMember(ctx context.Context, h db.Handler, company, user int64) error
	IsCompanyOwner(ctx context.Context, h db.Handler, company, user int64) (bool, error)
	// ListCompanyMembers lists members holding any of roles, or every
	// member when roles is empty.
	ListCompanyMembers(ctx context.Context, h db.Handler, company int64, roles ...access.Role) ([]models.MemberEntry, error)
}
