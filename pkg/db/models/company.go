package models

import (
	"database/sql"
	"time"

	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/membership"
)

// Company represents a company.
type Company struct {
	ID          int64     `db:"id"`
	OwnerID     int64     `db:"owner_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Visible     bool      `db:"visible"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CompanyMember is the materialized relationship between a user and a
// company.
type CompanyMember struct {
	ID        int64       `db:"id"`
	UserID    int64       `db:"user_id"`
	CompanyID int64       `db:"company_id"`
	Role      access.Role `db:"role"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// Action is a company membership action: one invite or join request.
type Action struct {
	ID        int64             `db:"id"`
	UserID    int64             `db:"user_id"`
	CompanyID int64             `db:"company_id"`
	Status    membership.Status `db:"status"`
	Type      membership.Type   `db:"type"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
}

// ActionEntry is an action joined with its user.
type ActionEntry struct {
	ActionID  int64  `db:"action_id"`
	UserID    int64  `db:"user_id"`
	Username  string `db:"username"`
	CompanyID int64  `db:"company_id"`
}

// MemberEntry is a company member joined with its user and, when the user
// joined through an invite or request, its action.
type MemberEntry struct {
	ActionID sql.NullInt64 `db:"action_id"`
	UserID   int64         `db:"user_id"`
	Username string        `db:"username"`
	Role     access.Role   `db:"role"`
}
