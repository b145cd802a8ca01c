// Package store defines the persistence gateways used by the backend. Every
// method takes a db.Handler so callers decide whether it runs inside a
// transaction.
package store

// Store is an interface for managing users, companies, membership actions,
// quizzes, results, and notifications.
type Store interface {
	UserStore
	CompanyStore
	ActionStore
	QuizStore
	ResultStore
	NotificationStore
}

// DefaultPageSize is used when a Page has no limit.
const DefaultPageSize = 50

// Page selects a window of a listing.
type Page struct {
	Offset int
	Limit  int
}

// Normalize returns the page with defaults applied.
func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	return p
}
