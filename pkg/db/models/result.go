package models

import "time"

// Result is a quiz submission by a company member.
type Result struct {
	ID              int64     `db:"id"`
	QuizID          int64     `db:"quiz_id"`
	CompanyMemberID int64     `db:"company_member_id"`
	Score           float64   `db:"score"`
	TotalQuestions  int       `db:"total_questions"`
	CorrectAnswers  int       `db:"correct_answers"`
	CreatedAt       time.Time `db:"created_at"`
}

// MemberResult is a result joined with its member and quiz.
type MemberResult struct {
	Result
	UserID        int64  `db:"user_id"`
	CompanyID     int64  `db:"company_id"`
	QuizName      string `db:"quiz_name"`
	FrequencyDays int    `db:"frequency_days"`
}

// MemberAverage is the mean score of a member in a company.
type MemberAverage struct {
	UserID   int64   `db:"user_id"`
	Username string  `db:"username"`
	Average  float64 `db:"average"`
	Count    int     `db:"count"`
}

// MemberLastResult is the last submission of a member in a company.
type MemberLastResult struct {
	UserID   int64     `db:"user_id"`
	Username string    `db:"username"`
	LastAt   time.Time `db:"last_at"`
}

// Notification is a message for a user.
type Notification struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"text"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}
