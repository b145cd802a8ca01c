package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Quiz represents a company quiz.
type Quiz struct {
	ID            int64     `db:"id"`
	CompanyID     int64     `db:"company_id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	FrequencyDays int       `db:"frequency_days"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Question is a quiz question.
type Question struct {
	ID             int64      `db:"id"`
	QuizID         int64      `db:"quiz_id"`
	Text           string     `db:"text"`
	Options        StringList `db:"options"`
	CorrectAnswers StringList `db:"correct_answers"`
}

// StringList is a list of strings stored as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	bts, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(bts), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var bts []byte
	switch v := src.(type) {
	case string:
		bts = []byte(v)
	case []byte:
		bts = v
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported string list type %T", src)
	}
	return json.Unmarshal(bts, (*[]string)(l))
}
