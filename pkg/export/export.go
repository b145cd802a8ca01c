// Package export renders quiz answer ledger records as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Format is an export file format.
type Format int

const (
	// JSON renders records as an indented JSON array.
	JSON Format = iota
	// CSV renders one row per answered question.
	CSV
)

// ErrUnknownFormat is returned for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat parses a format name. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case CSV:
		return "csv"
	}
	return ""
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv"
	}
	return "application/json"
}

// Filename returns the attachment name used for downloads.
func (f Format) Filename() string {
	return "quiz_results." + f.String()
}

// Answer is a single answered question.
type Answer struct {
	Question   string   `json:"question"`
	UserAnswer []string `json:"user_answer"`
	IsCorrect  bool     `json:"is_correct"`
}

// Record is the ledger entry written for every submitted result.
type Record struct {
	UserID    int64     `json:"user_id"`
	CompanyID int64     `json:"company_id"`
	QuizID    int64     `json:"quiz_id"`
	ResultID  int64     `json:"result_id"`
	Questions []Answer  `json:"questions"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the cache key of a ledger record.
func Key(companyID, userID, quizID, resultID int64) string {
	return fmt.Sprintf("result:%d:%d:%d:%d", companyID, userID, quizID, resultID)
}

// Pattern returns a glob matching ledger keys. Zero ids match anything.
func Pattern(companyID, userID int64) string {
	part := func(id int64) string {
		if id == 0 {
			return "*"
		}
		return strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("result:%s:%s:*:*", part(companyID), part(userID))
}

// CSVHeader lists the CSV columns.
var CSVHeader = []string{"user_id", "company_id", "quiz_id", "question", "answer", "is_true"}

// Write renders records to w.
func Write(w io.Writer, f Format, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case CSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(CSVHeader); err != nil {
			return err
		}
		for _, r := range records {
			for _, a := range r.Questions {
				row := []string{
					strconv.FormatInt(r.UserID, 10),
					strconv.FormatInt(r.CompanyID, 10),
					strconv.FormatInt(r.QuizID, 10),
					a.Question,
					strings.Join(a.UserAnswer, ";"),
					strconv.FormatBool(a.IsCorrect),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		cw.Flush()
		return cw.Error()
	}

	return ErrUnknownFormat
}
