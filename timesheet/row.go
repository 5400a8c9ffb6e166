// Package timesheet holds the normalized input of the weekly report: timesheet rows,
// their grouping into customer packets, and the reporting week they belong to.
package timesheet

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day without time of day or location.
type Date struct {
	time.Time
}

// NewDate returns the date of t in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in DateLayout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("timesheet: invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats d in DateLayout.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timesheet: date must be a string: %w", err)
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Classification is the work category of a row.
type Classification string

const (
	Service Classification = "Service"
	Support Classification = "Support"
	Kulanz  Classification = "Kulanz"
)

// NormalizeClassification maps a raw category to a Classification. Unknown values are
// treated as Support.
func NormalizeClassification(raw string) Classification {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "service":
		return Service
	case "support":
		return Support
	case "kulanz", "goodwill":
		return Kulanz
	}
	return Support
}

// UnmarshalJSON normalizes the classification while decoding.
func (c *Classification) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*c = NormalizeClassification(s)
	return nil
}

// TaskStatus is the state of the task a row was booked on.
type TaskStatus string

const (
	StatusDone       TaskStatus = "done"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusUnclear    TaskStatus = "unclear"
)

var taskStatuses = map[string]TaskStatus{
	"erledigt":       StatusDone,
	"done":           StatusDone,
	"fertig":         StatusDone,
	"abgeschlossen":  StatusDone,
	"closed":         StatusDone,
	"blockiert":      StatusBlocked,
	"blocked":        StatusBlocked,
	"wartend":        StatusBlocked,
	"waiting":        StatusBlocked,
	"on hold":        StatusBlocked,
	"in bearbeitung": StatusInProgress,
	"entwicklung":    StatusInProgress,
	"in progress":    StatusInProgress,
	"in_progress":    StatusInProgress,
	"bearbeitung":    StatusInProgress,
	"unklar":         StatusUnclear,
	"unclear":        StatusUnclear,
}

// NormalizeTaskStatus maps a task stage name, German or English, to a TaskStatus.
// Unknown stages count as in progress.
func NormalizeTaskStatus(raw string) TaskStatus {
	if s, ok := taskStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusInProgress
}

// UnmarshalJSON normalizes the status while decoding.
func (s *TaskStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = NormalizeTaskStatus(raw)
	return nil
}

// ReportRow is one timesheet entry of the weekly report.
type ReportRow struct {
	WorklogID      int            `json:"worklog_id"`
	Date           Date           `json:"date"`
	TaskID         int            `json:"task_id"`
	TaskName       string         `json:"task_name"`
	TaskURL        string         `json:"task_url,omitempty"`
	User           string         `json:"user"`
	Hours          float64        `json:"hours"`
	Classification Classification `json:"classification"`
	TaskStatus     TaskStatus     `json:"task_status"`
	CustomerID     string         `json:"customer_id"`
	CustomerName   string         `json:"customer_name"`
	ProjectID      string         `json:"project_id"`
	ProjectName    string         `json:"project_name"`
	Description    string         `json:"description,omitempty"`
}

// FormatHours formats hours with one decimal and an "h" suffix.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}
