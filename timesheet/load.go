package timesheet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidRow is returned for rows that cannot be reported.
var ErrInvalidRow = errors.New("timesheet: invalid row")

// Customer carries per-customer data that is not part of the rows.
type Customer struct {
	Address    []string `json:"address,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// Dataset is an exported timesheet: normalized rows plus optional customer data keyed
// by customer id.
type Dataset struct {
	Rows      []ReportRow         `json:"rows"`
	Customers map[string]Customer `json:"customers,omitempty"`
}

// Parse decodes a dataset. Both a bare JSON array of rows and an object with "rows"
// and "customers" are accepted.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &ds.Rows); err != nil {
			return nil, fmt.Errorf("timesheet: parsing rows: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &ds); err != nil {
		return nil, fmt.Errorf("timesheet: parsing dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Load reads and parses a dataset from r.
func Load(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("timesheet: reading dataset: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and parses the dataset stored at path.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("timesheet: %w", err)
	}
	return Parse(data)
}

// Validate rejects rows without a customer or date, and negative hours.
func (ds *Dataset) Validate() error {
	for i, r := range ds.Rows {
		switch {
		case r.CustomerID == "":
			return fmt.Errorf("%w: row %d has no customer id", ErrInvalidRow, i)
		case r.Date.IsZero():
			return fmt.Errorf("%w: row %d has no date", ErrInvalidRow, i)
		case r.Hours < 0:
			return fmt.Errorf("%w: row %d has negative hours %v", ErrInvalidRow, i, r.Hours)
		}
		if r.Classification == "" {
			ds.Rows[i].Classification = Support
		}
	}
	return nil
}

// Packets groups the rows by customer and attaches the customer data.
func (ds *Dataset) Packets() []CustomerPacket {
	packets := GroupByCustomer(ds.Rows)
	for i := range packets {
		if c, ok := ds.Customers[packets[i].CustomerID]; ok {
			packets[i].Address = c.Address
			packets[i].Recipients = c.Recipients
		}
	}
	return packets
}

// InWeek returns the rows dated inside w.
func (ds *Dataset) InWeek(w Week) []ReportRow {
	var out []ReportRow
	for _, r := range ds.Rows {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}
