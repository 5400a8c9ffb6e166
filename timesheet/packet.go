package timesheet

import (
	"sort"
)

// CustomerPacket is the unit of work of one rendered document.
type CustomerPacket struct {
	CustomerID   string      `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	ProjectIDs   []string    `json:"project_ids"`
	Rows         []ReportRow `json:"rows"`
	Recipients   []string    `json:"recipients,omitempty"`

	// Address holds postal lines below the customer name. When empty the
	// document shows the configured placeholder lines.
	Address []string `json:"address,omitempty"`
}

// Group is the rows of one classification, in input order.
type Group struct {
	Classification Classification
	Rows           []ReportRow
}

// Hours sums the hours of the group.
func (g Group) Hours() float64 {
	return SumHours(g.Rows)
}

// ByClassification groups the packet's rows by classification, in order of first
// appearance. Every row is in exactly one group.
func (p CustomerPacket) ByClassification() []Group {
	var groups []Group
	index := make(map[Classification]int)
	for _, r := range p.Rows {
		i, ok := index[r.Classification]
		if !ok {
			i = len(groups)
			index[r.Classification] = i
			groups = append(groups, Group{Classification: r.Classification})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// TotalHours sums the hours of all rows.
func (p CustomerPacket) TotalHours() float64 {
	return SumHours(p.Rows)
}

// SumHours sums the hours of rows.
func SumHours(rows []ReportRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Hours
	}
	return total
}

// GroupByCustomer builds one packet per customer, in order of first appearance.
// Project ids are deduplicated and sorted.
func GroupByCustomer(rows []ReportRow) []CustomerPacket {
	var packets []CustomerPacket
	index := make(map[string]int)
	projects := make(map[string]map[string]struct{})

	for _, r := range rows {
		i, ok := index[r.CustomerID]
		if !ok {
			i = len(packets)
			index[r.CustomerID] = i
			packets = append(packets, CustomerPacket{CustomerID: r.CustomerID, CustomerName: r.CustomerName})
			projects[r.CustomerID] = make(map[string]struct{})
		}
		packets[i].Rows = append(packets[i].Rows, r)
		if r.ProjectID != "" {
			projects[r.CustomerID][r.ProjectID] = struct{}{}
		}
	}

	for i := range packets {
		ids := make([]string, 0, len(projects[packets[i].CustomerID]))
		for id := range projects[packets[i].CustomerID] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		packets[i].ProjectIDs = ids
	}
	return packets
}

// FilterProjects keeps the rows booked on one of projectIDs. An empty filter keeps
// every row.
func FilterProjects(rows []ReportRow, projectIDs []string) []ReportRow {
	if len(projectIDs) == 0 {
		return rows
	}
	keep := make(map[string]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		keep[id] = struct{}{}
	}
	var out []ReportRow
	for _, r := range rows {
		if _, ok := keep[r.ProjectID]; ok {
			out = append(out, r)
		}
	}
	return out
}
