package view

import (
	"strconv"
	"strings"

	"github.com/minisoc/socdash/sdk"
)

// EmptyMessage is the placeholder row text when there are no alerts.
const EmptyMessage = "No alerts detected yet. Upload or analyze a log file to get started."

// Columns are the alerts table headers, in display order.
var Columns = []string{"ID", "Timestamp", "Type", "Severity", "IP Address", "Description"}

// Row is one rendered alert.
type Row struct {
	ID            string
	Timestamp     string
	AlertType     string
	Severity      string
	SeverityClass string
	IPAddress     string
	Description   string
}

// Cells returns the row values in Columns order.
func (r Row) Cells() []string {
	return []string{r.ID, r.Timestamp, r.AlertType, r.Severity, r.IPAddress, r.Description}
}

// Table is the alerts table. When Empty is set the front end shows a single
// row spanning all columns with EmptyMessage.
type Table struct {
	Rows  []Row
	Empty bool
}

// BuildTable renders alerts in backend order.
func BuildTable(alerts []sdk.Alert) Table {
	if len(alerts) == 0 {
		return Table{Empty: true}
	}
	rows := make([]Row, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, Row{
			ID:            strconv.Itoa(a.ID),
			Timestamp:     a.Timestamp,
			AlertType:     a.AlertType,
			Severity:      a.Severity,
			SeverityClass: SeverityClass(a.Severity),
			IPAddress:     a.IPAddress,
			Description:   a.Description,
		})
	}
	return Table{Rows: rows}
}

// SeverityClass is the CSS class for a severity badge.
func SeverityClass(sev string) string {
	return "severity-" + strings.ToLower(sev)
}
