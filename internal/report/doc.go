// Package report renders run results and stored records.
//
// Run results are exported as JSON or CSV files. Records and results are
// shown in the terminal as markdown tables, and records are converted to
// the HTML body of the notification email.
package report
