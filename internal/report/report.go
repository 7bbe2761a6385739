// Package report prints the dashboard's table and customer summary to a terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"txboard/internal/core"
)

// SeriesHeader labels the per-date total column.
const SeriesHeader = "Total Transaction Amount"

// Format selects the table style.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "text" and "markdown"; empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

func newTable(w io.Writer, format Format) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	if format == FormatMarkdown {
		table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		table.SetCenterSeparator("|")
	}
	return table
}

// WriteTransactions prints one line per row followed by the status message for
// viewSize, the number of transactions in the filtered view.
func WriteTransactions(w io.Writer, rows []core.Row, viewSize int, format Format) error {
	table := newTable(w, format)
	table.SetHeader([]string{"Customer", "Date", "Amount"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, r := range rows {
		table.Append([]string{r.Customer.Name, r.Transaction.Date, core.FormatAmount(r.Transaction.Amount)})
	}
	table.Render()

	_, err := fmt.Fprintln(w, core.StatusMessage(viewSize))
	return err
}

// WriteAggregate prints a customer's per-date totals with the overall totals as footer.
func WriteAggregate(w io.Writer, agg core.Aggregate, format Format) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", agg.Customer.Name, agg.Customer.ID); err != nil {
		return err
	}

	table := newTable(w, format)
	table.SetHeader([]string{"Date", SeriesHeader})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, p := range agg.Series {
		table.Append([]string{p.Date, core.FormatAmount(p.Amount)})
	}
	if format != FormatMarkdown {
		table.SetFooter([]string{strconv.Itoa(agg.TotalCount) + " transactions", core.FormatAmount(agg.TotalAmount)})
	}
	table.Render()

	_, err := fmt.Fprintf(w, "Total Amount: %s\nTotal Transactions: %d\n",
		core.FormatAmount(agg.TotalAmount), agg.TotalCount)
	return err
}
