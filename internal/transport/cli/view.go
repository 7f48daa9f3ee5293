package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/shopspring/decimal"
)

const noDataSentinel = "—"

// View renders the service's output to the terminal. It is the CLI
// stand-in for the web dashboard: the entry table stays hidden until the
// service navigates to the dashboard, exactly like the SPA's hidden
// dashboard pane.
type View struct {
	active bool
	quiet  bool // suppress tables, keep messages (mutation commands)
}

func NewView() *View {
	return &View{}
}

// SetQuiet keeps toasts but drops table output, for commands where a
// re-rendered list would just be noise.
func (v *View) SetQuiet(quiet bool) {
	v.quiet = quiet
}

func (v *View) ShowError(msg string) {
	color.New(color.FgRed).Fprintln(os.Stderr, msg)
}

func (v *View) ShowSuccess(msg string) {
	color.New(color.FgGreen).Println(msg)
}

func (v *View) NavigateToAuth() {
	v.active = false
}

func (v *View) NavigateToDashboard() {
	v.active = true
}

func (v *View) RenderList(entries []model.Entry, stats model.Stats) {
	if !v.active || v.quiet {
		return
	}

	v.renderStats(stats)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No entries.")
		return
	}

	tbl := uitable.New()
	tbl.MaxColWidth = 50
	tbl.AddRow("ID", "DATE", "PRICE", "NOTE")
	for _, e := range entries {
		tbl.AddRow(e.ID, e.Date, formatCurrency(e.Price), strings.TrimSpace(e.Note))
	}
	fmt.Println(tbl)
}

func (v *View) renderStats(stats model.Stats) {
	label := color.New(color.FgCyan)

	avg, last := noDataSentinel, noDataSentinel
	if stats.Count > 0 {
		avg = formatCurrency(stats.Average)
		last = stats.LastRefillDate
	}

	fmt.Printf("%s %s   %s %d   %s %s   %s %s\n",
		label.Sprint("Total spent:"), formatCurrency(stats.Total),
		label.Sprint("Entries:"), stats.Count,
		label.Sprint("Avg price:"), avg,
		label.Sprint("Last refill:"), last,
	)
}

// formatCurrency renders ₹ with two decimals and thousand separators,
// matching the web client's formatting.
func formatCurrency(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return sign + "₹" + b.String() + "." + parts[1]
}
