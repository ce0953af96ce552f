package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"spendlens/internal/categorizer"
	"spendlens/internal/core"
	"spendlens/internal/services"
)

var (
	AccentColor  = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor).
			MarginBottom(1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	SuccessStyle = lipgloss.NewStyle().Foreground(AccentColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

const (
	SuccessIcon = "✓"
	AIIcon      = "✨"
)

func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

func FormatError(message string) string {
	return ErrorStyle.Render("✗ " + message)
}

// FormatTitle renders a section heading.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// RenderExpenses writes expenses as an aligned table.
func RenderExpenses(w io.Writer, es []core.Expense) error {
	if len(es) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No expenses found."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("Date"),
		HeaderStyle.Render("Description"),
		HeaderStyle.Render("Amount"),
		HeaderStyle.Render("Category"),
		HeaderStyle.Render("Tags"),
		HeaderStyle.Render("ID"))

	var total core.Money
	for _, e := range es {
		cat := string(e.Category)
		if e.AISuggested {
			cat += " " + AIIcon
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Date.String(),
			truncate(e.Description, 40),
			e.Amount.String(),
			cat,
			strings.Join(e.Tags, ","),
			SubtleStyle.Render(shortID(e.ID)))
		total = total.Add(e.Amount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d expenses, total %s\n", len(es), total.String())
	return err
}

// RenderExpense writes a one-line confirmation for a saved expense.
func RenderExpense(w io.Writer, verb string, e core.Expense) error {
	msg := fmt.Sprintf("%s %s: %s %s (%s)", verb, shortID(e.ID), e.Description, e.Amount.String(), e.Category)
	if e.AISuggested {
		msg += " " + AIIcon + " auto-categorized"
	}
	_, err := fmt.Fprintln(w, FormatSuccess(msg))
	return err
}

// RenderSuggestion writes a categorizer result with its alternatives.
func RenderSuggestion(w io.Writer, r categorizer.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n", AIIcon, HeaderStyle.Render(string(r.Category)),
		confidenceStyle(r.Confidence).Render(fmt.Sprintf("%.0f%% confidence", r.Confidence*100)))
	if !r.Accepts(categorizer.AutoAssignThreshold) {
		b.WriteString(SubtleStyle.Render("Too uncertain to assign automatically.") + "\n")
	}
	names := make([]string, 0, len(r.Suggestions))
	for _, c := range r.Suggestions {
		names = append(names, string(c))
	}
	b.WriteString(SubtleStyle.Render("Alternatives: " + strings.Join(names, ", ")))

	_, err := fmt.Fprintln(w, BoxStyle.Render(b.String()))
	return err
}

// RenderDashboard writes the insight cards, top categories and the monthly trend.
func RenderDashboard(w io.Writer, d services.Dashboard) error {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("This month", d.TotalThisMonth.String()),
		card("Daily average", fmt.Sprintf("%.2f", d.AverageDaily)),
		card("Expenses", fmt.Sprint(d.ExpenseCount)),
		card("Auto-categorized", fmt.Sprint(d.AISuggestedCount)),
	)
	if _, err := fmt.Fprintln(w, cards); err != nil {
		return err
	}

	fmt.Fprintln(w, FormatTitle("Top categories"))
	if len(d.TopCategories) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("No data yet."))
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range d.TopCategories {
		fmt.Fprintf(tw, "%s\t%s\t%5.1f%%\t%s\n", c.Category, c.Amount.String(), c.Percentage, bar(c.Percentage, 20))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, FormatTitle("Last 6 months"))
	var peak int64
	for _, m := range d.MonthlyTrend {
		peak = max(peak, m.Amount.Cents)
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, m := range d.MonthlyTrend {
		pct := 0.0
		if peak > 0 {
			pct = 100 * float64(m.Amount.Cents) / float64(peak)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Label, m.Amount.String(), bar(pct, 20))
	}
	return tw.Flush()
}

func card(label, value string) string {
	return BoxStyle.Render(SubtleStyle.Render(label) + "\n" + HeaderStyle.Render(value))
}

func confidenceStyle(c float64) lipgloss.Style {
	switch {
	case c > 0.6:
		return SuccessStyle
	case c > categorizer.AutoAssignThreshold:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

// bar draws pct (0-100) as a bar of at most width cells.
func bar(pct float64, width int) string {
	n := int(pct / 100 * float64(width))
	n = max(0, min(n, width))
	return strings.Repeat("█", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
