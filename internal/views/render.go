package views

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"banking-dashboard/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

type styles struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	stat     lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	active   lipgloss.Style
	inactive lipgloss.Style
	border   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Padding(0, 1)
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginTop(1),
		subtle:   r.NewStyle().Foreground(lipgloss.Color("241")),
		stat:     r.NewStyle().Bold(true).Border(lipgloss.RoundedBorder()).Padding(0, 2),
		header:   cell.Bold(true),
		cell:     cell,
		active:   cell.Foreground(lipgloss.Color("10")),
		inactive: cell.Foreground(lipgloss.Color("9")),
		border:   r.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

// grid renders a bordered table. Cells in statusColumn are colored by
// account status; -1 disables that.
func (s styles) grid(headers []string, rows [][]string, statusColumn int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.header
			case col == statusColumn && row >= 0 && row < len(rows):
				if rows[row][col] == string(domain.AccountActive) {
					return s.active
				}
				return s.inactive
			default:
				return s.cell
			}
		})
	return t.String()
}

func accountRows(accounts []domain.Account, withOwner bool) [][]string {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		row := []string{strconv.FormatInt(a.ID, 10), a.AccountNumber, string(a.Type), domain.FormatMoney(a.Money())}
		if withOwner {
			row = append(row, a.OwnerName)
		}
		row = append(row, string(a.Status), createdOn(a.CreatedAt))
		rows = append(rows, row)
	}
	return rows
}

func transactionRows(txs []domain.Transaction, now time.Time) [][]string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		sign := "-"
		if tx.IsCredit() {
			sign = "+"
		}
		rows = append(rows, []string{
			tx.Reference,
			string(tx.Type),
			sign + domain.FormatAmount(tx.Amount, tx.Currency),
			string(tx.Status),
			tx.Description,
			when(tx.CreatedAt, now),
		})
	}
	return rows
}

func createdOn(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 02, 2006")
}

func when(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func (s styles) stats(pairs ...string) string {
	boxes := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		boxes = append(boxes, s.stat.Render(fmt.Sprintf("%s\n%s", pairs[i], pairs[i+1])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}
