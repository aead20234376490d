package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/laidout/impose/pkg/fold"
	"github.com/laidout/impose/pkg/signature"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	cellEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	cellStyle      = lipgloss.NewStyle().Foreground(colorWhite)
	cellFlipStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

// iconUpsideDown marks pages printed upside down.
const iconUpsideDown = "↓"

// =============================================================================
// FoldPreviewModel - Interactive fold stepper
// =============================================================================

// FoldPreviewModel is the bubbletea model that steps through the folds of a
// signature one at a time.
type FoldPreviewModel struct {
	Sig   signature.Signature
	Plan  *fold.Plan
	Level int
}

// NewFoldPreviewModel starts the preview on the unfolded sheet.
func NewFoldPreviewModel(sig signature.Signature, plan *fold.Plan) FoldPreviewModel {
	return FoldPreviewModel{Sig: sig, Plan: plan}
}

func (m FoldPreviewModel) Init() tea.Cmd {
	return nil
}

func (m FoldPreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Level > 0 {
				m.Level--
			}
		case "right", "l", " ":
			if m.Level < len(m.Plan.Folds) {
				m.Level++
			}
		case "home", "g":
			m.Level = 0
		case "end", "G":
			m.Level = len(m.Plan.Folds)
		}
	}
	return m, nil
}

func (m FoldPreviewModel) View() string {
	var b strings.Builder

	name := m.Sig.Name
	if name == "" {
		name = "signature"
	}
	b.WriteString(StyleTitle.Render(name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ fold  home/end jump  q quit"))
	b.WriteString("\n\n")

	total := len(m.Plan.Folds)
	switch {
	case m.Level == 0:
		b.WriteString(StyleValue.Render("Unfolded sheet"))
	default:
		b.WriteString(StyleValue.Render(fmt.Sprintf("Fold %d/%d: %s", m.Level, total, m.Plan.Folds[m.Level-1])))
	}
	b.WriteString("\n")

	g, err := m.Plan.AtLevel(m.Level)
	if err != nil {
		b.WriteString(StyleWarning.Render(err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(stackTable(g))
	b.WriteString("\n")

	if m.Level == total {
		b.WriteString("\n")
		if !m.Plan.OK() {
			b.WriteString(StyleWarning.Render(m.Plan.Status.String()))
			b.WriteString("\n")
			return b.String()
		}
		b.WriteString(sheetTables(&m.Sig, m.Plan))
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Level, total)))
	return b.String()
}

// =============================================================================
// Grid Tables
// =============================================================================

func gridTable(cols int, rows [][]string, styleRow func(row, col int) lipgloss.Style) *table.Table {
	headers := make([]string, cols+1)
	for c := 0; c < cols; c++ {
		headers[c+1] = strconv.Itoa(c)
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 || col == 0 {
				return headerStyle.Padding(0, 1)
			}
			return styleRow(row, col).Padding(0, 1)
		})
}

// stackTable renders how many cells are stacked at each grid position, top
// row first.
func stackTable(g *fold.Grid) string {
	rows := make([][]string, 0, g.Rows())
	for r := g.Rows() - 1; r >= 0; r-- {
		row := []string{strconv.Itoa(r)}
		for c := 0; c < g.Cols(); c++ {
			if n := len(g.At(r, c).Pages); n > 0 {
				row = append(row, strconv.Itoa(n))
			} else {
				row = append(row, "·")
			}
		}
		rows = append(rows, row)
	}
	return gridTable(g.Cols(), rows, func(row, col int) lipgloss.Style {
		if rows[row][col] == "·" {
			return cellEmptyStyle
		}
		return cellStyle
	}).Render()
}

// sheetTables renders the page numbers printed on both sides of the first
// sheet, as seen when looking at each side. Pages count from 1.
func sheetTables(sig *signature.Signature, plan *fold.Plan) string {
	sheets := max(sig.SheetsPerSignature, 1)
	var sides []string
	for sigpaper := 0; sigpaper < 2; sigpaper++ {
		back := signature.PaperSideMirrored(sigpaper)
		label := fmt.Sprintf("Paper %d", sigpaper)
		if back {
			label += " (turned over)"
		}
		cells := make([][]string, plan.Rows())
		flipped := make([][]bool, plan.Rows())
		for r := range cells {
			cells[r] = make([]string, plan.Cols())
			flipped[r] = make([]bool, plan.Cols())
		}
		for r := 0; r < plan.Rows(); r++ {
			for c := 0; c < plan.Cols(); c++ {
				cell := plan.Cell(r, c)
				col := c
				if back {
					col = plan.Cols() - 1 - c
				}
				text := strconv.Itoa(signature.PageSlot(cell.FinalFront, cell.FinalBack, sheets, sigpaper) + 1)
				if cell.FinalYFlip {
					text += iconUpsideDown
				}
				cells[r][col] = text
				flipped[r][col] = cell.FinalYFlip
			}
		}

		rows := make([][]string, 0, plan.Rows())
		for r := plan.Rows() - 1; r >= 0; r-- {
			rows = append(rows, append([]string{strconv.Itoa(r)}, cells[r]...))
		}
		t := gridTable(plan.Cols(), rows, func(row, col int) lipgloss.Style {
			if flipped[plan.Rows()-1-row][col-1] {
				return cellFlipStyle
			}
			return cellStyle
		})
		sides = append(sides, StyleDim.Render(label)+"\n"+t.Render())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sides[0], "  ", sides[1])
}
