package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/pantry/internal/cli/formatter"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type inventoryLoadedMsg struct {
	items []*domain.InventoryItem
	err   error
}

type quantitySavedMsg struct {
	item *domain.InventoryItem
	err  error
}

// inventoryBrowser lists inventory in a table; +/- adjust the selected
// item's quantity by one and r reloads.
type inventoryBrowser struct {
	ctx    context.Context
	svc    service.InventoryService
	userID string

	table  table.Model
	items  []*domain.InventoryItem
	status string
	err    error
}

func newInventoryBrowser(ctx context.Context, svc service.InventoryService, userID string) *inventoryBrowser {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Name", Width: 28},
			{Title: "On hand", Width: 14},
			{Title: "Unit cost", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(formatter.ColorHeader).Bold(true)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(formatter.ColorBlue)
	t.SetStyles(styles)

	return &inventoryBrowser{ctx: ctx, svc: svc, userID: userID, table: t}
}

func (m *inventoryBrowser) Init() tea.Cmd {
	return m.load
}

func (m *inventoryBrowser) load() tea.Msg {
	items, err := m.svc.List(m.ctx, m.userID)
	return inventoryLoadedMsg{items: items, err: err}
}

func (m *inventoryBrowser) setQuantity(id string, qty float64) tea.Cmd {
	return func() tea.Msg {
		item, err := m.svc.SetQuantity(m.ctx, m.userID, id, qty)
		return quantitySavedMsg{item: item, err: err}
	}
}

func (m *inventoryBrowser) selected() *domain.InventoryItem {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return nil
	}
	return m.items[i]
}

func (m *inventoryBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inventoryLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.items = msg.items
			m.refreshRows()
		}
		return m, nil

	case quantitySavedMsg:
		m.err = msg.err
		if msg.err == nil {
			for i, it := range m.items {
				if it.ID == msg.item.ID {
					m.items[i] = msg.item
				}
			}
			m.status = fmt.Sprintf("%s now %s", msg.item.Name, formatter.Quantity(msg.item.Quantity, msg.item.Unit))
			m.refreshRows()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.status = "reloaded"
			return m, m.load
		case "+", "=":
			if it := m.selected(); it != nil {
				return m, m.setQuantity(it.ID, it.Quantity+1)
			}
			return m, nil
		case "-":
			if it := m.selected(); it != nil {
				if it.Quantity < 1 {
					m.status = it.Name + " is already empty"
					return m, nil
				}
				return m, m.setQuantity(it.ID, it.Quantity-1)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *inventoryBrowser) refreshRows() {
	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		rows = append(rows, table.Row{
			domain.ShortID(it.ID),
			it.Name,
			formatter.Quantity(it.Quantity, it.Unit),
			formatter.Money(it.UnitCost),
		})
	}
	m.table.SetRows(rows)
}

func (m *inventoryBrowser) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Inventory") + "\n")
	if len(m.items) == 0 && m.err == nil {
		b.WriteString(formatter.Dim("No inventory items.") + "\n")
	} else {
		b.WriteString(lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(formatter.ColorDim).Render(m.table.View()) + "\n")
	}
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+domain.Message(m.err)) + "\n")
	} else if m.status != "" {
		b.WriteString(formatter.StyleGreen.Render(m.status) + "\n")
	}
	b.WriteString(formatter.Dim("↑/↓ move  +/- adjust  r reload  q quit"))
	return b.String()
}

func runInventoryBrowser(ctx context.Context, svc service.InventoryService, userID string) error {
	_, err := tea.NewProgram(newInventoryBrowser(ctx, svc, userID), tea.WithAltScreen()).Run()
	return err
}
