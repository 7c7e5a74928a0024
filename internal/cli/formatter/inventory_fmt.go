package formatter

import (
	"github.com/alexanderramin/pantry/internal/domain"
)

// FormatInventoryList renders the caller's inventory with stock coloring.
func FormatInventoryList(items []*domain.InventoryItem) string {
	if len(items) == 0 {
		return Dim("No inventory items. Add one with: pantry inventory add")
	}
	headers := []string{"ID", "NAME", "ON HAND", "UNIT COST", "VALUE"}
	rows := make([][]string, 0, len(items))
	var total float64
	for _, it := range items {
		total += it.TotalValue()
		rows = append(rows, []string{
			TruncID(it.ID),
			Bold(it.Name),
			StockStyle(it.Quantity, 0).Render(Quantity(it.Quantity, it.Unit)),
			Money(it.UnitCost),
			Money(it.TotalValue()),
		})
	}
	rows = append(rows, []string{"", Dim("Total"), "", "", Bold(Money(total))})
	return RenderBox("Inventory", RenderTable(headers, rows, 2, 3, 4))
}

// FormatInventoryItem renders a one-line confirmation for an item.
func FormatInventoryItem(it *domain.InventoryItem) string {
	return Bold(it.Name) + " " + Dim("("+domain.ShortID(it.ID)+")") + "  " +
		StockStyle(it.Quantity, 0).Render(Quantity(it.Quantity, it.Unit)) + " @ " + Money(it.UnitCost)
}
