package domain

import (
	"strings"
	"time"
)

type InventoryItem struct {
	ID          string
	UserID      string
	Name        string
	Description *string
	Quantity    float64
	Unit        string
	UnitCost    float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Quantity < 0 || i.UnitCost < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// TotalValue is the stock on hand priced at unit cost.
func (i *InventoryItem) TotalValue() float64 {
	return i.Quantity * i.UnitCost
}
