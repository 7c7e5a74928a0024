package domain

import "time"

type ProjectMaterial struct {
	ID              string
	ProjectID       *string
	SubprojectID    *string
	InventoryItemID string
	QuantityNeeded  float64
	IsFulfilled     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate enforces the exactly-one-parent rule and a non-negative quantity.
func (m *ProjectMaterial) Validate() error {
	if err := validateParent(m.ProjectID, m.SubprojectID); err != nil {
		return err
	}
	if m.InventoryItemID == "" {
		return ErrMissingInventory
	}
	if m.QuantityNeeded < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// MaterialWithItem is a material joined with the inventory item it draws from.
type MaterialWithItem struct {
	ProjectMaterial
	Item InventoryItem
}

// Cost is the quantity needed priced at the item's unit cost.
func (m MaterialWithItem) Cost() float64 {
	return m.QuantityNeeded * m.Item.UnitCost
}

func validateParent(projectID, subprojectID *string) error {
	hasProject := projectID != nil && *projectID != ""
	hasSubproject := subprojectID != nil && *subprojectID != ""
	if hasProject == hasSubproject {
		return ErrInvalidParent
	}
	return nil
}
