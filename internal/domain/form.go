package domain

import "strings"

// MaterialForm is one editable material row. ItemName is informational and
// ignored when the form is saved.
type MaterialForm struct {
	InventoryItemID string  `yaml:"inventory_item_id" json:"inventory_item_id"`
	ItemName        string  `yaml:"item_name,omitempty" json:"item_name,omitempty"`
	QuantityNeeded  float64 `yaml:"quantity_needed" json:"quantity_needed"`
	IsFulfilled     bool    `yaml:"is_fulfilled,omitempty" json:"is_fulfilled"`
}

// MaterialList is the ordered material rows of a project or subproject form.
type MaterialList []MaterialForm

// Add appends a row for itemID and returns its index.
func (l *MaterialList) Add(itemID string, quantity float64) int {
	*l = append(*l, MaterialForm{InventoryItemID: itemID, QuantityNeeded: quantity})
	return len(*l) - 1
}

// Remove drops the row at index i. Out-of-range indexes are ignored.
func (l *MaterialList) Remove(i int) {
	if i < 0 || i >= len(*l) {
		return
	}
	*l = append((*l)[:i], (*l)[i+1:]...)
}

func (l MaterialList) SetInventoryItem(i int, itemID string) {
	if i >= 0 && i < len(l) {
		l[i].InventoryItemID = itemID
	}
}

func (l MaterialList) SetQuantityNeeded(i int, quantity float64) {
	if i >= 0 && i < len(l) {
		l[i].QuantityNeeded = quantity
	}
}

func (l MaterialList) SetFulfilled(i int, fulfilled bool) {
	if i >= 0 && i < len(l) {
		l[i].IsFulfilled = fulfilled
	}
}

// Validate checks every row references an item with a non-negative quantity.
func (l MaterialList) Validate() error {
	for _, m := range l {
		if m.InventoryItemID == "" {
			return ErrMissingInventory
		}
		if m.QuantityNeeded < 0 {
			return ErrNegativeQuantity
		}
	}
	return nil
}

type SubprojectForm struct {
	Name          string       `yaml:"name" json:"name"`
	Description   string       `yaml:"description,omitempty" json:"description,omitempty"`
	EstimatedTime *float64     `yaml:"estimated_time,omitempty" json:"estimated_time,omitempty"`
	OrderIndex    int          `yaml:"order_index" json:"order_index"`
	Materials     MaterialList `yaml:"materials,omitempty" json:"materials"`
}

// ProjectForm is the in-memory state of the project editor. It is written
// by the composite save and rebuilt from the store when a project is edited.
type ProjectForm struct {
	Name          string           `yaml:"name" json:"name"`
	Description   string           `yaml:"description,omitempty" json:"description,omitempty"`
	EstimatedTime *float64         `yaml:"estimated_time,omitempty" json:"estimated_time,omitempty"`
	IsPublic      bool             `yaml:"is_public,omitempty" json:"is_public"`
	Materials     MaterialList     `yaml:"materials,omitempty" json:"materials"`
	Subprojects   []SubprojectForm `yaml:"subprojects,omitempty" json:"subprojects"`
}

// AddSubproject appends an empty subproject and returns its index.
func (f *ProjectForm) AddSubproject(name string) int {
	f.Subprojects = append(f.Subprojects, SubprojectForm{Name: name, OrderIndex: len(f.Subprojects)})
	return len(f.Subprojects) - 1
}

// RemoveSubproject drops the subproject at index i and reindexes the rest.
func (f *ProjectForm) RemoveSubproject(i int) {
	if i < 0 || i >= len(f.Subprojects) {
		return
	}
	f.Subprojects = append(f.Subprojects[:i], f.Subprojects[i+1:]...)
	f.NormalizeOrder()
}

// NormalizeOrder sets each subproject's order index to its position.
func (f *ProjectForm) NormalizeOrder() {
	for i := range f.Subprojects {
		f.Subprojects[i].OrderIndex = i
	}
}

// MaterialCount counts direct and subproject material rows.
func (f *ProjectForm) MaterialCount() int {
	n := len(f.Materials)
	for _, sp := range f.Subprojects {
		n += len(sp.Materials)
	}
	return n
}

func (f *ProjectForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if err := f.Materials.Validate(); err != nil {
		return err
	}
	for _, sp := range f.Subprojects {
		if strings.TrimSpace(sp.Name) == "" {
			return ErrEmptyName
		}
		if err := sp.Materials.Validate(); err != nil {
			return err
		}
	}
	return nil
}
