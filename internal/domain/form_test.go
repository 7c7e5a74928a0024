package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMaterialList_Setters(t *testing.T) {
	var l MaterialList
	i := l.Add("item-1", 2)
	j := l.Add("item-2", 1)

	l.SetQuantityNeeded(i, 4.5)
	l.SetInventoryItem(j, "item-3")
	l.SetFulfilled(j, true)
	l.SetQuantityNeeded(99, 1) // out of range is ignored

	require.Len(t, l, 2)
	assert.Equal(t, 4.5, l[0].QuantityNeeded)
	assert.Equal(t, "item-3", l[1].InventoryItemID)
	assert.True(t, l[1].IsFulfilled)
	assert.False(t, l[0].IsFulfilled)
}

func TestMaterialList_Remove(t *testing.T) {
	var l MaterialList
	l.Add("a", 1)
	l.Add("b", 1)
	l.Add("c", 1)

	l.Remove(1)
	l.Remove(-1)
	l.Remove(5)

	require.Len(t, l, 2)
	assert.Equal(t, "a", l[0].InventoryItemID)
	assert.Equal(t, "c", l[1].InventoryItemID)
}

func TestMaterialList_Validate(t *testing.T) {
	assert.NoError(t, MaterialList{{InventoryItemID: "x", QuantityNeeded: 0}}.Validate())
	assert.ErrorIs(t, MaterialList{{InventoryItemID: "x", QuantityNeeded: -1}}.Validate(), ErrNegativeQuantity)
	assert.ErrorIs(t, MaterialList{{QuantityNeeded: 1}}.Validate(), ErrMissingInventory)
}

func TestProjectForm_RemoveSubprojectReindexes(t *testing.T) {
	f := &ProjectForm{Name: "Bookshelf"}
	f.AddSubproject("Cut")
	f.AddSubproject("Sand")
	f.AddSubproject("Finish")

	f.RemoveSubproject(0)

	require.Len(t, f.Subprojects, 2)
	assert.Equal(t, "Sand", f.Subprojects[0].Name)
	assert.Equal(t, 0, f.Subprojects[0].OrderIndex)
	assert.Equal(t, "Finish", f.Subprojects[1].Name)
	assert.Equal(t, 1, f.Subprojects[1].OrderIndex)
}

func TestProjectForm_Validate(t *testing.T) {
	f := &ProjectForm{Name: "  "}
	assert.ErrorIs(t, f.Validate(), ErrEmptyName)
	assert.ErrorIs(t, f.Validate(), ErrValidation)

	f.Name = "Shed"
	f.AddSubproject("")
	assert.ErrorIs(t, f.Validate(), ErrEmptyName)

	f.Subprojects[0].Name = "Roof"
	f.Subprojects[0].Materials.Add("shingles", -2)
	assert.ErrorIs(t, f.Validate(), ErrNegativeQuantity)

	f.Subprojects[0].Materials.SetQuantityNeeded(0, 20)
	assert.NoError(t, f.Validate())
	assert.Equal(t, 1, f.MaterialCount())
}

func TestProjectForm_YAMLRoundTrip(t *testing.T) {
	hours := 3.5
	f := ProjectForm{
		Name:          "Planter",
		Description:   "Cedar box",
		EstimatedTime: &hours,
		Materials:     MaterialList{{InventoryItemID: "glue", QuantityNeeded: 1, IsFulfilled: true}},
		Subprojects: []SubprojectForm{{
			Name:      "Base",
			Materials: MaterialList{{InventoryItemID: "screws", QuantityNeeded: 12}},
		}},
	}

	out, err := yaml.Marshal(f)
	require.NoError(t, err)

	var back ProjectForm
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, f, back)
}
