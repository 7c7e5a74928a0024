package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestProjectMaterial_ExactlyOneParent(t *testing.T) {
	cases := []struct {
		name       string
		project    *string
		subproject *string
		wantErr    bool
	}{
		{"project only", strPtr("p"), nil, false},
		{"subproject only", nil, strPtr("s"), false},
		{"both", strPtr("p"), strPtr("s"), true},
		{"neither", nil, nil, true},
		{"empty project id", strPtr(""), nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &ProjectMaterial{ProjectID: tc.project, SubprojectID: tc.subproject, InventoryItemID: "i"}
			if tc.wantErr {
				assert.ErrorIs(t, m.Validate(), ErrInvalidParent)
			} else {
				assert.NoError(t, m.Validate())
			}
		})
	}
}

func TestProjectMaterial_NegativeQuantity(t *testing.T) {
	m := &ProjectMaterial{ProjectID: strPtr("p"), InventoryItemID: "i", QuantityNeeded: -0.5}
	assert.ErrorIs(t, m.Validate(), ErrNegativeQuantity)
}

func TestProjectDetail_PendingMaterialIDs(t *testing.T) {
	d := ProjectDetail{
		Materials: []MaterialWithItem{
			{ProjectMaterial: ProjectMaterial{ID: "m1"}},
			{ProjectMaterial: ProjectMaterial{ID: "m2", IsFulfilled: true}},
		},
		Subprojects: []SubprojectDetail{{
			Materials: []MaterialWithItem{{ProjectMaterial: ProjectMaterial{ID: "m3"}}},
		}},
	}
	assert.Equal(t, []string{"m1", "m3"}, d.PendingMaterialIDs())
	assert.Len(t, d.AllMaterials(), 3)
}

func TestMaterialWithItem_Cost(t *testing.T) {
	m := MaterialWithItem{
		ProjectMaterial: ProjectMaterial{QuantityNeeded: 3},
		Item:            InventoryItem{UnitCost: 2.5},
	}
	assert.InDelta(t, 7.5, m.Cost(), 1e-9)
}

func TestProjectFile_Validate(t *testing.T) {
	f := &ProjectFile{SubprojectID: strPtr("s"), FilePath: "projects/p/f/plan.pdf"}
	assert.NoError(t, f.Validate())
	assert.Equal(t, "plan.pdf", f.Name())

	f.ProjectID = strPtr("p")
	assert.ErrorIs(t, f.Validate(), ErrInvalidParent)
}
