package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixCells(t *testing.T) {
	tests := []struct {
		rel     Relationship
		class   FieldClass
		canView bool
		canEdit bool
	}{
		{Self, SystemManaged, true, false},
		{Self, NonSensitive, true, true},
		{Self, Sensitive, true, true},
		{Manager, SystemManaged, true, false},
		{Manager, NonSensitive, true, true},
		{Manager, Sensitive, true, false},
		{Coworker, SystemManaged, true, false},
		{Coworker, NonSensitive, true, false},
		{Coworker, Sensitive, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.rel)+"/"+string(tt.class), func(t *testing.T) {
			d := Decide(tt.rel, tt.class)
			assert.Equal(t, tt.canView, d.CanView, "CanView")
			assert.Equal(t, tt.canEdit, d.CanEdit, "CanEdit")
		})
	}
}

func TestEditImpliesView(t *testing.T) {
	for _, rel := range []Relationship{Self, Manager, Coworker} {
		for _, class := range AllClasses() {
			d := Decide(rel, class)
			if d.CanEdit {
				assert.True(t, d.CanView, "%s/%s editable but not viewable", rel, class)
			}
		}
	}
}

func TestSystemManagedNeverEditable(t *testing.T) {
	for _, rel := range []Relationship{Self, Manager, Coworker} {
		assert.False(t, CanEdit(rel, SystemManaged), "%s may edit system-managed fields", rel)
	}
}

func TestOnlySelfEditsSensitive(t *testing.T) {
	assert.True(t, CanEdit(Self, Sensitive))
	assert.False(t, CanEdit(Manager, Sensitive))
	assert.False(t, CanEdit(Coworker, Sensitive))
}

func TestUnknownRelationshipDeniesAll(t *testing.T) {
	d := Decide(Relationship("INTRUDER"), Sensitive)
	assert.False(t, d.CanView)
	assert.False(t, d.CanEdit)
}

func TestVisibleAndEditableClasses(t *testing.T) {
	assert.Equal(t, []FieldClass{SystemManaged, NonSensitive, Sensitive}, VisibleClasses(Self))
	assert.Equal(t, []FieldClass{NonSensitive, Sensitive}, EditableClasses(Self))

	assert.Equal(t, []FieldClass{SystemManaged, NonSensitive, Sensitive}, VisibleClasses(Manager))
	assert.Equal(t, []FieldClass{NonSensitive}, EditableClasses(Manager))

	assert.Equal(t, []FieldClass{SystemManaged, NonSensitive}, VisibleClasses(Coworker))
	assert.Empty(t, EditableClasses(Coworker))
}
