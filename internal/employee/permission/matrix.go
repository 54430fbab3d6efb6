package permission

// Decision is the outcome of the matrix for one relationship/class pair.
type Decision struct {
	CanView bool
	CanEdit bool
}

// matrix is the complete decision table. System-managed fields are never
// editable here; only the owner may edit sensitive fields; coworkers do
// not see sensitive fields at all.
var matrix = map[Relationship]map[FieldClass]Decision{
	Self: {
		SystemManaged: {CanView: true, CanEdit: false},
		NonSensitive:  {CanView: true, CanEdit: true},
		Sensitive:     {CanView: true, CanEdit: true},
	},
	Manager: {
		SystemManaged: {CanView: true, CanEdit: false},
		NonSensitive:  {CanView: true, CanEdit: true},
		Sensitive:     {CanView: true, CanEdit: false},
	},
	Coworker: {
		SystemManaged: {CanView: true, CanEdit: false},
		NonSensitive:  {CanView: true, CanEdit: false},
		Sensitive:     {CanView: false, CanEdit: false},
	},
}

// Decide returns the matrix cell for a relationship and field class.
// Unknown pairs deny everything.
func Decide(rel Relationship, class FieldClass) Decision {
	if row, ok := matrix[rel]; ok {
		if d, ok := row[class]; ok {
			return d
		}
	}
	return Decision{}
}

// CanView reports whether the relationship may view fields of the class.
func CanView(rel Relationship, class FieldClass) bool {
	return Decide(rel, class).CanView
}

// CanEdit reports whether the relationship may edit fields of the class.
func CanEdit(rel Relationship, class FieldClass) bool {
	return Decide(rel, class).CanEdit
}

// VisibleClasses returns the classes the relationship may view, in
// display order.
func VisibleClasses(rel Relationship) []FieldClass {
	classes := make([]FieldClass, 0, 3)
	for _, class := range AllClasses() {
		if CanView(rel, class) {
			classes = append(classes, class)
		}
	}
	return classes
}

// EditableClasses returns the classes the relationship may edit, in
// display order.
func EditableClasses(rel Relationship) []FieldClass {
	classes := make([]FieldClass, 0, 3)
	for _, class := range AllClasses() {
		if CanEdit(rel, class) {
			classes = append(classes, class)
		}
	}
	return classes
}
