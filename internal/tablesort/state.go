package tablesort

// State records the one column a table is sorted by. The zero value has
// every column unset.
type State struct {
	Column    int       `yaml:"column"`
	Direction Direction `yaml:"direction"`
}

// DirectionOf returns the stored direction for column i.
func (s State) DirectionOf(i int) Direction {
	if s.Direction == Unset || s.Column != i {
		return Unset
	}
	return s.Direction
}

// Select sets column i to dir and resets every other column.
func (s *State) Select(i int, dir Direction) {
	s.Column = i
	s.Direction = dir
}

// Reset clears the direction of every column.
func (s *State) Reset() {
	*s = State{}
}

// Indicator is the arrow shown in column i's header.
func (s State) Indicator(i int) string {
	switch s.DirectionOf(i) {
	case Ascending:
		return "↑"
	case Descending:
		return "↓"
	default:
		return ""
	}
}

// View is a group of tables that share one set of sortable headers, such as
// the suggestion tables rendered for each tab of a statement line.
type View[R Row] struct {
	Visible bool
	Tables  [][]R
	State   State
}

// Sort applies a click on col to every table in the view. It does nothing
// and returns false when the view is hidden or holds no tables.
func (v *View[R]) Sort(col Column) bool {
	if !v.Visible || len(v.Tables) == 0 {
		return false
	}

	current := v.State.DirectionOf(col.Index)
	v.State.Reset()

	var dir Direction
	for i, rows := range v.Tables {
		v.Tables[i], dir = SortColumn(rows, col, current)
	}
	v.State.Select(col.Index, dir)
	return true
}
