package dataframe

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/edago/pkg/errors"
)

// DataFrame is an ordered collection of equally sized columns. Row identity is
// positional. The zero DataFrame (no columns) is valid and empty.
type DataFrame struct {
	cols   []*Series
	byName map[string]int
}

// New creates a DataFrame from the given columns. Column names must be unique
// and all columns must have the same length.
func New(cols ...*Series) (*DataFrame, error) {
	df := &DataFrame{byName: make(map[string]int, len(cols))}
	for _, s := range cols {
		if s == nil {
			return nil, errors.NewValueError("dataframe.New", "nil series")
		}
		if _, dup := df.byName[s.Name()]; dup {
			return nil, errors.NewValueError("dataframe.New",
				"duplicate column name '"+s.Name()+"'")
		}
		if len(df.cols) > 0 && s.Len() != df.cols[0].Len() {
			return nil, errors.NewDimensionError("dataframe.New", df.cols[0].Len(), s.Len(), 0)
		}
		df.byName[s.Name()] = len(df.cols)
		df.cols = append(df.cols, s)
	}
	return df, nil
}

// MustNew is New, panicking on error. Intended for tests and examples.
func MustNew(cols ...*Series) *DataFrame {
	df, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return df
}

// NumRows returns the number of rows.
func (df *DataFrame) NumRows() int {
	if len(df.cols) == 0 {
		return 0
	}
	return df.cols[0].Len()
}

// NumCols returns the number of columns.
func (df *DataFrame) NumCols() int { return len(df.cols) }

// IsEmpty reports whether the frame has no rows or no columns.
func (df *DataFrame) IsEmpty() bool {
	return df.NumRows() == 0 || df.NumCols() == 0
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	names := make([]string, len(df.cols))
	for i, s := range df.cols {
		names[i] = s.Name()
	}
	return names
}

// Column returns the named column and whether it exists.
func (df *DataFrame) Column(name string) (*Series, bool) {
	i, ok := df.byName[name]
	if !ok {
		return nil, false
	}
	return df.cols[i], true
}

// HasColumn reports whether the named column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.byName[name]
	return ok
}

// At returns the column at position i.
func (df *DataFrame) At(i int) *Series { return df.cols[i] }

// Copy returns a deep copy of the frame.
func (df *DataFrame) Copy() *DataFrame {
	cols := make([]*Series, len(df.cols))
	for i, s := range df.cols {
		cols[i] = s.Copy()
	}
	c, _ := New(cols...)
	return c
}

// Drop returns a new frame without the named columns. Names that are not
// present are ignored.
func (df *DataFrame) Drop(names ...string) *DataFrame {
	dropped := make(map[string]struct{}, len(names))
	for _, n := range names {
		dropped[n] = struct{}{}
	}
	var cols []*Series
	for _, s := range df.cols {
		if _, gone := dropped[s.Name()]; gone {
			continue
		}
		cols = append(cols, s.Copy())
	}
	c, _ := New(cols...)
	return c
}

// Select returns a new frame containing only the named columns, in the given
// order. Names that are not present are ignored.
func (df *DataFrame) Select(names ...string) *DataFrame {
	var cols []*Series
	for _, n := range names {
		if s, ok := df.Column(n); ok {
			cols = append(cols, s.Copy())
		}
	}
	c, _ := New(cols...)
	return c
}

// WithColumn returns a new frame with the given column replacing any existing
// column of the same name, or appended otherwise. The column length must
// match the frame's row count unless the frame has no columns.
func (df *DataFrame) WithColumn(s *Series) (*DataFrame, error) {
	if len(df.cols) > 0 && s.Len() != df.NumRows() {
		return nil, errors.NewDimensionError("DataFrame.WithColumn", df.NumRows(), s.Len(), 0)
	}
	cols := make([]*Series, 0, len(df.cols)+1)
	replaced := false
	for _, c := range df.cols {
		if c.Name() == s.Name() {
			cols = append(cols, s.Copy())
			replaced = true
			continue
		}
		cols = append(cols, c.Copy())
	}
	if !replaced {
		cols = append(cols, s.Copy())
	}
	return New(cols...)
}

// FilterRows returns a new frame keeping only rows where keep is true.
func (df *DataFrame) FilterRows(keep []bool) (*DataFrame, error) {
	if len(keep) != df.NumRows() {
		return nil, errors.NewDimensionError("DataFrame.FilterRows", df.NumRows(), len(keep), 0)
	}
	cols := make([]*Series, len(df.cols))
	for i, s := range df.cols {
		cols[i] = s.filterRows(keep)
	}
	return New(cols...)
}

// NumericColumns returns the names of numeric (Float or Int) columns in order.
func (df *DataFrame) NumericColumns() []string {
	var names []string
	for _, s := range df.cols {
		if s.DType().IsNumeric() {
			names = append(names, s.Name())
		}
	}
	return names
}

// ColumnsOfType returns the names of columns with the given dtype in order.
func (df *DataFrame) ColumnsOfType(t DType) []string {
	var names []string
	for _, s := range df.cols {
		if s.DType() == t {
			names = append(names, s.Name())
		}
	}
	return names
}

// String renders a short shape-and-schema description for debugging.
func (df *DataFrame) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DataFrame(%d rows x %d columns)[", df.NumRows(), df.NumCols())
	for i, s := range df.cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%s", s.Name(), s.DType())
	}
	b.WriteString("]")
	return b.String()
}
