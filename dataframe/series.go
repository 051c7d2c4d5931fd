// Package dataframe implements the in-memory table the rest of edago operates
// on: an ordered collection of named, typed columns with a shared positional
// row index and an explicit missing-value mask on every column. No operation
// mutates a frame or series in place; transforms return new values.
package dataframe

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/edago/pkg/errors"
)

// DType is the declared type of a column.
type DType int

const (
	// Float is a floating-point numeric column.
	Float DType = iota
	// Int is an integer numeric column.
	Int
	// Bool is a native boolean column.
	Bool
	// String is a free-form text column.
	String
	// Categorical is a text column restricted to a small set of levels.
	Categorical
)

// String returns the dtype name used in summaries and logs.
func (t DType) String() string {
	switch t {
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Categorical:
		return "category"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the dtype participates in numeric computations.
func (t DType) IsNumeric() bool {
	return t == Float || t == Int
}

// Series is a single named column. The valid mask marks non-missing cells;
// backing slices are only meaningful where valid.
type Series struct {
	name   string
	dtype  DType
	floats []float64 // Float and Int backing
	bools  []bool    // Bool backing
	strs   []string  // String and Categorical backing
	valid  []bool
}

// NewFloats creates a Float series. NaN values are treated as missing.
func NewFloats(name string, vals []float64) *Series {
	backing := make([]float64, len(vals))
	valid := make([]bool, len(vals))
	for i, v := range vals {
		backing[i] = v
		valid[i] = !math.IsNaN(v)
	}
	return &Series{name: name, dtype: Float, floats: backing, valid: valid}
}

// NewInts creates an Int series with no missing values.
func NewInts(name string, vals []int64) *Series {
	backing := make([]float64, len(vals))
	valid := make([]bool, len(vals))
	for i, v := range vals {
		backing[i] = float64(v)
		valid[i] = true
	}
	return &Series{name: name, dtype: Int, floats: backing, valid: valid}
}

// NewBools creates a Bool series with no missing values.
func NewBools(name string, vals []bool) *Series {
	backing := make([]bool, len(vals))
	copy(backing, vals)
	valid := make([]bool, len(vals))
	for i := range valid {
		valid[i] = true
	}
	return &Series{name: name, dtype: Bool, bools: backing, valid: valid}
}

// NewStrings creates a String series with no missing values.
func NewStrings(name string, vals []string) *Series {
	backing := make([]string, len(vals))
	copy(backing, vals)
	valid := make([]bool, len(vals))
	for i := range valid {
		valid[i] = true
	}
	return &Series{name: name, dtype: String, strs: backing, valid: valid}
}

// FromValues creates a series from untyped values, inferring the dtype from
// the first non-nil value. nil marks a missing cell. Supported value types are
// float64, int, int64, bool and string; mixing types is an error.
func FromValues(name string, vals []any) (*Series, error) {
	dtype := Float
	found := false
	for _, v := range vals {
		if v == nil {
			continue
		}
		switch v.(type) {
		case float64:
			dtype = Float
		case int, int64:
			dtype = Int
		case bool:
			dtype = Bool
		case string:
			dtype = String
		default:
			return nil, errors.NewValueError("dataframe.FromValues",
				"unsupported value type in column '"+name+"'")
		}
		found = true
		break
	}
	if !found {
		// All-missing column defaults to Float.
		dtype = Float
	}

	s := &Series{name: name, dtype: dtype, valid: make([]bool, len(vals))}
	switch dtype {
	case Float, Int:
		s.floats = make([]float64, len(vals))
	case Bool:
		s.bools = make([]bool, len(vals))
	case String:
		s.strs = make([]string, len(vals))
	}

	for i, v := range vals {
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case float64:
			if dtype != Float {
				return nil, errors.NewValueError("dataframe.FromValues",
					"mixed value types in column '"+name+"'")
			}
			if math.IsNaN(val) {
				continue
			}
			s.floats[i] = val
		case int:
			if !dtype.IsNumeric() {
				return nil, errors.NewValueError("dataframe.FromValues",
					"mixed value types in column '"+name+"'")
			}
			s.floats[i] = float64(val)
		case int64:
			if !dtype.IsNumeric() {
				return nil, errors.NewValueError("dataframe.FromValues",
					"mixed value types in column '"+name+"'")
			}
			s.floats[i] = float64(val)
		case bool:
			if dtype != Bool {
				return nil, errors.NewValueError("dataframe.FromValues",
					"mixed value types in column '"+name+"'")
			}
			s.bools[i] = val
		case string:
			if dtype != String {
				return nil, errors.NewValueError("dataframe.FromValues",
					"mixed value types in column '"+name+"'")
			}
			s.strs[i] = val
		}
		s.valid[i] = true
	}
	return s, nil
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// DType returns the declared column type.
func (s *Series) DType() DType { return s.dtype }

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.valid) }

// IsMissing reports whether the cell at row i is missing.
func (s *Series) IsMissing(i int) bool { return !s.valid[i] }

// Float returns the numeric value at row i, or NaN when the cell is missing
// or the column is not numeric.
func (s *Series) Float(i int) float64 {
	if !s.dtype.IsNumeric() || !s.valid[i] {
		return math.NaN()
	}
	return s.floats[i]
}

// Bool returns the boolean value at row i. Only meaningful for Bool columns
// with a non-missing cell.
func (s *Series) Bool(i int) bool {
	return s.dtype == Bool && s.valid[i] && s.bools[i]
}

// Str returns the text value at row i, or "" when missing or non-text.
func (s *Series) Str(i int) string {
	if (s.dtype != String && s.dtype != Categorical) || !s.valid[i] {
		return ""
	}
	return s.strs[i]
}

// Value returns the cell at row i as an untyped value, nil when missing.
func (s *Series) Value(i int) any {
	if !s.valid[i] {
		return nil
	}
	switch s.dtype {
	case Float:
		return s.floats[i]
	case Int:
		return int64(s.floats[i])
	case Bool:
		return s.bools[i]
	default:
		return s.strs[i]
	}
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	c := &Series{name: s.name, dtype: s.dtype}
	c.valid = append([]bool(nil), s.valid...)
	if s.floats != nil {
		c.floats = append([]float64(nil), s.floats...)
	}
	if s.bools != nil {
		c.bools = append([]bool(nil), s.bools...)
	}
	if s.strs != nil {
		c.strs = append([]string(nil), s.strs...)
	}
	return c
}

// Rename returns a copy of the series under a new name.
func (s *Series) Rename(name string) *Series {
	c := s.Copy()
	c.name = name
	return c
}

// MissingCount returns the number of missing cells.
func (s *Series) MissingCount() int {
	n := 0
	for _, ok := range s.valid {
		if !ok {
			n++
		}
	}
	return n
}

// HasMissing reports whether any cell is missing.
func (s *Series) HasMissing() bool {
	for _, ok := range s.valid {
		if !ok {
			return true
		}
	}
	return false
}

// FloatsDropMissing returns the non-missing numeric values in row order.
// Non-numeric columns yield an empty slice.
func (s *Series) FloatsDropMissing() []float64 {
	if !s.dtype.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(s.valid))
	for i, ok := range s.valid {
		if ok {
			out = append(out, s.floats[i])
		}
	}
	return out
}

// NUnique returns the number of distinct non-missing values.
func (s *Series) NUnique() int {
	seen := make(map[any]struct{})
	for i, ok := range s.valid {
		if !ok {
			continue
		}
		seen[s.Value(i)] = struct{}{}
	}
	return len(seen)
}

// Mode returns the most frequent non-missing value. Ties are broken by the
// first value encountered in row order. ok is false when every cell is
// missing.
func (s *Series) Mode() (value any, ok bool) {
	counts := make(map[any]int)
	var order []any
	for i, v := range s.valid {
		if !v {
			continue
		}
		val := s.Value(i)
		if _, seen := counts[val]; !seen {
			order = append(order, val)
		}
		counts[val]++
	}
	if len(order) == 0 {
		return nil, false
	}
	best := order[0]
	for _, val := range order[1:] {
		if counts[val] > counts[best] {
			best = val
		}
	}
	return best, true
}

// Mean returns the mean of the non-missing values, NaN when there are none or
// the column is not numeric.
func (s *Series) Mean() float64 {
	vals := s.FloatsDropMissing()
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// Median returns the median of the non-missing values (mean of the two middle
// values for even counts), NaN when there are none.
func (s *Series) Median() float64 {
	vals := s.FloatsDropMissing()
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// PopVariance returns the population variance (divide by N) of the
// non-missing values, NaN when there are none.
func (s *Series) PopVariance() float64 {
	vals := s.FloatsDropMissing()
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.PopVariance(vals, nil)
}

// MinMax returns the minimum and maximum of the non-missing values.
// ok is false when the column is not numeric or has no values.
func (s *Series) MinMax() (min, max float64, ok bool) {
	vals := s.FloatsDropMissing()
	if len(vals) == 0 {
		return 0, 0, false
	}
	return floats.Min(vals), floats.Max(vals), true
}

// Fill returns a copy of the series with missing cells filled with value.
// The value's type must match the column dtype.
func (s *Series) Fill(value any) (*Series, error) {
	c := s.Copy()
	for i, ok := range c.valid {
		if ok {
			continue
		}
		switch c.dtype {
		case Float, Int:
			switch v := value.(type) {
			case float64:
				// A NaN fill would mark the cell valid while the stored value
				// still reads as missing to every float consumer.
				if math.IsNaN(v) {
					return nil, errors.NewValueError("Series.Fill",
						"fill value for numeric column '"+c.name+"' must not be NaN")
				}
				c.floats[i] = v
			case int:
				c.floats[i] = float64(v)
			case int64:
				c.floats[i] = float64(v)
			default:
				return nil, errors.NewValueError("Series.Fill",
					"fill value for numeric column '"+c.name+"' must be numeric")
			}
		case Bool:
			v, ok := value.(bool)
			if !ok {
				return nil, errors.NewValueError("Series.Fill",
					"fill value for bool column '"+c.name+"' must be bool")
			}
			c.bools[i] = v
		default:
			v, ok := value.(string)
			if !ok {
				return nil, errors.NewValueError("Series.Fill",
					"fill value for text column '"+c.name+"' must be a string")
			}
			c.strs[i] = v
		}
		c.valid[i] = true
	}
	return c, nil
}

// AsCategorical returns a copy of the series with dtype Categorical. Values
// are rendered to their level labels; missing cells stay missing.
func (s *Series) AsCategorical() *Series {
	c := &Series{
		name:  s.name,
		dtype: Categorical,
		strs:  make([]string, len(s.valid)),
		valid: append([]bool(nil), s.valid...),
	}
	for i, ok := range s.valid {
		if !ok {
			continue
		}
		switch s.dtype {
		case Float:
			c.strs[i] = strconv.FormatFloat(s.floats[i], 'g', -1, 64)
		case Int:
			c.strs[i] = strconv.FormatInt(int64(s.floats[i]), 10)
		case Bool:
			c.strs[i] = strconv.FormatBool(s.bools[i])
		default:
			c.strs[i] = s.strs[i]
		}
	}
	return c
}

// AsBool converts a numeric series whose non-missing values are all 0 or 1
// into a Bool series, preserving missing cells.
func (s *Series) AsBool() (*Series, error) {
	if !s.dtype.IsNumeric() {
		return nil, errors.NewValueError("Series.AsBool",
			"column '"+s.name+"' is not numeric")
	}
	c := &Series{
		name:  s.name,
		dtype: Bool,
		bools: make([]bool, len(s.valid)),
		valid: append([]bool(nil), s.valid...),
	}
	for i, ok := range s.valid {
		if !ok {
			continue
		}
		switch s.floats[i] {
		case 0:
			c.bools[i] = false
		case 1:
			c.bools[i] = true
		default:
			return nil, errors.NewValueError("Series.AsBool",
				"column '"+s.name+"' contains values other than 0 and 1")
		}
	}
	return c, nil
}

// filterRows returns a copy keeping only rows where keep is true.
func (s *Series) filterRows(keep []bool) *Series {
	c := &Series{name: s.name, dtype: s.dtype}
	for i, k := range keep {
		if !k {
			continue
		}
		c.valid = append(c.valid, s.valid[i])
		switch s.dtype {
		case Float, Int:
			c.floats = append(c.floats, s.floats[i])
		case Bool:
			c.bools = append(c.bools, s.bools[i])
		default:
			c.strs = append(c.strs, s.strs[i])
		}
	}
	return c
}
