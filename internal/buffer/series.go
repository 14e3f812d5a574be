package buffer

// Series is an append-only sequence of values with an explicit Clear.
type Series struct {
	values []float64
}

func NewSeries() *Series {
	return &Series{}
}

// Append adds values in order.
func (s *Series) Append(values ...float64) {
	s.values = append(s.values, values...)
}

// Clear empties the series.
func (s *Series) Clear() {
	s.values = s.values[:0]
}

// Values returns a copy of the stored values.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)

	return out
}

func (s *Series) Len() int {
	return len(s.values)
}
