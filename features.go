package router

// Features summarizes the shape of an analyzed query, used by the cost
// model to estimate execution time. See spec.md §4.1 "Feature extraction".
type Features struct {
	Joins           int
	Aggregations    int
	Windows         int
	Distinct        bool
	OrderBy         bool
	Limit           int  // the constant LIMIT; meaningful only when HasLimit is true
	HasLimit        bool
	ProjectedColumns int
	Selectivity     float64 // heuristic estimate in [0,1]
}

// ComplexityScore is the integer cost-model multiplier derived from query
// shape: joins*3 + aggregations*2 + windows*4 + distinct*1 + order_by*1.
func (f Features) ComplexityScore() int {
	score := f.Joins*3 + f.Aggregations*2 + f.Windows*4
	if f.Distinct {
		score++
	}
	if f.OrderBy {
		score++
	}
	return score
}
