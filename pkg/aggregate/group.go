package aggregate

import "github.com/bobby4fischer/E6Hackathon/pkg/query"

// GroupResult owns one aggregator per requested output column for a single
// grouping-key tuple, plus the literal group-by values that produced the key.
// Accumulators for distinct keys are never merged.
type GroupResult struct {
	aggregators map[string]Aggregator
	groupValues []string
}

// NewGroupResult creates the accumulator set for one group, one aggregator
// per aggregated column in the request.
func NewGroupResult(columns []query.Column, groupValues []string) *GroupResult {
	g := &GroupResult{
		aggregators: make(map[string]Aggregator),
		groupValues: groupValues,
	}
	for _, col := range columns {
		if agg := ForKind(col.Aggregation); agg != nil {
			g.aggregators[col.OutputName()] = agg
		}
	}
	return g
}

// AddValue feeds one value into the aggregator for an output column. Unknown
// columns are ignored.
func (g *GroupResult) AddValue(column string, value float64) {
	if agg, ok := g.aggregators[column]; ok {
		agg.AddValue(value)
	}
}

// Result returns the aggregated value for an output column, 0 if the column
// has no aggregator.
func (g *GroupResult) Result(column string) float64 {
	if agg, ok := g.aggregators[column]; ok {
		return agg.Result()
	}
	return 0
}

// GroupValues returns the group-by column values captured for this group.
func (g *GroupResult) GroupValues() []string {
	return g.groupValues
}
