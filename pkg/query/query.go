// Package query defines the structured query request consumed by the executor
// and the parser that builds it from SQL-like text.
package query

import "fmt"

// AggregationType identifies what, if anything, is computed over a column.
type AggregationType string

const (
	AggNone  AggregationType = "NONE"
	AggCount AggregationType = "COUNT"
	AggSum   AggregationType = "SUM"
	AggAvg   AggregationType = "AVG"
	AggMin   AggregationType = "MIN"
	AggMax   AggregationType = "MAX"
)

// SamplingMethod selects a sampling strategy.
type SamplingMethod string

const (
	SampleNone       SamplingMethod = "NONE"
	SampleRandom     SamplingMethod = "RANDOM"
	SampleSystematic SamplingMethod = "SYSTEMATIC"
	SampleReservoir  SamplingMethod = "RESERVOIR"
	SampleStratified SamplingMethod = "STRATIFIED"
)

// Column is one requested output column: either a passthrough grouping column
// (AggNone) or an aggregation over a named source column.
type Column struct {
	Name        string          `json:"name"`
	Alias       string          `json:"alias,omitempty"`
	Aggregation AggregationType `json:"aggregation"`
}

// OutputName returns the alias if set, else the source column name.
func (c Column) OutputName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// SamplingSpec is the sampling directive attached to a query. Size carries the
// stride for SYSTEMATIC and the reservoir capacity for RESERVOIR.
type SamplingSpec struct {
	Method         SamplingMethod `json:"method"`
	Rate           float64        `json:"rate,omitempty"`
	Size           int            `json:"size,omitempty"`
	StratifyColumn string         `json:"stratify_column,omitempty"`
}

// Validate rejects directives the strategies themselves would refuse.
func (s SamplingSpec) Validate() error {
	switch s.Method {
	case SampleRandom, SampleStratified:
		if s.Rate <= 0 || s.Rate > 1 {
			return fmt.Errorf("sampling rate must be in (0,1], got %v", s.Rate)
		}
	case SampleSystematic:
		if s.Size < 1 {
			return fmt.Errorf("systematic step size must be at least 1, got %d", s.Size)
		}
	case SampleReservoir:
		if s.Size <= 0 {
			return fmt.Errorf("reservoir sample size must be greater than 0, got %d", s.Size)
		}
	}
	if s.Method == SampleStratified && s.StratifyColumn == "" {
		return fmt.Errorf("stratified sampling requires a stratification column")
	}
	return nil
}

// Query is one structured request. The engine treats it as read-only.
type Query struct {
	Columns  []Column     `json:"columns"`
	Table    string       `json:"table"`
	GroupBy  []string     `json:"group_by,omitempty"`
	Sampling SamplingSpec `json:"sampling"`
}

// Validate checks structural rules that do not depend on data: a table name
// must be present, and mixing aggregated with plain columns needs GROUP BY.
func (q *Query) Validate() error {
	if q.Table == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	hasAgg, hasPlain := false, false
	for _, col := range q.Columns {
		if col.Aggregation != AggNone {
			hasAgg = true
		} else if col.Name != "*" {
			hasPlain = true
		}
	}
	if hasAgg && hasPlain && len(q.GroupBy) == 0 {
		return fmt.Errorf("queries with both aggregated and non-aggregated columns require a GROUP BY clause")
	}
	return q.Sampling.Validate()
}
