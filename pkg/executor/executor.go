// Package executor orchestrates one query: it streams the dataset through the
// requested sampling strategy, feeds the surviving rows to per-group
// accumulators, and projects sample-derived COUNT/SUM estimates back to
// population scale.
package executor

import (
	"strconv"
	"strings"

	"github.com/bobby4fischer/E6Hackathon/pkg/aggregate"
	"github.com/bobby4fischer/E6Hackathon/pkg/dataset"
	"github.com/bobby4fischer/E6Hackathon/pkg/query"
	"github.com/bobby4fischer/E6Hackathon/pkg/sampling"
)

// Group keys are the group-by values joined with this delimiter. A value that
// itself contains the delimiter can collide with a neighboring group; this
// ambiguity is accepted and documented rather than escaped away.
const groupKeyDelimiter = "|"

// Placeholder group value for rows missing a group-by column.
const nullValue = "NULL"

// Result is the output of one execution: cell text per requested column, the
// output column names, and whether sampling made the numbers approximate.
// Row order follows map iteration over group keys and is not stable across
// runs; callers needing deterministic order must sort.
type Result struct {
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
	Approximate bool       `json:"approximate"`
	// SampleRate is the achieved sampling rate, 0 for exact queries.
	SampleRate float64 `json:"sample_rate,omitempty"`
	// SampleSize is the number of rows that survived sampling.
	SampleSize int `json:"sample_size,omitempty"`
	// SampleValues holds, for approximate queries, the numeric values each
	// aggregated output column saw in the sample, pooled across groups.
	// Callers use them to bootstrap confidence intervals.
	SampleValues map[string][]float64 `json:"-"`
}

// Executor runs structured queries over an in-memory dataset. An instance is
// single-threaded and resets all per-query state at the start of every
// Execute call, so one executor can serve successive queries without leakage.
type Executor struct {
	sampler      sampling.Strategy[dataset.Row]
	groups       map[string]*aggregate.GroupResult
	sampleValues map[string][]float64
}

// New creates an executor.
func New() *Executor {
	return &Executor{}
}

// Execute runs one query over data. Configuration problems in the sampling
// directive are the only error source; per-row data issues (missing columns,
// non-numeric values) recover silently per the aggregation rules.
func (e *Executor) Execute(q *query.Query, data []dataset.Row) (*Result, error) {
	e.groups = make(map[string]*aggregate.GroupResult)
	e.sampler = nil
	e.sampleValues = nil

	sampler, err := sampling.New[dataset.Row](q.Sampling, stratumKey(q.Sampling.StratifyColumn))
	if err != nil {
		return nil, err
	}
	e.sampler = sampler

	result := &Result{}
	processed := data
	scale := 1.0

	if e.sampler != nil {
		for _, row := range data {
			e.sampler.Add(row)
		}
		processed = e.sampler.Sample()
		result.Approximate = true
		result.SampleRate = e.sampler.Rate()
		result.SampleSize = len(processed)
		e.sampleValues = make(map[string][]float64)
		if rate := e.sampler.Rate(); rate > 0 {
			scale = 1.0 / rate
		}
	}

	if len(processed) == 0 && len(q.GroupBy) == 0 {
		// COUNT over an empty or fully filtered input is still a defined 0,
		// so the default group is materialized without feeding any
		// aggregator: routing a synthetic empty row through processRow
		// would count it.
		e.groups["default"] = aggregate.NewGroupResult(q.Columns, nil)
	} else {
		for _, row := range processed {
			e.processRow(q, row)
		}
	}

	for _, col := range q.Columns {
		result.Columns = append(result.Columns, col.OutputName())
	}

	for _, group := range e.groups {
		byColumn := make(map[string]string, len(q.GroupBy))
		for i, groupCol := range q.GroupBy {
			byColumn[groupCol] = group.GroupValues()[i]
		}

		row := make([]string, 0, len(q.Columns))
		for _, col := range q.Columns {
			name := col.OutputName()
			if col.Aggregation == query.AggNone {
				row = append(row, byColumn[name])
				continue
			}
			value := group.Result(name)
			if e.sampler != nil && (col.Aggregation == query.AggCount || col.Aggregation == query.AggSum) {
				value *= scale
			}
			row = append(row, strconv.FormatFloat(value, 'f', 6, 64))
		}
		result.Rows = append(result.Rows, row)
	}
	result.SampleValues = e.sampleValues

	return result, nil
}

// processRow routes one row into its group's accumulators, creating the group
// lazily on first sight of its key.
func (e *Executor) processRow(q *query.Query, row dataset.Row) {
	groupKey := "default"
	var groupValues []string
	if len(q.GroupBy) > 0 {
		var sb strings.Builder
		for _, groupCol := range q.GroupBy {
			value, ok := row.Get(groupCol)
			if !ok {
				value = nullValue
			}
			sb.WriteString(value)
			sb.WriteString(groupKeyDelimiter)
			groupValues = append(groupValues, value)
		}
		groupKey = sb.String()
	}

	group, ok := e.groups[groupKey]
	if !ok {
		group = aggregate.NewGroupResult(q.Columns, groupValues)
		e.groups[groupKey] = group
	}

	for _, col := range q.Columns {
		if col.Aggregation == query.AggNone {
			continue
		}
		name := col.OutputName()
		if col.Aggregation == query.AggCount {
			group.AddValue(name, 1)
			continue
		}
		raw, ok := row.Get(col.Name)
		if !ok || raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Non-numeric input is skipped for this column; the row still
			// contributes to the other columns.
			continue
		}
		group.AddValue(name, value)
		if e.sampleValues != nil {
			e.sampleValues[name] = append(e.sampleValues[name], value)
		}
	}
}

// stratumKey builds the stratified-sampling key extractor for a column. Rows
// missing the column land in the "" stratum.
func stratumKey(column string) sampling.KeyFunc[dataset.Row] {
	return func(row dataset.Row) string {
		value, _ := row.Get(column)
		return value
	}
}
