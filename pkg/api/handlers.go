package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobby4fischer/E6Hackathon/pkg/dataset"
	"github.com/bobby4fischer/E6Hackathon/pkg/estimator"
	"github.com/bobby4fischer/E6Hackathon/pkg/executor"
	"github.com/bobby4fischer/E6Hackathon/pkg/query"
	"github.com/bobby4fischer/E6Hackathon/pkg/sketches"
	"github.com/bobby4fischer/E6Hackathon/pkg/storage"
)

const queryTimeout = 60 * time.Second

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, JSON{"status": "ok"})
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := storage.ListTables(r.Context(), h.db)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, JSON{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, JSON{"tables": tables})
}

type QueryRequest struct {
	SQL        string  `json:"sql"`
	Confidence float64 `json:"confidence,omitempty"`
}

type QueryResponse struct {
	Status      string                        `json:"status"`
	Columns     []string                      `json:"columns,omitempty"`
	Rows        [][]string                    `json:"rows,omitempty"`
	Approximate bool                          `json:"approximate"`
	Meta        JSON                          `json:"meta,omitempty"`
	Bounds      map[string]estimator.CIResult `json:"bounds,omitempty"`
	Error       string                        `json:"error,omitempty"`
}

func (h *Handler) PostQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "invalid json"})
		return
	}
	req.SQL = strings.TrimSpace(req.SQL)
	if req.SQL == "" {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "sql required"})
		return
	}
	if req.Confidence == 0 {
		req.Confidence = 0.95
	}

	q, err := query.Parse(req.SQL)
	if err != nil {
		status := http.StatusInternalServerError
		var perr *query.ParseError
		if errors.As(err, &perr) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, QueryResponse{Status: "error", Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	data, err := dataset.FromTable(ctx, h.db, q.Table)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, QueryResponse{Status: "error", Error: err.Error()})
		return
	}

	start := time.Now()
	res, err := executor.New().Execute(q, data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, QueryResponse{Status: "error", Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Status:      "ok",
		Columns:     res.Columns,
		Rows:        res.Rows,
		Approximate: res.Approximate,
		Bounds:      queryBounds(q, res, req.Confidence),
		Meta: JSON{
			"rows_scanned":  len(data),
			"sample_rate":   res.SampleRate,
			"sample_size":   res.SampleSize,
			"elapsed_ms":    time.Since(start).Milliseconds(),
			"result_groups": len(res.Rows),
		},
	})
}

// queryBounds attaches confidence intervals to approximate aggregate columns.
// Grouped results are skipped: the pooled sample values cannot be attributed
// back to individual groups.
func queryBounds(q *query.Query, res *executor.Result, confidence float64) map[string]estimator.CIResult {
	if !res.Approximate || len(q.GroupBy) > 0 || res.SampleRate <= 0 {
		return nil
	}

	const bootstrapIters = 300
	scale := 1.0 / res.SampleRate

	bounds := make(map[string]estimator.CIResult)
	for _, col := range q.Columns {
		name := col.OutputName()
		values := res.SampleValues[name]
		switch col.Aggregation {
		case query.AggCount:
			bounds[name] = estimator.CountCI(int64(res.SampleSize), res.SampleRate, confidence)
		case query.AggSum:
			if len(values) > 0 {
				bounds[name] = estimator.BootstrapCI(values, sumOf, scale, bootstrapIters, confidence)
			}
		case query.AggAvg:
			if len(values) > 0 {
				bounds[name] = estimator.BootstrapCI(values, meanOf, 1.0, bootstrapIters, confidence)
			}
		}
	}
	if len(bounds) == 0 {
		return nil
	}
	return bounds
}

func sumOf(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return sumOf(vals) / float64(len(vals))
}

type SketchRequest struct {
	Table  string  `json:"table"`
	Column string  `json:"column"`
	Type   string  `json:"type"`
	Value  string  `json:"value,omitempty"`
	Window uint64  `json:"window,omitempty"`
	Eps    float64 `json:"epsilon,omitempty"`
}

// PostSketchEstimate streams one column of a table through the requested
// sketch and returns its estimate: distinct count (hyperloglog), frequency of
// a value (countmin), membership of a value (bloom), or the windowed count of
// numeric timestamps (exphistogram).
func (h *Handler) PostSketchEstimate(w http.ResponseWriter, r *http.Request) {
	var req SketchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "invalid json"})
		return
	}
	if req.Table == "" || req.Column == "" {
		writeJSON(w, http.StatusBadRequest, JSON{"error": "table and column required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	data, err := dataset.FromTable(ctx, h.db, req.Table)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"error": err.Error()})
		return
	}

	switch sketches.SketchType(req.Type) {
	case sketches.HyperLogLogType:
		hll := sketches.NewHyperLogLog()
		for _, row := range data {
			if v, ok := row.Get(req.Column); ok {
				hll.AddString(v)
			}
		}
		low, high := hll.ConfidenceInterval(0.95)
		writeJSON(w, http.StatusOK, JSON{
			"sketch":    req.Type,
			"estimate":  hll.Estimate(),
			"std_error": hll.StandardError(),
			"ci_low":    low,
			"ci_high":   high,
		})

	case sketches.CountMinSketchType:
		cms := sketches.NewCountMinSketch(0, 0)
		for _, row := range data {
			if v, ok := row.Get(req.Column); ok {
				cms.AddString(v, 1)
			}
		}
		writeJSON(w, http.StatusOK, JSON{
			"sketch":   req.Type,
			"value":    req.Value,
			"estimate": cms.EstimateString(req.Value),
			"total":    cms.TotalCount(),
		})

	case sketches.BloomFilterType:
		bf := sketches.NewBloomFilter(0, 0)
		for _, row := range data {
			if v, ok := row.Get(req.Column); ok {
				bf.AddString(v)
			}
		}
		writeJSON(w, http.StatusOK, JSON{
			"sketch":              req.Type,
			"value":               req.Value,
			"might_contain":       bf.MightContainString(req.Value),
			"false_positive_rate": bf.FalsePositiveRate(),
		})

	case sketches.ExponentialHistogramType:
		eh := sketches.NewExponentialHistogram(req.Window, req.Eps)
		var now uint64
		for _, row := range data {
			v, ok := row.Get(req.Column)
			if !ok {
				continue
			}
			ts, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				continue
			}
			eh.Add(ts, 1)
			if ts > now {
				now = ts
			}
		}
		writeJSON(w, http.StatusOK, JSON{
			"sketch":   req.Type,
			"estimate": eh.Estimate(now),
			"buckets":  eh.NumBuckets(),
		})

	default:
		writeJSON(w, http.StatusBadRequest, JSON{"error": "unknown sketch type: " + req.Type})
	}
}
