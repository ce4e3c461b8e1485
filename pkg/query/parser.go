package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseError reports a malformed request. Callers can distinguish it from
// execution failures with errors.As.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return e.msg }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{msg: "failed to parse query: " + fmt.Sprintf(format, args...)}
}

var (
	aggColRe = regexp.MustCompile(`(?i)^(COUNT|SUM|AVG|MIN|MAX)\s*\(([^)]+)\)(?:\s+AS\s+(\w+))?$`)
	sampleRe = regexp.MustCompile(`(?i)^\s*(?:(RESERVOIR)\s+(\d+)|(SYSTEMATIC)\s+(\d+)|(STRATIFIED)\s+BY\s+(\w+)\s+(\d+(?:\.\d+)?)%|(\d+(?:\.\d+)?)%)`)
)

// Parse turns query text of the form
//
//	SELECT cols FROM table [GROUP BY cols] [SAMPLE directive]
//
// into a validated Query. The SAMPLE directive is one of "N%",
// "RESERVOIR n", "SYSTEMATIC n" or "STRATIFIED BY col N%".
func Parse(text string) (*Query, error) {
	upper := strings.ToUpper(text)

	selectPos := strings.Index(upper, "SELECT")
	if selectPos < 0 {
		return nil, parseErrorf("missing SELECT clause")
	}
	fromPos := strings.Index(upper, "FROM")
	if fromPos < 0 || fromPos < selectPos {
		return nil, parseErrorf("missing FROM clause")
	}

	q := &Query{Sampling: SamplingSpec{Method: SampleNone, Rate: 1.0}}

	if err := parseColumns(q, text[selectPos+len("SELECT"):fromPos]); err != nil {
		return nil, err
	}
	if err := parseTail(q, text[fromPos+len("FROM"):]); err != nil {
		return nil, err
	}

	if err := q.Validate(); err != nil {
		return nil, parseErrorf("%v", err)
	}
	return q, nil
}

func parseColumns(q *Query, clause string) error {
	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m := aggColRe.FindStringSubmatch(part); m != nil {
			fn := strings.ToUpper(m[1])
			inner := strings.TrimSpace(m[2])
			alias := m[3]
			if alias == "" {
				alias = fn + "(" + strings.ToUpper(inner) + ")"
			}
			q.Columns = append(q.Columns, Column{
				Name:        inner,
				Alias:       alias,
				Aggregation: AggregationType(fn),
			})
		} else {
			q.Columns = append(q.Columns, Column{Name: part, Aggregation: AggNone})
		}
	}
	if len(q.Columns) == 0 {
		return parseErrorf("no columns selected")
	}
	return nil
}

// parseTail handles everything after FROM: the table name and the optional
// GROUP BY and SAMPLE clauses, in that order.
func parseTail(q *Query, rest string) error {
	upper := strings.ToUpper(rest)
	groupPos := strings.Index(upper, "GROUP BY")
	samplePos := strings.Index(upper, "SAMPLE")

	tableEnd := len(rest)
	if groupPos >= 0 && groupPos < tableEnd {
		tableEnd = groupPos
	}
	if samplePos >= 0 && samplePos < tableEnd {
		tableEnd = samplePos
	}
	q.Table = strings.TrimSpace(rest[:tableEnd])

	if groupPos >= 0 {
		end := len(rest)
		if samplePos > groupPos {
			end = samplePos
		}
		for _, col := range strings.Split(rest[groupPos+len("GROUP BY"):end], ",") {
			if col = strings.TrimSpace(col); col != "" {
				q.GroupBy = append(q.GroupBy, col)
			}
		}
	}

	if samplePos >= 0 {
		return parseSampling(q, rest[samplePos+len("SAMPLE"):])
	}
	return nil
}

func parseSampling(q *Query, clause string) error {
	m := sampleRe.FindStringSubmatch(clause)
	if m == nil {
		return parseErrorf("invalid SAMPLE clause format: %q", strings.TrimSpace(clause))
	}
	switch {
	case m[1] != "": // RESERVOIR n
		size, err := strconv.Atoi(m[2])
		if err != nil {
			return parseErrorf("invalid reservoir size %q", m[2])
		}
		q.Sampling = SamplingSpec{Method: SampleReservoir, Size: size}
	case m[3] != "": // SYSTEMATIC n
		step, err := strconv.Atoi(m[4])
		if err != nil {
			return parseErrorf("invalid systematic step %q", m[4])
		}
		q.Sampling = SamplingSpec{Method: SampleSystematic, Size: step}
	case m[5] != "": // STRATIFIED BY col N%
		pct, err := strconv.ParseFloat(m[7], 64)
		if err != nil {
			return parseErrorf("invalid sampling percentage %q", m[7])
		}
		q.Sampling = SamplingSpec{Method: SampleStratified, Rate: pct / 100.0, StratifyColumn: m[6]}
	default: // N%
		pct, err := strconv.ParseFloat(m[8], 64)
		if err != nil {
			return parseErrorf("invalid sampling percentage %q", m[8])
		}
		q.Sampling = SamplingSpec{Method: SampleRandom, Rate: pct / 100.0}
	}
	return nil
}
