package coercer

import (
	"math"
	"strconv"
	"strings"

	"facilitydash/domain/facility"
)

// TypeCoercer turns raw cells into numbers and decides column kinds
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion thresholds and missing-value tokens
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of non-missing values that must parse
	MissingTokens    []string `json:"missing_tokens"`    // cells read as missing rather than text
}

// DefaultCoercionConfig treats a column as numeric only when every non-missing value parses,
// and recognises the usual spreadsheet spellings of "no value".
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 1.0,
		MissingTokens: []string{
			"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
			"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
			"n/a", "nan", "null",
		},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissing reports whether a raw cell stands for an absent value
func (c *TypeCoercer) IsMissing(raw string) bool {
	return c.missing[strings.TrimSpace(raw)]
}

// ParseNumeric parses a cell as a finite float
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if c.missing[s] {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// CoerceColumn converts every value to a number; unparseable entries become NaN
func (c *TypeCoercer) CoerceColumn(values []string) []float64 {
	out := make([]float64, len(values))
	for i, raw := range values {
		if v, ok := c.ParseNumeric(raw); ok {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// AnalyzeTypeDistribution counts how many non-missing values parse as numbers
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, raw := range values {
		if c.IsMissing(raw) {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.ParseNumeric(raw); ok {
			analysis.NumericCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	analysis.RecommendedKind = facility.KindText
	if analysis.ValidCount > 0 && analysis.NumericRatio >= c.config.NumericThreshold {
		analysis.RecommendedKind = facility.KindNumeric
	}

	return analysis
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                 `json:"total_count"`
	ValidCount      int                 `json:"valid_count"`
	NumericCount    int                 `json:"numeric_count"`
	NumericRatio    float64             `json:"numeric_ratio"`
	RecommendedKind facility.ColumnKind `json:"recommended_kind"`
}
