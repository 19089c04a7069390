package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"facilitydash/adapters/coercer"
	"facilitydash/adapters/source"
	"facilitydash/domain/facility"

	"golang.org/x/text/encoding/charmap"
)

// FacilityGeneratorConfig configures the synthetic facility data generator
type FacilityGeneratorConfig struct {
	FacilityCount int      `json:"facility_count"`
	States        []string `json:"states"`
	Measures      []string `json:"measures"`
	// MissingScoreRate is the share of rows whose Score is "Not Available"
	MissingScoreRate float64 `json:"missing_score_rate"`
	Seed             int64   `json:"seed"`
}

// DefaultFacilityConfig returns sensible defaults for facility data generation
func DefaultFacilityConfig() FacilityGeneratorConfig {
	return FacilityGeneratorConfig{
		FacilityCount:    200,
		States:           []string{"TX", "CA", "NY", "FL", "PR"},
		Measures:         []string{"CLABSI", "CAUTI", "SSI: Colon", "MRSA Bacteremia", "C.diff"},
		MissingScoreRate: 0.1,
		Seed:             42,
	}
}

// Columns is the header the generator writes, in the order of the public hospital file
var Columns = []string{
	facility.ColFacilityName, "Address", "City", facility.ColState, facility.ColZIP,
	facility.ColCounty, facility.ColMeasureName, facility.ColScore,
	facility.ColLatitude, facility.ColLongitude,
}

var stateCenters = map[string][2]float64{
	"TX": {31.0, -99.0},
	"CA": {36.8, -119.4},
	"NY": {42.9, -75.5},
	"FL": {28.1, -81.6},
	"PR": {18.2, -66.5},
}

var counties = []string{"Harris", "Dallas", "Travis", "Bexar", "Muñoz", "Orange"}

// FacilityDataGenerator produces realistic-looking hospital infection rows
type FacilityDataGenerator struct {
	config FacilityGeneratorConfig
	rng    *rand.Rand
}

// NewFacilityDataGenerator creates a new generator
func NewFacilityDataGenerator(config FacilityGeneratorConfig) *FacilityDataGenerator {
	return &FacilityDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateRows returns the header followed by one row per facility.
// The same seed always yields the same rows.
func (g *FacilityDataGenerator) GenerateRows() [][]string {
	rows := [][]string{append([]string(nil), Columns...)}
	for i := 0; i < g.config.FacilityCount; i++ {
		state := g.config.States[g.rng.Intn(len(g.config.States))]
		center, ok := stateCenters[state]
		if !ok {
			center = [2]float64{39.8, -98.6}
		}

		score := "Not Available"
		if g.rng.Float64() >= g.config.MissingScoreRate {
			score = strconv.FormatFloat(float64(g.rng.Intn(3000))/1000, 'f', 3, 64)
		}

		rows = append(rows, []string{
			fmt.Sprintf("Facility %03d Medical Center", i+1),
			fmt.Sprintf("%d Main St", 100+g.rng.Intn(900)),
			"Springfield",
			state,
			fmt.Sprintf("%05d", 10000+g.rng.Intn(89999)),
			counties[g.rng.Intn(len(counties))],
			g.config.Measures[g.rng.Intn(len(g.config.Measures))],
			score,
			strconv.FormatFloat(center[0]+g.rng.Float64()*2-1, 'f', 5, 64),
			strconv.FormatFloat(center[1]+g.rng.Float64()*2-1, 'f', 5, 64),
		})
	}
	return rows
}

// EncodeCSV writes rows as CSV. latin1 re-encodes the text as ISO-8859-1.
func EncodeCSV(rows [][]string, latin1 bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	if !latin1 {
		return buf.Bytes(), nil
	}
	out, err := charmap.ISO8859_1.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode as ISO-8859-1: %w", err)
	}
	return out, nil
}

// WriteCSV writes rows to path
func WriteCSV(path string, rows [][]string, latin1 bool) error {
	payload, err := EncodeCSV(rows, latin1)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// BuildDataset types rows the way the file loader does, coercing the named columns
func BuildDataset(rows [][]string, coerce ...string) (*facility.Dataset, error) {
	return source.BuildDataset(rows, source.Options{Coerce: coerce}, coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()))
}

// ScenarioRows is the three-facility table used across package tests
func ScenarioRows() [][]string {
	return [][]string{
		{facility.ColFacilityName, facility.ColState, facility.ColCounty, facility.ColZIP, facility.ColMeasureName, facility.ColScore, facility.ColLatitude, facility.ColLongitude},
		{"Alpha Hospital", "TX", "Harris", "77001", "CLABSI", "5", "29.76", "-95.36"},
		{"Beta Hospital", "TX", "Travis", "78701", "CAUTI", "9", "30.27", "-97.74"},
		{"Gamma Hospital", "CA", "Orange", "92801", "CLABSI", "7", "33.83", "-117.91"},
	}
}
