package testkit

import (
	"bytes"
	"testing"

	"facilitydash/domain/facility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRows_Deterministic(t *testing.T) {
	cfg := DefaultFacilityConfig()
	cfg.FacilityCount = 50

	first := NewFacilityDataGenerator(cfg).GenerateRows()
	second := NewFacilityDataGenerator(cfg).GenerateRows()

	require.Len(t, first, 51)
	assert.Equal(t, Columns, first[0])
	assert.Equal(t, first, second)

	cfg.Seed = 7
	assert.NotEqual(t, first, NewFacilityDataGenerator(cfg).GenerateRows())
}

func TestGenerateRows_BuildsCoercedDataset(t *testing.T) {
	cfg := DefaultFacilityConfig()
	cfg.MissingScoreRate = 0.5

	ds, err := BuildDataset(NewFacilityDataGenerator(cfg).GenerateRows(), facility.ColScore)
	require.NoError(t, err)

	assert.Equal(t, cfg.FacilityCount, ds.Len())
	assert.True(t, ds.IsNumeric(facility.ColScore))
	assert.True(t, ds.IsNumeric(facility.ColLatitude))
	scored := len(ds.Values(facility.ColScore))
	assert.Greater(t, scored, 0)
	assert.Less(t, scored, ds.Len())
	for _, v := range ds.Values(facility.ColScore) {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 3.0)
	}
}

func TestEncodeCSV_Latin1(t *testing.T) {
	rows := [][]string{{"County/Parish"}, {"Muñoz"}}

	utf8, err := EncodeCSV(rows, false)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(utf8, []byte("Mu\xc3\xb1oz")))

	latin1, err := EncodeCSV(rows, true)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(latin1, []byte("Mu\xf1oz")))
}

func TestScenarioRows(t *testing.T) {
	ds, err := BuildDataset(ScenarioRows())
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 9, 7}, ds.Values(facility.ColScore))
}
