package main

import (
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/vrn-registry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	input := `Provider Name,Provider Type,Regions Served,Badges Earned,Phone
Blue Ridge Restoration,Water Mitigation,Mid-Atlantic; Southeast,Insured;Licensed,555-0100
,Roofing,Midwest,,
Cascade Tree Service,,Pacific Northwest,,
`
	created := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	set, err := convert(strings.NewReader(input), []string{"Regions Served", "Badges Earned"}, created)
	require.NoError(t, err)
	require.Len(t, set.Records, 3)

	first := set.Records[0]
	assert.Equal(t, "rec00001", first.ID)
	assert.Equal(t, "2025-08-01T00:00:00Z", first.CreatedTime)
	assert.Equal(t, []any{"Mid-Atlantic", "Southeast"}, first.Fields["Regions Served"])
	assert.Equal(t, "555-0100", first.Fields["Phone"])

	_, hasName := set.Records[1].Fields["Provider Name"]
	assert.False(t, hasName)

	providers := domain.NormalizeRecordSet(set)
	require.Len(t, providers, 2)
	assert.Equal(t, "Mid-Atlantic, Southeast", providers[0].Regions)
	assert.Equal(t, []string{"Insured", "Licensed"}, providers[0].Badges)
	assert.Equal(t, domain.DefaultCategory, providers[1].Category)
}

func TestConvert_NoRows(t *testing.T) {
	_, err := convert(strings.NewReader("Provider Name\n"), nil, time.Now())
	require.Error(t, err)
}
