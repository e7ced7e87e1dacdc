package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillMissingIDs_SequentialAmongMissingOnly(t *testing.T) {
	ids := []string{"user-a", "", "user-b", "", ""}

	filled := FillMissingIDs(ids)

	assert.Equal(t, []string{"user-a", "missing_0", "user-b", "missing_1", "missing_2"}, filled)
}

func TestFillMissingIDs_PlaceholdersAreUnique(t *testing.T) {
	filled := FillMissingIDs([]string{"", ""})

	assert.NotEqual(t, filled[0], filled[1])
	// Placeholders survive factorization without colliding with real ids.
	tokens := Factorize(append(filled, "real-user"))
	assert.Equal(t, []string{"EV0", "EV1", "EV2"}, tokens)
}

func TestFactorize_FirstAppearanceOrder(t *testing.T) {
	tokens := Factorize([]string{"B", "A", "B", "C"})

	assert.Equal(t, []string{"EV0", "EV1", "EV0", "EV2"}, tokens)
}

func TestFactorize_Deterministic(t *testing.T) {
	in := []string{"x", "y", "x", "z", "y"}
	assert.Equal(t, Factorize(in), Factorize(in))
}

func TestSingleZone_OneDistinctValue(t *testing.T) {
	zone, err := SingleZone([]string{"America/Los_Angeles", "America/Los_Angeles"})
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", zone)
}

func TestSingleZone_MultipleZonesFail(t *testing.T) {
	_, err := SingleZone([]string{"America/Los_Angeles", "America/New_York"})
	require.Error(t, err)

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Contains(t, err.Error(), "America/Los_Angeles")
	assert.Contains(t, err.Error(), "America/New_York")
}

func TestToLocalNaive_UTCMinus8(t *testing.T) {
	// Midnight UTC on New Year's Day is 16:00 the previous day in
	// US Pacific standard time (UTC-8 in winter).
	got, err := ToLocalNaive("Wed, 1 Jan 2020 00:00:00 GMT", "America/Los_Angeles")
	require.NoError(t, err)
	assert.Equal(t, "2019-12-31 16:00:00", got)
}

func TestToLocalNaive_BadTimestamp(t *testing.T) {
	_, err := ToLocalNaive("not-a-timestamp", "America/Los_Angeles")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestToLocalNaive_BadZone(t *testing.T) {
	_, err := ToLocalNaive("Wed, 1 Jan 2020 00:00:00 GMT", "Mars/Olympus_Mons")
	require.Error(t, err)

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
}
