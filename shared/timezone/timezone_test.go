package timezone_test

import (
	"testing"
	"time"

	"caseclub/shared/failure"
	"caseclub/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAbsolute_ParisSummerOffset(t *testing.T) {
	local := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) // wall clock only

	utc, err := timezone.ToAbsolute(local, "Europe/Paris")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC), utc)
}

func TestToAbsolute_ParisWinterOffset(t *testing.T) {
	local := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	utc, err := timezone.ToAbsolute(local, "Europe/Paris")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC), utc)
}

func TestToAbsolute_InvalidZone(t *testing.T) {
	_, err := timezone.ToAbsolute(time.Now(), "Mars/Olympus_Mons")

	require.Error(t, err)
	assert.ErrorIs(t, err, failure.InvalidTimezoneError)
}

func TestToAbsolute_EmptyZoneFallsBackToDefault(t *testing.T) {
	local := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	utc, err := timezone.ToAbsolute(local, "")
	require.NoError(t, err)
	assert.False(t, utc.IsZero())
}

func TestRoundTrip(t *testing.T) {
	zones := []string{"Europe/Paris", "Asia/Tokyo", "America/New_York", "UTC"}
	locals := []time.Time{
		time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 24, 23, 30, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 15, 0, 0, time.UTC),
	}

	for _, zone := range zones {
		for _, local := range locals {
			utc, err := timezone.ToAbsolute(local, zone)
			require.NoError(t, err)

			back, err := timezone.ToLocal(utc, zone)
			require.NoError(t, err)

			assert.Equal(t, local.Format("2006-01-02 15:04:05"), back.Format("2006-01-02 15:04:05"),
				"round trip for %s in %s", local, zone)
		}
	}
}

func TestToLocal_InvalidZone(t *testing.T) {
	_, err := timezone.ToLocal(time.Now().UTC(), "Not/A_Zone")

	assert.ErrorIs(t, err, failure.InvalidTimezoneError)
}

func TestParseLocal(t *testing.T) {
	utc, err := timezone.ParseLocal("2006-01-02T15:04", "2025-06-10T09:00", "Europe/Paris")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC), utc)
}

func TestParseLocal_BadValue(t *testing.T) {
	_, err := timezone.ParseLocal("2006-01-02T15:04", "not-a-time", "Europe/Paris")

	assert.Error(t, err)
}

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.NotNil(t, timezone.DefaultLocation())
}
