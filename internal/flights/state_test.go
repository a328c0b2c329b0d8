package flights

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusAt(t *testing.T) {
	dep := testNow
	arr := testNow.Add(2 * time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"before departure", dep.Add(-time.Minute), StatusScheduled},
		{"at departure", dep, StatusActive},
		{"mid flight", dep.Add(time.Hour), StatusActive},
		{"at arrival", arr, StatusActive},
		{"after arrival", arr.Add(time.Second), StatusLanded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAt(dep, arr, tt.now))
		})
	}
}

func TestParseTimestampIgnoresSuffix(t *testing.T) {
	ts, err := ParseTimestamp("2025-06-01T10:30:00.000+02:00", testNow)
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)), ts.String())

	_, err = ParseTimestamp("2025-06-01", testNow)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = ParseTimestamp("not-a-timestamp-at-all", testNow)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestDeriveAcrossBands(t *testing.T) {
	d := newTestDeriver()
	r := providerRecord("IB1000", "MAD", "BCN", "2025-06-01T11:00:00", "2025-06-01T13:00:00", StatusScheduled)

	for _, tc := range []struct {
		now  time.Time
		want Status
	}{
		{testNow.Add(-2 * time.Hour), StatusScheduled},
		{testNow, StatusActive},
		{testNow.Add(2 * time.Hour), StatusLanded},
	} {
		rec := r
		require.NoError(t, d.Derive(&rec, tc.now))
		assert.Equal(t, tc.want, rec.FlightStatus)
		assert.Equal(t, tc.want == StatusActive, rec.Live != nil, "live block present only while active")
	}
}

func TestDeriveEstimatesLiveOnSegment(t *testing.T) {
	d := newTestDeriver()
	r := providerRecord("IB1000", "MAD", "BCN", "2025-06-01T11:00:00", "2025-06-01T13:00:00", StatusScheduled)

	require.NoError(t, d.Derive(&r, testNow))
	require.NotNil(t, r.Live)

	// Halfway through the schedule
	assert.InDelta(t, 0.5, r.Live.Progress, 1e-9)
	assert.InDelta(t, (40.4719+41.2974)/2, r.Live.Latitude, 1e-9)
	assert.InDelta(t, (-3.5626+2.0833)/2, r.Live.Longitude, 1e-9)
	assert.False(t, r.Live.IsGround)
	assert.Greater(t, r.Live.SpeedHorizontal, 0.0)
}

func TestDeriveDropsLiveWhenLanded(t *testing.T) {
	d := newTestDeriver()
	r := providerRecord("IB1000", "MAD", "BCN", "2025-06-01T09:00:00", "2025-06-01T11:00:00", StatusActive)
	r.Live = &LivePosition{Latitude: 1, Longitude: 1}

	require.NoError(t, d.Derive(&r, testNow))
	assert.Equal(t, StatusLanded, r.FlightStatus)
	assert.Nil(t, r.Live)
}

func TestDeriveKeepsRecordOnBadTimestamp(t *testing.T) {
	d := newTestDeriver()
	r := providerRecord("IB1000", "MAD", "BCN", "garbage", "2025-06-01T13:00:00", StatusScheduled)
	before := r

	err := d.Derive(&r, testNow)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.Equal(t, before, r)

	// DeriveAll logs and continues
	records := []FlightRecord{r, providerRecord("IB1011", "MAD", "BCN", "2025-06-01T13:00:00", "2025-06-01T14:00:00", StatusActive)}
	d.DeriveAll(records, testNow)
	assert.Equal(t, StatusScheduled, records[0].FlightStatus)
	assert.Equal(t, StatusScheduled, records[1].FlightStatus)
}

func TestDeriveUnknownAirportLeavesRecord(t *testing.T) {
	d := newTestDeriver()
	r := providerRecord("XX1000", "ZZZ", "BCN", "2025-06-01T11:00:00", "2025-06-01T13:00:00", StatusScheduled)

	err := d.Derive(&r, testNow)
	assert.True(t, errors.Is(err, ErrUnknownAirport))
	assert.Equal(t, StatusScheduled, r.FlightStatus)
	assert.Nil(t, r.Live)
}
