package recovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	cases := []struct {
		id       string
		expiry   time.Time
		expected string
	}{
		{id: "epoch", expiry: time.Unix(0, 0), expected: "0"},
		{id: "millis", expiry: time.Date(2020, 1, 1, 15, 0, 0, 123_000_000, time.UTC), expected: "1577890800123"},
		{id: "truncated", expiry: time.Date(2020, 1, 1, 15, 0, 0, 123_999_999, time.UTC), expected: "1577890800123"},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			require.Equal(t, testcase.expected, Seed(testcase.expiry))
		})
	}
}

func TestSeedDoesNotDependOnLocation(t *testing.T) {
	utc := time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+3", 3*60*60)
	require.Equal(t, Seed(utc), Seed(utc.In(loc)))
}
