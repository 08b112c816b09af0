package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tt := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 00s"},
		{90 * time.Second, "1m 30s"},
		{5 * time.Minute, "5m 00s"},
		{59*time.Minute + 59*time.Second, "59m 59s"},
		{time.Hour, "1h 0m 00s"},
		{time.Hour + time.Minute + time.Second, "1h 1m 01s"},
		{2*time.Hour + 30*time.Minute, "2h 30m 00s"},
		{99*time.Hour + 59*time.Minute + 59*time.Second, "99h 59m 59s"},
	}

	for _, tc := range tt {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDuration(tc.d))
		})
	}
}

func TestFormatDuration_SubSecondRoundsUp(t *testing.T) {
	tt := []struct {
		d    time.Duration
		want string
	}{
		{100 * time.Millisecond, "1s"},
		{time.Second + time.Millisecond, "2s"},
		{4*time.Second + 200*time.Millisecond, "5s"},
		{59*time.Second + 500*time.Millisecond, "1m 00s"},
		{59*time.Minute + 59*time.Second + time.Nanosecond, "1h 0m 00s"},
	}

	for _, tc := range tt {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDuration(tc.d))
		})
	}
}

func TestFormatDuration_NegativeClampsToZero(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(-3*time.Second))
}
