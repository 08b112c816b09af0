package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pushAll(in *DurationInput, digits ...int) {
	for _, d := range digits {
		in.PushDigit(d)
	}
}

func TestDurationInput_Duration(t *testing.T) {
	tt := []struct {
		name   string
		digits []int
		want   time.Duration
	}{
		{"empty buffer is zero", nil, 0},
		{"single digit is seconds", []int{5}, 5 * time.Second},
		{"two digits carry past a minute", []int{9, 0}, 90 * time.Second},
		{"three digits read as m ss", []int{1, 3, 0}, 90 * time.Second},
		{"four digits read as mm ss", []int{1, 0, 0, 0}, 10 * time.Minute},
		{"five digits read as h mm ss", []int{1, 0, 0, 0, 0}, time.Hour},
		{"full buffer", []int{9, 9, 5, 9, 5, 9}, 99*time.Hour + 59*time.Minute + 59*time.Second},
		{"overflowing seconds carry", []int{9, 9}, 99 * time.Second},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			in := NewDurationInput()
			pushAll(in, tc.digits...)
			assert.Equal(t, tc.want, in.Duration())
		})
	}
}

func TestDurationInput_PushDigit(t *testing.T) {
	t.Run("leading zeros are ignored", func(t *testing.T) {
		in := NewDurationInput()
		in.PushDigit(0)
		in.PushDigit(0)
		assert.True(t, in.Empty())

		in.PushDigit(5)
		in.PushDigit(0)
		assert.Equal(t, 50*time.Second, in.Duration())
	})

	t.Run("out of range digits are ignored", func(t *testing.T) {
		in := NewDurationInput()
		in.PushDigit(-1)
		in.PushDigit(10)
		assert.True(t, in.Empty())
	})

	t.Run("seventh digit is ignored", func(t *testing.T) {
		in := NewDurationInput()
		pushAll(in, 1, 2, 3, 4, 5, 6)
		in.PushDigit(7)
		assert.Equal(t, 12*time.Hour+34*time.Minute+56*time.Second, in.Duration())
	})
}

func TestDurationInput_PopDigit(t *testing.T) {
	in := NewDurationInput()
	pushAll(in, 1, 3, 0)
	assert.Equal(t, 90*time.Second, in.Duration())

	in.PopDigit()
	assert.Equal(t, 13*time.Second, in.Duration())

	in.PopDigit()
	in.PopDigit()
	assert.True(t, in.Empty())

	in.PopDigit()
	assert.True(t, in.Empty())
}

func TestDurationInput_Clear(t *testing.T) {
	in := NewDurationInput()
	pushAll(in, 4, 2)
	in.Clear()
	assert.True(t, in.Empty())
	assert.Equal(t, time.Duration(0), in.Duration())
}

func TestDurationInput_SetFromDuration(t *testing.T) {
	tt := []struct {
		name string
		d    time.Duration
		want time.Duration
		text string
	}{
		{"zero leaves the buffer empty", 0, 0, "00h 00m 00s"},
		{"seconds only", 45 * time.Second, 45 * time.Second, "00h 00m 45s"},
		{"default preset", 5 * time.Minute, 5 * time.Minute, "00h 05m 00s"},
		{"hours minutes seconds", time.Hour + 2*time.Minute + 3*time.Second, time.Hour + 2*time.Minute + 3*time.Second, "01h 02m 03s"},
		{"cap at the editor maximum", 200 * time.Hour, 99*time.Hour + 59*time.Minute + 59*time.Second, "99h 59m 59s"},
		{"sub-second remainder truncates", 90*time.Second + 300*time.Millisecond, 90 * time.Second, "00h 01m 30s"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			in := NewDurationInput()
			in.SetFromDuration(tc.d)
			assert.Equal(t, tc.want, in.Duration())
			assert.Equal(t, tc.text, in.String())
		})
	}
}

func TestDurationInput_SetFromDurationAllowsEditing(t *testing.T) {
	in := NewDurationInput()
	in.SetFromDuration(90 * time.Second)

	in.PopDigit()
	in.PushDigit(5)
	assert.Equal(t, time.Minute+35*time.Second, in.Duration())
}

func TestDurationInput_String(t *testing.T) {
	in := NewDurationInput()
	assert.Equal(t, "00h 00m 00s", in.String())

	pushAll(in, 1, 3, 0)
	assert.Equal(t, "00h 01m 30s", in.String())
}
