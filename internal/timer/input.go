package timer

import (
	"fmt"
	"time"
)

// maxInputDigits is the six slots of the HH MM SS editing buffer.
const maxInputDigits = 6

const maxInputSeconds = 99*3600 + 59*60 + 59

// DurationInput is the microwave-style digit editor behind the
// edit-duration view. Typed digits shift in from the right, so entering
// 1, 3, 0 reads as 00h 01m 30s. Minute and second fields may exceed 59
// and simply carry into the total. Not safe for concurrent use; it is
// driven from the UI event loop only.
type DurationInput struct {
	digits []int
}

func NewDurationInput() *DurationInput {
	return &DurationInput{}
}

// PushDigit appends a digit to the buffer. Leading zeros and digits
// beyond the six slots are ignored.
func (in *DurationInput) PushDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	if len(in.digits) == 0 && d == 0 {
		return
	}
	if len(in.digits) >= maxInputDigits {
		return
	}
	in.digits = append(in.digits, d)
}

// PopDigit removes the most recently typed digit.
func (in *DurationInput) PopDigit() {
	if len(in.digits) > 0 {
		in.digits = in.digits[:len(in.digits)-1]
	}
}

// Clear empties the buffer.
func (in *DurationInput) Clear() {
	in.digits = nil
}

// Empty reports whether no digits have been entered.
func (in *DurationInput) Empty() bool {
	return len(in.digits) == 0
}

// Duration converts the buffer, read right-aligned as HH MM SS, into a
// duration. Typing 9, 0 yields 90 seconds.
func (in *DurationInput) Duration() time.Duration {
	hh, mm, ss := in.split()
	return time.Duration(hh*3600+mm*60+ss) * time.Second
}

// SetFromDuration loads the buffer from an existing duration so editing
// starts at the current value. Values above 99h 59m 59s are capped.
func (in *DurationInput) SetFromDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}

	secs := int64(d / time.Second)
	if secs > maxInputSeconds {
		secs = maxInputSeconds
	}

	hh := secs / 3600
	mm := (secs % 3600) / 60
	ss := secs % 60

	packed := []int{
		int(hh / 10), int(hh % 10),
		int(mm / 10), int(mm % 10),
		int(ss / 10), int(ss % 10),
	}

	in.digits = nil
	for i, d := range packed {
		if len(in.digits) == 0 && d == 0 && i < maxInputDigits-1 {
			continue
		}
		in.digits = append(in.digits, d)
	}
	if len(in.digits) == 1 && in.digits[0] == 0 {
		in.digits = nil
	}
}

// String renders the buffer as the editing display shows it, all
// segments zero-padded: "00h 01m 30s".
func (in *DurationInput) String() string {
	hh, mm, ss := in.split()
	return fmt.Sprintf("%02dh %02dm %02ds", hh, mm, ss)
}

func (in *DurationInput) split() (hh, mm, ss int) {
	var slots [maxInputDigits]int
	offset := maxInputDigits - len(in.digits)
	for i, d := range in.digits {
		slots[offset+i] = d
	}

	hh = slots[0]*10 + slots[1]
	mm = slots[2]*10 + slots[3]
	ss = slots[4]*10 + slots[5]
	return hh, mm, ss
}
