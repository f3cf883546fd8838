package timeline

// TimeFrame identifies a trailing window of the series selected by the user
type TimeFrame string

const (
	OneDay       TimeFrame = "1d"
	ThreeDays    TimeFrame = "3d"
	OneWeek      TimeFrame = "1w"
	OneMonth     TimeFrame = "1m"
	SixMonths    TimeFrame = "6m"
	OneYear      TimeFrame = "1y"
	MaxTimeFrame TimeFrame = "max"

	// DefaultTimeFrame is selected when a widget mounts
	DefaultTimeFrame = OneWeek

	// DefaultWindowLength applies to any key outside the enumerated set
	DefaultWindowLength = 7
)

// windowLengths maps each time frame to its trailing window length in points
var windowLengths = map[TimeFrame]int{
	OneDay:       1,
	ThreeDays:    3,
	OneWeek:      7,
	OneMonth:     30,
	SixMonths:    183,
	OneYear:      365,
	MaxTimeFrame: 730,
}

// TimeFrames returns the selectable time frames in display order
func TimeFrames() []TimeFrame {
	return []TimeFrame{OneDay, ThreeDays, OneWeek, OneMonth, SixMonths, OneYear, MaxTimeFrame}
}

// Known reports whether the frame belongs to the enumerated set
func (f TimeFrame) Known() bool {
	_, ok := windowLengths[f]
	return ok
}

// WindowLength returns the number of trailing points shown for a time frame.
// Unknown keys fall back to the one week window.
func WindowLength(frame TimeFrame) int {
	if n, ok := windowLengths[frame]; ok {
		return n
	}
	return DefaultWindowLength
}

// FilterWindow returns the trailing points of the series that fall inside the
// window of the given time frame, preserving order.
func FilterWindow(series Series, frame TimeFrame) Series {
	n := WindowLength(frame)
	if n > len(series) {
		n = len(series)
	}

	windowed := make(Series, n)
	copy(windowed, series[len(series)-n:])
	return windowed
}
