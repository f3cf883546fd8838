package timeline

import (
	"fmt"
	"testing"
)

func ascendingSeries(n int) Series {
	series := make(Series, n)
	for i := range series {
		series[i] = Point{Label: fmt.Sprintf("day-%d", i+1), Value: float64(i + 1)}
	}
	return series
}

func TestWindowLength(t *testing.T) {
	tests := []struct {
		frame    TimeFrame
		expected int
	}{
		{OneDay, 1},
		{ThreeDays, 3},
		{OneWeek, 7},
		{OneMonth, 30},
		{SixMonths, 183},
		{OneYear, 365},
		{MaxTimeFrame, 730},
		{"2w", 7},
		{"", 7},
	}

	for _, tt := range tests {
		t.Run(string(tt.frame), func(t *testing.T) {
			if got := WindowLength(tt.frame); got != tt.expected {
				t.Errorf("WindowLength(%q) = %d, expected %d", tt.frame, got, tt.expected)
			}
		})
	}
}

func TestFilterWindow_LengthAndOrder(t *testing.T) {
	for _, size := range []int{0, 1, 2, 5, 10, 200, 800} {
		series := ascendingSeries(size)
		for _, frame := range TimeFrames() {
			result := FilterWindow(series, frame)

			want := WindowLength(frame)
			if size < want {
				want = size
			}
			if len(result) != want {
				t.Fatalf("size=%d frame=%s: expected %d points, got %d", size, frame, want, len(result))
			}

			offset := size - want
			for i, p := range result {
				if p != series[offset+i] {
					t.Fatalf("size=%d frame=%s: point %d is %+v, expected %+v", size, frame, i, p, series[offset+i])
				}
			}
		}
	}
}

func TestFilterWindow_Empty(t *testing.T) {
	for _, frame := range TimeFrames() {
		if got := FilterWindow(Series{}, frame); len(got) != 0 {
			t.Errorf("Expected empty result for %s, got %d points", frame, len(got))
		}
		if got := FilterWindow(nil, frame); len(got) != 0 {
			t.Errorf("Expected empty result for nil series with %s, got %d points", frame, len(got))
		}
	}
}

func TestFilterWindow_UnknownFrameMatchesOneWeek(t *testing.T) {
	series := ascendingSeries(20)

	unknown := FilterWindow(series, "2w")
	week := FilterWindow(series, OneWeek)

	if len(unknown) != len(week) {
		t.Fatalf("Expected %d points, got %d", len(week), len(unknown))
	}
	for i := range week {
		if unknown[i] != week[i] {
			t.Errorf("Point %d differs: %+v vs %+v", i, unknown[i], week[i])
		}
	}
}

func TestFilterWindow_DoesNotAlias(t *testing.T) {
	series := ascendingSeries(5)
	result := FilterWindow(series, ThreeDays)
	result[0].Value = 999

	if series[2].Value != 3 {
		t.Errorf("Filtering must not share storage with the source series")
	}
}

func TestTimeFrameKnown(t *testing.T) {
	for _, frame := range TimeFrames() {
		if !frame.Known() {
			t.Errorf("Expected %s to be known", frame)
		}
	}
	if TimeFrame("2w").Known() {
		t.Errorf("Expected 2w to be unknown")
	}
}
