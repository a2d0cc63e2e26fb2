package harness

import (
	"fmt"
	"time"
)

// Snapshot is a point-in-time read of an observable page value: an
// element's text, the number of elements matching a locator, or a scroll
// offset. Snapshots exist purely for before/after comparison inside one
// test case; they hold no reference back to the page.
type Snapshot struct {
	Label string
	Taken time.Time

	text    string
	num     float64
	numeric bool
}

// TextSnapshot builds a snapshot holding a text value. Exposed so callers
// can compare against literals without a page read.
func TextSnapshot(label, text string) Snapshot {
	return Snapshot{Label: label, Taken: time.Now(), text: text}
}

// NumSnapshot builds a snapshot holding a numeric value.
func NumSnapshot(label string, v float64) Snapshot {
	return Snapshot{Label: label, Taken: time.Now(), num: v, numeric: true}
}

// Text returns the captured text. For numeric snapshots it returns the
// formatted number.
func (s Snapshot) Text() string {
	if s.numeric {
		return formatNum(s.num)
	}
	return s.text
}

// Num returns the captured numeric value. Zero for text snapshots.
func (s Snapshot) Num() float64 { return s.num }

// String renders the snapshot for assertion messages.
func (s Snapshot) String() string {
	return fmt.Sprintf("%s=%q", s.Label, s.Text())
}

// equal reports whether two snapshots hold the same value. Numeric
// snapshots compare numerically, text snapshots byte-wise.
func (s Snapshot) equal(o Snapshot) bool {
	if s.numeric && o.numeric {
		return s.num == o.num
	}
	return s.Text() == o.Text()
}

func formatNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
