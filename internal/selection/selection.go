// Package selection tracks the keyboard-highlighted row of a filtered view.
//
// The index is positional, not tied to a snippet id. Callers reset it
// whenever the view's membership can change (every query change).
package selection

// None is the index of an unset selection.
const None = -1

// Direction is a navigation step.
type Direction int

const (
	Next Direction = iota
	Prev
	Home
	End
)

func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	case Home:
		return "home"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Controller holds the selection index. The zero value is not ready to
// use; call New.
type Controller struct {
	index int
}

func New() *Controller {
	return &Controller{index: None}
}

// Reset clears the selection.
func (c *Controller) Reset() {
	c.index = None
}

// Index returns the raw stored index, which may be stale for the current view.
func (c *Controller) Index() int {
	return c.index
}

// Current returns the index clamped against a view of length n, or None when
// the stored index does not address an entry.
func (c *Controller) Current(n int) int {
	if c.index < 0 || c.index >= n {
		return None
	}
	return c.index
}

// Advance moves down one row without wrapping. Unset selects the first row.
func (c *Controller) Advance(n int) {
	if n <= 0 {
		return
	}
	if c.index < 0 {
		c.index = 0
		return
	}
	c.index = clamp(c.index+1, n)
}

// Retreat moves up one row without wrapping. Unset selects the first row.
func (c *Controller) Retreat(n int) {
	if n <= 0 {
		return
	}
	if c.index < 0 {
		c.index = 0
		return
	}
	c.index = clamp(c.index-1, n)
}

// First selects the first row of a non-empty view.
func (c *Controller) First(n int) {
	if n > 0 {
		c.index = 0
	}
}

// Last selects the last row of a non-empty view.
func (c *Controller) Last(n int) {
	if n > 0 {
		c.index = n - 1
	}
}

// Move applies a Direction.
func (c *Controller) Move(d Direction, n int) {
	switch d {
	case Next:
		c.Advance(n)
	case Prev:
		c.Retreat(n)
	case Home:
		c.First(n)
	case End:
		c.Last(n)
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
