package weighin

import (
	"encoding/json"
	"fmt"
)

// Carousel is the cyclic slide index over one submission's results.
// The zero value is the Empty state. Transitions return a new value.
type Carousel struct {
	items []DerivedResult
	index int
}

// Load replaces any previous results and points at the first slide.
func (c Carousel) Load(items []DerivedResult) (Carousel, error) {
	if len(items) == 0 {
		return c, ErrEmptyResultSet
	}
	copied := make([]DerivedResult, len(items))
	copy(copied, items)
	return Carousel{items: copied}, nil
}

// Next moves forward one slide, wrapping to the first.
func (c Carousel) Next() Carousel {
	if c.Empty() {
		return c
	}
	c.index = (c.index + 1) % len(c.items)
	return c
}

// Previous moves back one slide, wrapping to the last.
func (c Carousel) Previous() Carousel {
	if c.Empty() {
		return c
	}
	c.index = (c.index - 1 + len(c.items)) % len(c.items)
	return c
}

// Current returns the slide at the current index.
func (c Carousel) Current() (DerivedResult, error) {
	if c.Empty() {
		return DerivedResult{}, ErrEmptyState
	}
	return c.items[c.index], nil
}

// Empty reports whether nothing has been loaded.
func (c Carousel) Empty() bool {
	return len(c.items) == 0
}

// Index is the current position; zero when empty.
func (c Carousel) Index() int {
	return c.index
}

// Len is the number of loaded results.
func (c Carousel) Len() int {
	return len(c.items)
}

// Items returns a copy of the loaded results.
func (c Carousel) Items() []DerivedResult {
	out := make([]DerivedResult, len(c.items))
	copy(out, c.items)
	return out
}

type carouselWire struct {
	Items []DerivedResult `json:"items"`
	Index int             `json:"index"`
}

// MarshalJSON implements json.Marshaler.
func (c Carousel) MarshalJSON() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []DerivedResult{}
	}
	return json.Marshal(carouselWire{Items: items, Index: c.index})
}

// UnmarshalJSON restores a carousel, rejecting out-of-range indexes.
func (c *Carousel) UnmarshalJSON(data []byte) error {
	var wire carouselWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if len(wire.Items) == 0 {
		*c = Carousel{}
		return nil
	}
	if wire.Index < 0 || wire.Index >= len(wire.Items) {
		return fmt.Errorf("carousel index %d out of range [0,%d)", wire.Index, len(wire.Items))
	}
	*c = Carousel{items: wire.Items, index: wire.Index}
	return nil
}
