package transcript

// Products flattens every product returned by the named search tool into
// one ordered list: oldest function-call message first, products within a
// call in response order. Results from other tools, and calls that came
// back empty, are skipped.
func Products(list []Message, toolName string) []Product {
	var out []Product
	for _, m := range list {
		if m.Kind != KindFunctionCalls {
			continue
		}
		for _, c := range m.Content {
			if c.Type != ContentFunctionResult {
				continue
			}
			if c.Name != toolName || len(c.Products) == 0 {
				continue
			}
			out = append(out, c.Products...)
		}
	}
	return out
}

// Carousel tracks the active index of the single-item product view.
// The index is zero-based and wraps modulo the list length in both
// directions.
type Carousel struct {
	index  int
	length int
}

// Reset replaces the product count and returns the index to 0. Callers
// invoke it once per incoming result list, so a fresh list never keeps a
// stale selection.
func (c *Carousel) Reset(n int) {
	c.length = n
	c.index = 0
}

// Len returns the current product count.
func (c *Carousel) Len() int { return c.length }

// Index returns the active index, or 0 when the list is empty.
func (c *Carousel) Index() int { return c.index }

// Next advances the index, wrapping past the last product to 0.
func (c *Carousel) Next() {
	if c.length == 0 {
		return
	}
	if c.index == c.length-1 {
		c.index = 0
		return
	}
	c.index++
}

// Prev steps the index back, wrapping before 0 to the last product.
func (c *Carousel) Prev() {
	if c.length == 0 {
		return
	}
	if c.index == 0 {
		c.index = c.length - 1
		return
	}
	c.index--
}
