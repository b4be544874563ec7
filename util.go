package pcfg

// counter counts string keys and remembers the order in which they were
// first seen
type counter struct {
	counts map[string]float64
	keys   []string
}

func newCounter() *counter {
	return &counter{counts: map[string]float64{}}
}

// Increment adds n to the count of key
func (c *counter) Increment(key string, n float64) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key] += n
}

// Count returns the count of key
func (c *counter) Count(key string) float64 {
	return c.counts[key]
}

// ArgMax returns the key with the highest count. Ties keep the key seen
// first. ok is false for an empty counter
func (c *counter) ArgMax() (key string, ok bool) {
	best := 0.0
	for _, k := range c.keys {
		if !ok || c.counts[k] > best {
			key, best, ok = k, c.counts[k], true
		}
	}
	return
}
