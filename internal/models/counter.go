package models

import "sync/atomic"

// Counter hands out invoice numbers. Next must be safe for concurrent use and
// never return the same value twice.
type Counter interface {
	Next() int64
}

// SequenceCounter is an atomic counter whose first Next returns start.
type SequenceCounter struct {
	last atomic.Int64
}

// NewSequenceCounter returns a counter starting at start (values < 1 start at 1).
func NewSequenceCounter(start int64) *SequenceCounter {
	if start < 1 {
		start = 1
	}
	c := &SequenceCounter{}
	c.last.Store(start - 1)
	return c
}

func (c *SequenceCounter) Next() int64 {
	return c.last.Add(1)
}

// Peek returns the number the next call to Next will hand out.
func (c *SequenceCounter) Peek() int64 {
	return c.last.Load() + 1
}
