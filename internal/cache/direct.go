package cache

import (
	"errors"

	"github.com/hupe1980/strkernel/resource"
)

// DefaultSlots is the default table size. It is prime to spread ordered-pair
// keys of typical corpus sizes evenly.
const DefaultSlots = 250007

// slotBytes is the footprint of one slot (float64 value + int64 tag).
const slotBytes = 16

// ErrMemoryLimit is returned when the resource controller refuses the table allocation.
var ErrMemoryLimit = errors.New("cache: memory limit exceeded")

// Stats holds cache counters.
type Stats struct {
	Hits   int64
	Misses int64
	Stores int64
	// Evictions counts stores that replaced a different, non-empty key.
	Evictions int64
}

// DirectMapped is a fixed-size, direct-mapped table from int64 keys to float64 values.
type DirectMapped struct {
	values []float64
	tags   []int64
	rc     *resource.Controller
	stats  Stats
}

// Footprint returns the memory in bytes of a table with the given number of slots.
func Footprint(slots int) int64 {
	if slots <= 0 {
		slots = DefaultSlots
	}
	return int64(slots) * slotBytes
}

// NewDirectMapped allocates an empty table with the given number of slots.
// If slots <= 0, DefaultSlots is used. If rc is non-nil the table's memory is
// reserved there and returned on Reset.
func NewDirectMapped(slots int, rc *resource.Controller) (*DirectMapped, error) {
	if slots <= 0 {
		slots = DefaultSlots
	}
	if !rc.TryAcquireMemory(Footprint(slots)) {
		return nil, ErrMemoryLimit
	}
	return &DirectMapped{
		values: make([]float64, slots),
		tags:   make([]int64, slots),
		rc:     rc,
	}, nil
}

// Slots returns the number of slots, or 0 after Reset.
func (c *DirectMapped) Slots() int {
	return len(c.tags)
}

// Slot returns the slot index for key.
func (c *DirectMapped) Slot(key int64) int {
	return int(key % int64(len(c.tags)))
}

// Lookup returns the value stored for key. It reports false when the slot is
// empty, holds another key, or the table has been reset. Keys must be >= 0.
func (c *DirectMapped) Lookup(key int64) (float64, bool) {
	if len(c.tags) == 0 {
		return 0, false
	}
	loc := c.Slot(key)
	if c.tags[loc] == key+1 {
		c.stats.Hits++
		return c.values[loc], true
	}
	c.stats.Misses++
	return 0, false
}

// Store writes value for key, replacing whatever the slot held.
// It is a no-op after Reset. Keys must be >= 0 and < math.MaxInt64.
func (c *DirectMapped) Store(key int64, value float64) {
	if len(c.tags) == 0 {
		return
	}
	loc := c.Slot(key)
	if old := c.tags[loc]; old != 0 && old != key+1 {
		c.stats.Evictions++
	}
	c.values[loc] = value
	c.tags[loc] = key + 1
	c.stats.Stores++
}

// Stats returns a snapshot of the counters.
func (c *DirectMapped) Stats() Stats {
	return c.stats
}

// Reset releases the table memory. Counters are kept.
func (c *DirectMapped) Reset() {
	if len(c.tags) == 0 {
		return
	}
	c.rc.ReleaseMemory(Footprint(len(c.tags)))
	c.values = nil
	c.tags = nil
}
