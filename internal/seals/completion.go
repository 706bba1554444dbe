package seals

import "math"

// Completion summarises a seal's triumph progress.
type Completion struct {
	Total int
	Done  int
	Pct   int
}

// Full reports whether every triumph is done. A seal with no triumphs is
// never full.
func (c Completion) Full() bool {
	return c.Total > 0 && c.Done == c.Total
}

// Complete computes the completion of a seal. Pct is round(100*done/total),
// and 0 when there are no triumphs.
func Complete(s Seal) Completion {
	c := Completion{Total: len(s.Triumphs)}
	for _, t := range s.Triumphs {
		if t.Done {
			c.Done++
		}
	}
	if c.Total > 0 {
		c.Pct = int(math.Round(100 * float64(c.Done) / float64(c.Total)))
	}
	return c
}
