package seals

// TierGroup is one tier's slice of a seal's triumphs, in storage order.
type TierGroup struct {
	Tier     Tier
	Triumphs []Triumph
	Done     int
}

// GroupByTier groups triumphs Gold, Silver, Bronze. Empty tiers are omitted.
func GroupByTier(s Seal) []TierGroup {
	var groups []TierGroup
	for _, tier := range TiersByPrestige {
		g := TierGroup{Tier: tier}
		for _, t := range s.Triumphs {
			if t.Tier != tier {
				continue
			}
			g.Triumphs = append(g.Triumphs, t)
			if t.Done {
				g.Done++
			}
		}
		if len(g.Triumphs) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// FinishedBooks counts the seal's finished books.
func FinishedBooks(s Seal) int {
	n := 0
	for _, b := range s.Books {
		if b.Finished {
			n++
		}
	}
	return n
}

// RecentGilds returns at most n of the newest gild records.
func RecentGilds(s Seal, n int) []GildRecord {
	if len(s.GildHistory) <= n {
		return s.GildHistory
	}
	return s.GildHistory[:n]
}
