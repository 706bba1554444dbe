package seals

const defaultFlavor = "A seal forged by steady pages and stubborn joy."

type seed struct {
	text string
	tier Tier
}

// starterTriumphs seeds every newly created seal.
var starterTriumphs = []seed{
	{"Finish 1 book in this theme", Bronze},
	{"Read 15 minutes for 4 days", Bronze},
	{"Write a 200-word summary", Silver},
	{"Apply one insight in real life", Gold},
}

func seedTriumphs(ids IDGenerator, seeds []seed) []Triumph {
	out := make([]Triumph, len(seeds))
	for i, sd := range seeds {
		out[i] = Triumph{ID: ids.New("t"), Text: sd.text, Tier: sd.tier}
	}
	return out
}

// DefaultDocument builds the document used when nothing usable is persisted:
// The Disciple, The Theologian and The Shepherd, with The Disciple active.
func DefaultDocument(ids IDGenerator) Document {
	mk := func(id, title, theme, flavor, palette, icon string, seeds []seed) Seal {
		return Seal{
			ID:          id,
			Title:       title,
			Theme:       theme,
			Flavor:      flavor,
			Palette:     palette,
			Icon:        icon,
			Triumphs:    seedTriumphs(ids, seeds),
			Books:       []Book{},
			GildsByYear: map[string]int{},
			GildHistory: []GildRecord{},
		}
	}

	return Document{
		ActiveID: "seal_disciple",
		Seals: []Seal{
			mk("seal_disciple", "The Disciple", "Discipleship",
				"Earned by pursuing the slow craft of formation—then turning it outward.",
				"ember", "Flame", []seed{
					{"Finish 3 discipleship books", Bronze},
					{"Read 20 minutes, 5 days in a row", Bronze},
					{"Write a 1-paragraph summary for 5 chapters", Silver},
					{"Create a practical action plan from one book", Silver},
					{"Teach one concept to a student/leader", Gold},
					{"Discuss a book with someone (30+ min)", Gold},
				}),
			mk("seal_theologian", "The Theologian", "Doctrine & Theology",
				"Earned by loving God with the mind—and letting it reshape the heart.",
				"aether", "Sparkles", []seed{
					{"Finish 2 theology books (200+ pages)", Bronze},
					{"Take notes on 10 chapters", Bronze},
					{"Summarize one doctrine in 250 words", Silver},
					{"Find 10 supporting Scripture references", Silver},
					{"Write a short teaching outline (10–15 min)", Gold},
					{"Apply one doctrine to a real counseling scenario", Gold},
				}),
			mk("seal_shepherd", "The Shepherd", "Pastoral Leadership",
				"Earned by reading with names and faces in mind.",
				"verdant", "Shield", []seed{
					{"Finish 2 leadership/pastoral books", Bronze},
					{"Create a volunteer development idea", Silver},
					{"Write a one-page ministry policy/update", Silver},
					{"Implement one change for 4 weeks", Gold},
					{"Debrief the change with a leader", Gold},
				}),
		},
	}
}
