package seals

import (
	"maps"
	"slices"
	"strings"
)

// The functions in this file are the document transitions behind Store.
// Each one returns a new Document and whether anything changed; the input
// document and every slice or map reachable from it are left untouched, so
// earlier snapshots stay valid. Unknown ids and empty required text are
// silent no-ops.

// updateSeal replaces the seal with the given id by fn's result.
func updateSeal(d Document, sealID string, fn func(Seal) (Seal, bool)) (Document, bool) {
	i := d.indexOf(sealID)
	if i < 0 {
		return d, false
	}
	next, changed := fn(d.Seals[i])
	if !changed {
		return d, false
	}
	sealsCopy := slices.Clone(d.Seals)
	sealsCopy[i] = next
	return Document{Seals: sealsCopy, ActiveID: d.ActiveID}, true
}

// ToggleTriumph flips a triumph's done flag and latches earnedOn to today
// the first time the seal becomes fully complete.
func ToggleTriumph(d Document, sealID, triumphID, today string) (Document, bool) {
	return updateSeal(d, sealID, func(s Seal) (Seal, bool) {
		i := slices.IndexFunc(s.Triumphs, func(t Triumph) bool { return t.ID == triumphID })
		if i < 0 {
			return s, false
		}
		s.Triumphs = slices.Clone(s.Triumphs)
		s.Triumphs[i].Done = !s.Triumphs[i].Done
		return latchEarned(s, today), true
	})
}

// latchEarned sets earnedOn when the seal is fully complete and has never
// been earned. It never clears earnedOn.
func latchEarned(s Seal, today string) Seal {
	if s.EarnedOn == nil && Complete(s).Full() {
		s.EarnedOn = &today
	}
	return s
}

// AddTriumph appends a new, not-done triumph.
func AddTriumph(d Document, ids IDGenerator, sealID, text string, tier Tier) (Document, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !tier.Valid() {
		return d, false
	}
	return updateSeal(d, sealID, func(s Seal) (Seal, bool) {
		t := Triumph{ID: ids.New("t"), Text: text, Tier: tier}
		s.Triumphs = append(slices.Clip(s.Triumphs), t)
		return s, true
	})
}

// RemoveTriumph deletes a triumph. earnedOn is left as it was.
func RemoveTriumph(d Document, sealID, triumphID string) (Document, bool) {
	return updateSeal(d, sealID, func(s Seal) (Seal, bool) {
		i := slices.IndexFunc(s.Triumphs, func(t Triumph) bool { return t.ID == triumphID })
		if i < 0 {
			return s, false
		}
		s.Triumphs = slices.Delete(slices.Clone(s.Triumphs), i, i+1)
		return s, true
	})
}

// ResetTriumphs marks every triumph of the seal not done. earnedOn is kept.
func ResetTriumphs(d Document, sealID string) (Document, bool) {
	return updateSeal(d, sealID, func(s Seal) (Seal, bool) {
		triumphs := make([]Triumph, len(s.Triumphs))
		changed := false
		for i, t := range s.Triumphs {
			if t.Done {
				changed = true
			}
			t.Done = false
			triumphs[i] = t
		}
		s.Triumphs = triumphs
		return s, changed
	})
}

// AddBook prepends a new unfinished book. A blank title is a no-op; blank
// author or notes and negative page counts are stored as absent.
func AddBook(d Document, ids IDGenerator, sealID string, p BookPayload) (Document, bool) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return d, false
	}
	return updateSeal(d, sealID, func(s Seal) (Seal, bool) {
		b := Book{
			ID:     ids.New("b"),
			Title:  title,
			Author: optionalText(p.Author),
			Notes:  optionalText(p.Notes),
		}
		if p.Pages != nil && *p.Pages >= 0 {
			pages := *p.Pages
			b.Pages = &pages
		}
		s.Books = append([]Book{b}, s.Books...)
		return s, true
	})
}

// ToggleBookFinished flips a book's finished flag.
func ToggleBookFinished(d Document, sealID, bookID string) (Document, bool) {
	return updateSeal(d, sealID, func(s Seal) (Seal, bool) {
		i := slices.IndexFunc(s.Books, func(b Book) bool { return b.ID == bookID })
		if i < 0 {
			return s, false
		}
		s.Books = slices.Clone(s.Books)
		s.Books[i].Finished = !s.Books[i].Finished
		return s, true
	})
}

// RemoveBook deletes a book.
func RemoveBook(d Document, sealID, bookID string) (Document, bool) {
	return updateSeal(d, sealID, func(s Seal) (Seal, bool) {
		i := slices.IndexFunc(s.Books, func(b Book) bool { return b.ID == bookID })
		if i < 0 {
			return s, false
		}
		s.Books = slices.Delete(slices.Clone(s.Books), i, i+1)
		return s, true
	})
}

// Gild increments the seal's counter for year and prepends a history record.
// When requireComplete is set, a seal that is not currently fully complete
// is left unchanged.
func Gild(d Document, ids IDGenerator, sealID, note, year, today string, requireComplete bool) (Document, bool) {
	return updateSeal(d, sealID, func(s Seal) (Seal, bool) {
		if requireComplete && !Complete(s).Full() {
			return s, false
		}
		gilds := maps.Clone(s.GildsByYear)
		if gilds == nil {
			gilds = map[string]int{}
		}
		gilds[year]++
		s.GildsByYear = gilds

		rec := GildRecord{ID: ids.New("g"), Year: year, Date: today, Note: optionalText(note)}
		s.GildHistory = append([]GildRecord{rec}, s.GildHistory...)
		return s, true
	})
}

// CreateSeal prepends a seal seeded with the starter triumphs and makes it
// active. Title and theme are required.
func CreateSeal(d Document, ids IDGenerator, title, theme, flavor, palette string) (Document, bool) {
	title = strings.TrimSpace(title)
	theme = strings.TrimSpace(theme)
	if title == "" || theme == "" {
		return d, false
	}
	flavor = strings.TrimSpace(flavor)
	if flavor == "" {
		flavor = defaultFlavor
	}

	s := Seal{
		ID:          ids.New("seal"),
		Title:       title,
		Theme:       theme,
		Flavor:      flavor,
		Palette:     NormalizePalette(palette),
		Icon:        DefaultIcon,
		Triumphs:    seedTriumphs(ids, starterTriumphs),
		Books:       []Book{},
		GildsByYear: map[string]int{},
		GildHistory: []GildRecord{},
	}

	next := make([]Seal, 0, len(d.Seals)+1)
	next = append(next, s)
	next = append(next, d.Seals...)
	return Document{Seals: next, ActiveID: s.ID}, true
}

// DeleteSeal removes a seal. If it was the active seal, the seal that
// followed it becomes active, else the one before it, else none. This keeps
// the selection near the deleted position rather than jumping to the first
// remaining seal.
func DeleteSeal(d Document, sealID string) (Document, bool) {
	i := d.indexOf(sealID)
	if i < 0 {
		return d, false
	}
	next := slices.Delete(slices.Clone(d.Seals), i, i+1)
	active := d.ActiveID
	if active == sealID {
		switch {
		case i < len(next):
			active = next[i].ID
		case i > 0:
			active = next[i-1].ID
		default:
			active = ""
		}
	}
	return Document{Seals: next, ActiveID: active}, true
}

// SetActive selects a seal. Unknown ids are ignored.
func SetActive(d Document, sealID string) (Document, bool) {
	if d.indexOf(sealID) < 0 || d.ActiveID == sealID {
		return d, false
	}
	return Document{Seals: d.Seals, ActiveID: sealID}, true
}

// Reconcile latches earnedOn on every fully complete seal that lacks it.
// It runs once after a document is loaded.
func Reconcile(d Document, today string) (Document, bool) {
	changed := false
	var next []Seal
	for i, s := range d.Seals {
		latched := latchEarned(s, today)
		if latched.EarnedOn == s.EarnedOn {
			continue
		}
		if next == nil {
			next = slices.Clone(d.Seals)
		}
		next[i] = latched
		changed = true
	}
	if !changed {
		return d, false
	}
	return Document{Seals: next, ActiveID: d.ActiveID}, true
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
