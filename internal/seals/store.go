package seals

import (
	"fmt"
	"sync"
)

// StoreOptions tunes Store behaviour.
type StoreOptions struct {
	// GildRequiresComplete makes Gild a no-op unless every triumph of the
	// seal is currently done.
	GildRequiresComplete bool
}

// Store owns the application document. Every operation replaces the
// document with a new value and persists it; snapshots handed out earlier
// are never modified.
type Store struct {
	mu        sync.Mutex
	doc       Document
	persister Persister
	clock     Clock
	ids       IDGenerator
	logger    Logger
	opts      StoreOptions
}

// NewStore loads the persisted document, falling back to DefaultDocument
// when nothing usable is stored, and latches earnedOn on seals that are
// already complete.
func NewStore(p Persister, clock Clock, ids IDGenerator, logger Logger, opts StoreOptions) *Store {
	s := &Store{
		persister: p,
		clock:     clock,
		ids:       ids,
		logger:    logger,
		opts:      opts,
	}

	doc, ok := p.Load()
	if !ok || len(doc.Seals) == 0 {
		logger.Info("no prior state, using default seals")
		s.doc = DefaultDocument(ids)
	} else {
		s.doc = *doc
		if s.doc.ActiveID == "" {
			s.doc.ActiveID = s.doc.Seals[0].ID
		}
	}

	if next, changed := Reconcile(s.doc, Today(clock)); changed {
		s.doc = next
		logger.Info("latched earned date on completed seals")
	}
	p.Save(s.doc)
	return s
}

// Snapshot returns the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// apply runs one transition and persists the result when it changed.
func (s *Store) apply(op string, fn func(Document) (Document, bool), args ...any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(s.doc)
	if !changed {
		s.logger.Debug("operation left document unchanged", append([]any{"op", op}, args...)...)
		return false
	}
	s.doc = next
	s.persister.Save(next)
	s.logger.Info(op, args...)
	return true
}

// ToggleTriumph flips a triumph and records earnedOn on first full completion.
func (s *Store) ToggleTriumph(sealID, triumphID string) bool {
	today := Today(s.clock)
	return s.apply("toggle triumph", func(d Document) (Document, bool) {
		return ToggleTriumph(d, sealID, triumphID, today)
	}, "seal", sealID, "triumph", triumphID)
}

// AddTriumph appends a triumph. Blank text is ignored.
func (s *Store) AddTriumph(sealID, text string, tier Tier) bool {
	return s.apply("add triumph", func(d Document) (Document, bool) {
		return AddTriumph(d, s.ids, sealID, text, tier)
	}, "seal", sealID, "tier", string(tier))
}

// RemoveTriumph deletes a triumph.
func (s *Store) RemoveTriumph(sealID, triumphID string) bool {
	return s.apply("remove triumph", func(d Document) (Document, bool) {
		return RemoveTriumph(d, sealID, triumphID)
	}, "seal", sealID, "triumph", triumphID)
}

// ResetTriumphs clears every done flag of a seal.
func (s *Store) ResetTriumphs(sealID string) bool {
	return s.apply("reset triumphs", func(d Document) (Document, bool) {
		return ResetTriumphs(d, sealID)
	}, "seal", sealID)
}

// AddBook prepends a book. A blank title is ignored.
func (s *Store) AddBook(sealID string, p BookPayload) bool {
	return s.apply("add book", func(d Document) (Document, bool) {
		return AddBook(d, s.ids, sealID, p)
	}, "seal", sealID)
}

// ToggleBookFinished flips a book's finished flag.
func (s *Store) ToggleBookFinished(sealID, bookID string) bool {
	return s.apply("toggle book", func(d Document) (Document, bool) {
		return ToggleBookFinished(d, sealID, bookID)
	}, "seal", sealID, "book", bookID)
}

// RemoveBook deletes a book.
func (s *Store) RemoveBook(sealID, bookID string) bool {
	return s.apply("remove book", func(d Document) (Document, bool) {
		return RemoveBook(d, sealID, bookID)
	}, "seal", sealID, "book", bookID)
}

// Gild records one gilding for the current year.
func (s *Store) Gild(sealID, note string) bool {
	year, today := CurrentYear(s.clock), Today(s.clock)
	return s.apply("gild", func(d Document) (Document, bool) {
		return Gild(d, s.ids, sealID, note, year, today, s.opts.GildRequiresComplete)
	}, "seal", sealID, "year", year)
}

// CreateSeal adds a seal with the starter triumphs and makes it active.
func (s *Store) CreateSeal(title, theme, flavor, palette string) bool {
	return s.apply("create seal", func(d Document) (Document, bool) {
		return CreateSeal(d, s.ids, title, theme, flavor, palette)
	}, "title", title)
}

// DeleteSeal removes a seal, reselecting the active seal if needed.
func (s *Store) DeleteSeal(sealID string) bool {
	return s.apply("delete seal", func(d Document) (Document, bool) {
		return DeleteSeal(d, sealID)
	}, "seal", sealID)
}

// SetActive selects a seal.
func (s *Store) SetActive(sealID string) bool {
	return s.apply("set active", func(d Document) (Document, bool) {
		return SetActive(d, sealID)
	}, "seal", sealID)
}

// Search filters the current seals by query.
func (s *Store) Search(query string) []Seal {
	return Search(s.Snapshot(), query)
}

// ResetAll clears persisted state and starts over from the default document.
func (s *Store) ResetAll() Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persister.Clear()
	s.doc = DefaultDocument(s.ids)
	s.persister.Save(s.doc)
	s.logger.Info("reset all seals to defaults")
	return s.doc
}

// Replace installs an externally supplied document, such as an imported
// backup. A document without seals or one that fails Validate is rejected
// and the current document is kept.
func (s *Store) Replace(doc Document) error {
	if len(doc.Seals) == 0 {
		return fmt.Errorf("document has no seals")
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	doc = doc.normalize()
	if doc.indexOf(doc.ActiveID) < 0 {
		doc.ActiveID = doc.Seals[0].ID
	}
	doc, _ = Reconcile(doc, Today(s.clock))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.persister.Save(doc)
	s.logger.Info("replaced document", "seals", len(doc.Seals))
	return nil
}

// CanGild reports whether the seal is currently fully complete.
func CanGild(seal Seal) bool {
	return Complete(seal).Full()
}
