package seals

import (
	"encoding/json"
	"fmt"
)

// DefaultStorageKey is the single slot the document is persisted under.
const DefaultStorageKey = "reading-seals-tracker:v1"

// KeyValueStore is the local persistent slot storage.
type KeyValueStore interface {
	// Get returns the value stored under key, or (nil, nil) if there is none.
	Get(key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Persister loads and saves whole documents. Load and Save never fail the
// caller: a missing or unreadable document is reported as absent, and a
// failed write leaves the in-memory document authoritative.
type Persister interface {
	Load() (*Document, bool)
	Save(doc Document)
	Clear()
}

// Gateway persists the document as JSON under one key of a KeyValueStore.
type Gateway struct {
	kv     KeyValueStore
	key    string
	logger Logger
}

var _ Persister = (*Gateway)(nil)

// NewGateway creates a Gateway. An empty key selects DefaultStorageKey.
func NewGateway(kv KeyValueStore, key string, logger Logger) *Gateway {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Gateway{kv: kv, key: key, logger: logger}
}

// Load reads the persisted document.
func (g *Gateway) Load() (*Document, bool) {
	data, err := g.kv.Get(g.key)
	if err != nil {
		g.logger.Warn("reading persisted document failed", "key", g.key, "error", err)
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		g.logger.Warn("persisted document is malformed", "key", g.key, "error", err)
		return nil, false
	}
	return doc, true
}

// Save overwrites the persisted document.
func (g *Gateway) Save(doc Document) {
	data, err := json.Marshal(doc.normalize())
	if err != nil {
		g.logger.Warn("encoding document failed", "error", err)
		return
	}
	if err := g.kv.Put(g.key, data); err != nil {
		g.logger.Warn("saving document failed", "key", g.key, "error", err)
	}
}

// Clear removes the persisted document.
func (g *Gateway) Clear() {
	if err := g.kv.Delete(g.key); err != nil {
		g.logger.Warn("clearing persisted document failed", "key", g.key, "error", err)
	}
}

// Raw returns the persisted bytes exactly as stored, or nil when absent.
func (g *Gateway) Raw() ([]byte, error) {
	data, err := g.kv.Get(g.key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", g.key, err)
	}
	return data, nil
}

// DecodeDocument parses a JSON document and fills absent collections.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	doc = doc.normalize()
	return &doc, nil
}
