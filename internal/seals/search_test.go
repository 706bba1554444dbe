package seals_test

import (
	"testing"

	"seals-go/internal/seals"
)

func TestSearch(t *testing.T) {
	doc := defaultDoc()

	tests := []struct {
		query string
		want  []string
	}{
		{"theo", []string{"seal_theologian"}},
		{"THEOLOGY", []string{"seal_theologian"}},
		{"  pastoral ", []string{"seal_shepherd"}},
		{"earned by", []string{"seal_disciple", "seal_theologian", "seal_shepherd"}},
		{"", []string{"seal_disciple", "seal_theologian", "seal_shepherd"}},
		{"hermit", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := seals.Search(doc, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d seals, want %d", tt.query, len(got), len(tt.want))
			}
			for i, s := range got {
				if s.ID != tt.want[i] {
					t.Errorf("Search(%q)[%d] = %s, want %s", tt.query, i, s.ID, tt.want[i])
				}
			}
		})
	}
}

func TestSearch_UnicodeFolding(t *testing.T) {
	doc := seals.Document{Seals: []seals.Seal{
		{ID: "s1", Title: "Théologie", Theme: "x"},
		{ID: "s2", Title: "École", Theme: "x"},
	}}

	// Decomposed e + combining acute matches the precomposed title.
	if got := seals.Search(doc, "THE\u0301O"); len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("decomposed query matched %v", got)
	}
	if got := seals.Search(doc, "éCOLE"); len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("accented query matched %v", got)
	}
}

func TestSearch_DoesNotAliasDocument(t *testing.T) {
	doc := defaultDoc()
	got := seals.Search(doc, "")
	got[0] = seals.Seal{ID: "changed"}
	if doc.Seals[0].ID != "seal_disciple" {
		t.Error("Search() result aliases the document's seal slice")
	}
}
