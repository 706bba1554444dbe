package seals_test

import (
	"testing"

	"seals-go/internal/seals"
)

func sealWith(done ...bool) seals.Seal {
	s := seals.Seal{ID: "s"}
	for _, d := range done {
		s.Triumphs = append(s.Triumphs, seals.Triumph{Tier: seals.Bronze, Done: d})
	}
	return s
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name string
		seal seals.Seal
		want seals.Completion
		full bool
	}{
		{"empty", sealWith(), seals.Completion{}, false},
		{"none done", sealWith(false, false), seals.Completion{Total: 2, Pct: 0}, false},
		{"one of three rounds down", sealWith(true, false, false), seals.Completion{Total: 3, Done: 1, Pct: 33}, false},
		{"two of three rounds up", sealWith(true, true, false), seals.Completion{Total: 3, Done: 2, Pct: 67}, false},
		{"half rounds up", sealWith(true, false, true, false, true, false, true, false), seals.Completion{Total: 8, Done: 4, Pct: 50}, false},
		{"all done", sealWith(true, true), seals.Completion{Total: 2, Done: 2, Pct: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seals.Complete(tt.seal)
			if got != tt.want {
				t.Errorf("Complete() = %+v, want %+v", got, tt.want)
			}
			if got.Full() != tt.full {
				t.Errorf("Full() = %v, want %v", got.Full(), tt.full)
			}
			if got.Pct < 0 || got.Pct > 100 {
				t.Errorf("Pct = %d out of range", got.Pct)
			}
		})
	}
}

func TestGroupByTier(t *testing.T) {
	s := seals.Seal{Triumphs: []seals.Triumph{
		{ID: "1", Tier: seals.Bronze, Done: true},
		{ID: "2", Tier: seals.Gold},
		{ID: "3", Tier: seals.Bronze},
		{ID: "4", Tier: seals.Gold, Done: true},
	}}

	groups := seals.GroupByTier(s)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2 (Silver omitted)", len(groups))
	}
	if groups[0].Tier != seals.Gold || groups[1].Tier != seals.Bronze {
		t.Errorf("group order = %s, %s; want Gold, Bronze", groups[0].Tier, groups[1].Tier)
	}
	if groups[0].Triumphs[0].ID != "2" || groups[0].Done != 1 {
		t.Errorf("gold group = %+v, want storage order and 1 done", groups[0])
	}
}

func TestRecentGilds(t *testing.T) {
	s := seals.Seal{}
	for i := 0; i < 10; i++ {
		s.GildHistory = append(s.GildHistory, seals.GildRecord{ID: string(rune('a' + i))})
	}
	got := seals.RecentGilds(s, 8)
	if len(got) != 8 || got[0].ID != "a" {
		t.Errorf("RecentGilds() = %d records starting %q, want 8 starting a", len(got), got[0].ID)
	}
	if len(seals.RecentGilds(seals.Seal{}, 8)) != 0 {
		t.Error("RecentGilds() on empty history should be empty")
	}
}

func TestTiers(t *testing.T) {
	if !(seals.Gold.Rank() > seals.Silver.Rank() && seals.Silver.Rank() > seals.Bronze.Rank()) {
		t.Error("tier ranks should order Gold > Silver > Bronze")
	}
	if seals.Tier("Platinum").Valid() || seals.Tier("Platinum").Rank() != 0 {
		t.Error("unknown tier should be invalid with rank 0")
	}
	got, err := seals.ParseTier(" gold ")
	if err != nil || got != seals.Gold {
		t.Errorf("ParseTier(gold) = (%q, %v)", got, err)
	}
	if _, err := seals.ParseTier("platinum"); err == nil {
		t.Error("ParseTier(platinum) should return error")
	}
}

func TestParsePages(t *testing.T) {
	tests := map[string]*int{"": nil, "abc": nil, "-1": nil, " 12 ": intPtr(12), "0": intPtr(0)}
	for in, want := range tests {
		got := seals.ParsePages(in)
		if (got == nil) != (want == nil) || (got != nil && *got != *want) {
			t.Errorf("ParsePages(%q) = %v, want %v", in, got, want)
		}
	}
}

func intPtr(n int) *int { return &n }

func TestNormalize(t *testing.T) {
	if seals.NormalizePalette(" Verdant ") != "verdant" || seals.NormalizePalette("plaid") != seals.DefaultPalette {
		t.Error("NormalizePalette() mismatch")
	}
	if seals.NormalizeIcon("Crown") != "Crown" || seals.NormalizeIcon("Skull") != seals.DefaultIcon {
		t.Error("NormalizeIcon() mismatch")
	}
}

func TestUUIDGenerator(t *testing.T) {
	var g seals.UUIDGenerator
	a, b := g.New("t"), g.New("t")
	if a == b {
		t.Error("UUIDGenerator produced duplicate ids")
	}
	if len(a) != len("t_")+36 || a[:2] != "t_" {
		t.Errorf("id %q is not prefix_uuid", a)
	}
}
