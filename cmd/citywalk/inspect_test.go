package main

import (
	"testing"

	"github.com/gobwas/glob"

	"github.com/vovakirdan/citywalk/internal/config"
	"github.com/vovakirdan/citywalk/internal/entity"
	"github.com/vovakirdan/citywalk/internal/sim"
)

func defaultWorld(t *testing.T) *sim.World {
	t.Helper()
	w, err := sim.New(config.DefaultCityConfig(), sim.WithSeed(1))
	if err != nil {
		t.Fatalf("sim.New() failed: %v", err)
	}
	return w
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds([]string{"Building", " npc "})
	if err != nil {
		t.Fatalf("parseKinds() failed: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != entity.KindBuilding || kinds[1] != entity.KindNPC {
		t.Errorf("parseKinds() = %v, expected [building npc]", kinds)
	}

	if _, err := parseKinds([]string{"car"}); err == nil {
		t.Error("parseKinds() should reject unknown kinds")
	}
}

func TestWalkDirection(t *testing.T) {
	tests := []struct {
		mode     string
		expected int
	}{
		{"right", 1},
		{"bounce", 1},
		{"left", -1},
		{"none", 0},
	}
	for _, tt := range tests {
		got, err := walkDirection(tt.mode)
		if err != nil || got != tt.expected {
			t.Errorf("walkDirection(%q) = %d, %v, expected %d", tt.mode, got, err, tt.expected)
		}
	}
	if _, err := walkDirection("up"); err == nil {
		t.Error("walkDirection() should reject unknown modes")
	}
}

func TestSelectEntitiesSkipsBackgroundsByDefault(t *testing.T) {
	w := defaultWorld(t)

	all := selectEntities(w, nil, false, 0, 0, nil)
	for _, e := range all {
		if e.Kind == entity.KindBackground {
			t.Fatalf("entity %d is a background, expected none without --kind", e.ID)
		}
	}
	if len(all) != w.Count()-w.Count(entity.KindBackground) {
		t.Errorf("selectEntities() = %d entities, expected every non-background", len(all))
	}

	bgs := selectEntities(w, []entity.Kind{entity.KindBackground}, false, 0, 0, nil)
	if len(bgs) != w.Count(entity.KindBackground) {
		t.Errorf("backgrounds = %d, expected %d", len(bgs), w.Count(entity.KindBackground))
	}
}

func TestSelectEntitiesRange(t *testing.T) {
	w := defaultWorld(t)

	found := selectEntities(w, []entity.Kind{entity.KindItem, entity.KindBackground}, true, 0, 1100, nil)
	items := 0
	for _, e := range found {
		if e.Kind == entity.KindItem {
			items++
		}
		if !e.Box.SpanOverlaps(0, 1100) {
			t.Errorf("%s %d at x=%.0f does not overlap [0, 1100]", e.Kind, e.ID, e.Box.X)
		}
		if e.Kind != entity.KindItem && e.Kind != entity.KindBackground {
			t.Errorf("unexpected kind %s", e.Kind)
		}
	}
	if items != 2 {
		t.Errorf("items in range = %d, expected the two at x=600 and x=1000", items)
	}
}

func TestSelectEntitiesMatch(t *testing.T) {
	w := defaultWorld(t)

	found := selectEntities(w, nil, false, 0, 0, glob.MustCompile("coin"))
	if len(found) == 0 {
		t.Fatal("expected the default city to have coins")
	}
	for _, e := range found {
		if e.Name() != "coin" {
			t.Errorf("Name() = %q, expected coin", e.Name())
		}
	}

	if got := selectEntities(w, nil, false, 0, 0, glob.MustCompile("no such *")); len(got) != 0 {
		t.Errorf("selectEntities() = %d entities, expected none", len(got))
	}
}
