package models

import "testing"

func TestMilestoneCatalogOrder(t *testing.T) {
	want := []Milestone{
		MilestoneElfSortingStation,
		MilestoneCandyCaneForest,
		MilestoneReindeerRunway,
		MilestoneAuroraGate,
		MilestoneSantasDesk,
		MilestoneNorthPoleWorkshop,
	}

	catalog := MilestoneCatalog()
	if len(catalog) != len(want) {
		t.Fatalf("expected %d milestones, got %d", len(want), len(catalog))
	}
	for i, m := range want {
		if catalog[i].ID != m {
			t.Errorf("catalog[%d] = %s, want %s", i, catalog[i].ID, m)
		}
	}
}

func TestFirstMilestone(t *testing.T) {
	first := FirstMilestone()
	if first.ID != MilestoneElfSortingStation {
		t.Errorf("first milestone = %s, want %s", first.ID, MilestoneElfSortingStation)
	}
	if first.StoryText == "" {
		t.Error("first milestone should carry story text")
	}
}

func TestMilestoneIndex(t *testing.T) {
	if got := MilestoneIndex(MilestoneElfSortingStation); got != 0 {
		t.Errorf("index of first milestone = %d, want 0", got)
	}
	if got := MilestoneIndex(MilestoneNorthPoleWorkshop); got != FinalMilestoneIndex() {
		t.Errorf("index of last milestone = %d, want %d", got, FinalMilestoneIndex())
	}
	if got := MilestoneIndex(Milestone("SNOWMAN_VILLAGE")); got != -1 {
		t.Errorf("index of unknown milestone = %d, want -1", got)
	}
}

func TestMilestoneIndexConsistentWithCatalog(t *testing.T) {
	for i, info := range MilestoneCatalog() {
		if got := MilestoneIndex(info.ID); got != i {
			t.Errorf("MilestoneIndex(%s) = %d, want %d", info.ID, got, i)
		}
	}
}

func TestMilestoneAtClamps(t *testing.T) {
	if got := MilestoneAt(-5); got.ID != MilestoneElfSortingStation {
		t.Errorf("MilestoneAt(-5) = %s, want first entry", got.ID)
	}
	if got := MilestoneAt(99); got.ID != MilestoneNorthPoleWorkshop {
		t.Errorf("MilestoneAt(99) = %s, want last entry", got.ID)
	}
	if got := MilestoneAt(2); got.ID != MilestoneReindeerRunway {
		t.Errorf("MilestoneAt(2) = %s, want %s", got.ID, MilestoneReindeerRunway)
	}
}

func TestMilestoneEmailable(t *testing.T) {
	// All indices except the very first and very last are emailable.
	if MilestoneEmailable(0) {
		t.Error("first index should not be emailable")
	}
	if MilestoneEmailable(FinalMilestoneIndex()) {
		t.Error("final index should not be emailable")
	}
	for i := 1; i < FinalMilestoneIndex(); i++ {
		if !MilestoneEmailable(i) {
			t.Errorf("index %d should be emailable", i)
		}
	}
}
