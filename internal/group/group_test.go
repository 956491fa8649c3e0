package group

import (
	"fmt"
	"testing"
)

func tracks(durations ...float64) []Track {
	out := make([]Track, len(durations))
	for i, d := range durations {
		id := i + 1
		out[i] = Track{
			ChapterID: id,
			Path:      fmt.Sprintf("audio/ch_%d.mp3", id),
			Seconds:   d,
		}
	}
	return out
}

func TestBuildTargetScenario(t *testing.T) {
	// Five 40-minute chapters with a two-hour target: [1-3] at 120 min,
	// then the trailing partial [4-5] at 80 min.
	const min = 60.0
	groups := Build(tracks(40*min, 40*min, 40*min, 40*min, 40*min), 120*min)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].StartID != 1 || groups[0].EndID != 3 || groups[0].TotalSeconds != 120*min {
		t.Fatalf("first group = %+v", groups[0])
	}
	if groups[1].StartID != 4 || groups[1].EndID != 5 || groups[1].TotalSeconds != 80*min {
		t.Fatalf("second group = %+v", groups[1])
	}
	if groups[0].Key() != "1_3" || groups[1].Key() != "4_5" {
		t.Fatalf("keys = %q, %q", groups[0].Key(), groups[1].Key())
	}
}

func TestBuildClosesOnExactTarget(t *testing.T) {
	// The >= check closes the group on the unit that reaches the target
	// precisely, not the one after it.
	groups := Build(tracks(60, 60), 120)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].EndID != 2 || groups[0].TotalSeconds != 120 {
		t.Fatalf("group = %+v", groups[0])
	}
}

func TestBuildOversizedSingleTrack(t *testing.T) {
	groups := Build(tracks(500, 10, 10), 100)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].StartID != 1 || groups[0].EndID != 1 {
		t.Fatalf("oversized track should form its own group: %+v", groups[0])
	}
	if groups[1].StartID != 2 || groups[1].EndID != 3 {
		t.Fatalf("trailing group = %+v", groups[1])
	}
}

func TestBuildEmptyInput(t *testing.T) {
	if groups := Build(nil, 100); len(groups) != 0 {
		t.Fatalf("empty input should yield no groups, got %v", groups)
	}
}

func TestBuildPreservesOrderAndMembership(t *testing.T) {
	durations := []float64{33, 7, 120, 5, 5, 5, 90, 41, 2, 300, 1}
	input := tracks(durations...)

	for _, target := range []float64{1, 40, 100, 1000} {
		t.Run(fmt.Sprintf("target_%v", target), func(t *testing.T) {
			groups := Build(input, target)

			// Concatenating the groups' member ids must reconstruct the
			// input order exactly: no omission, duplication, or reorder.
			var flat []int
			for _, g := range groups {
				if len(g.Tracks) == 0 {
					t.Fatalf("empty group emitted: %+v", g)
				}
				if g.StartID != g.Tracks[0].ChapterID || g.EndID != g.Tracks[len(g.Tracks)-1].ChapterID {
					t.Fatalf("group bounds do not match members: %+v", g)
				}
				for _, tr := range g.Tracks {
					flat = append(flat, tr.ChapterID)
				}
			}
			if len(flat) != len(input) {
				t.Fatalf("got %d members across groups, want %d", len(flat), len(input))
			}
			for i, id := range flat {
				if id != input[i].ChapterID {
					t.Fatalf("order broken at %d: got %d want %d", i, id, input[i].ChapterID)
				}
			}

			// Every group except the last must have reached the target.
			for i, g := range groups[:len(groups)-1] {
				if g.TotalSeconds < target {
					t.Fatalf("group %d under target: %+v", i, g)
				}
			}
		})
	}
}

func TestGroupPaths(t *testing.T) {
	g := Build(tracks(10, 10), 100)[0]
	paths := g.Paths()
	if len(paths) != 2 || paths[0] != "audio/ch_1.mp3" || paths[1] != "audio/ch_2.mp3" {
		t.Fatalf("paths = %v", paths)
	}
}
