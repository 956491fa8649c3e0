// Package group partitions an ordered chapter sequence into contiguous
// groups whose cumulative audio duration reaches a target. Grouping is
// greedy on purpose: narrative order must be preserved exactly, so
// bin-packing that reorders chapters between videos is off the table even
// when it would waste less duration.
package group

import "fmt"

// Track is one synthesized chapter annotated with its probed duration.
type Track struct {
	ChapterID int
	Path      string
	Seconds   float64
}

// Group is a contiguous run of tracks rendered into one video.
type Group struct {
	StartID      int
	EndID        int
	Tracks       []Track
	TotalSeconds float64
}

// Key returns the group's artifact key, e.g. "1_3".
func (g Group) Key() string {
	return fmt.Sprintf("%d_%d", g.StartID, g.EndID)
}

// Paths returns the member audio paths in chapter order.
func (g Group) Paths() []string {
	paths := make([]string, len(g.Tracks))
	for i, tr := range g.Tracks {
		paths[i] = tr.Path
	}
	return paths
}

// Build partitions tracks (already in ascending chapter order) into groups.
// A group closes on the track that brings its cumulative duration to
// targetSeconds or beyond; a non-empty trailing group is emitted even when
// under target. A single track is never split across groups, so one track
// longer than the target forms its own group. Empty input yields no groups.
func Build(tracks []Track, targetSeconds float64) []Group {
	var groups []Group
	var current []Track
	var total float64

	for _, tr := range tracks {
		current = append(current, tr)
		total += tr.Seconds

		if total >= targetSeconds {
			groups = append(groups, finish(current, total))
			current = nil
			total = 0
		}
	}

	if len(current) > 0 {
		groups = append(groups, finish(current, total))
	}

	return groups
}

func finish(tracks []Track, total float64) Group {
	return Group{
		StartID:      tracks[0].ChapterID,
		EndID:        tracks[len(tracks)-1].ChapterID,
		Tracks:       tracks,
		TotalSeconds: total,
	}
}
