package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_ChainReaction(t *testing.T) {
	bd := NewBookmarkDetector(10, 4)

	// Quiet history
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 300), Fissions: 2, PlayerHealth: 100})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1500, Fissions: 12, PlayerHealth: 100})
	if !hasBookmark(bookmarks, BookmarkChainReaction) {
		t.Error("expected chain_reaction bookmark")
	}
}

func TestBookmarkDetector_ChainReactionNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10, 4)

	bookmarks := bd.Check(WindowStats{Fissions: 50, PlayerHealth: 100})
	if hasBookmark(bookmarks, BookmarkChainReaction) {
		t.Error("chain_reaction should not fire without history")
	}
}

func TestBookmarkDetector_AtomSurgeAndContainment(t *testing.T) {
	bd := NewBookmarkDetector(10, 4)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 300), Atoms: 8, PlayerHealth: 100})
	}

	surge := bd.Check(WindowStats{WindowEndTick: 900, Atoms: 30, PlayerHealth: 100})
	if !hasBookmark(surge, BookmarkAtomSurge) {
		t.Error("expected atom_surge bookmark")
	}

	contained := bd.Check(WindowStats{WindowEndTick: 1200, Atoms: 6, PlayerHealth: 100})
	if !hasBookmark(contained, BookmarkContainment) {
		t.Error("expected containment bookmark")
	}
}

func TestBookmarkDetector_OneShots(t *testing.T) {
	bd := NewBookmarkDetector(10, 4)

	first := bd.Check(WindowStats{Threat: 4, PlayerHealth: 0})
	if !hasBookmark(first, BookmarkCriticalThreat) {
		t.Error("expected critical_threat bookmark")
	}
	if !hasBookmark(first, BookmarkPlayerDown) {
		t.Error("expected player_down bookmark")
	}

	second := bd.Check(WindowStats{Threat: 4, PlayerHealth: 0})
	if hasBookmark(second, BookmarkCriticalThreat) || hasBookmark(second, BookmarkPlayerDown) {
		t.Error("one-shot bookmarks should fire once")
	}
}
