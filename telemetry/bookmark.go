package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkChainReaction  BookmarkType = "chain_reaction"
	BookmarkAtomSurge      BookmarkType = "atom_surge"
	BookmarkContainment    BookmarkType = "containment"
	BookmarkCriticalThreat BookmarkType = "critical_threat"
	BookmarkPlayerDown     BookmarkType = "player_down"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a game.
type BookmarkDetector struct {
	maxThreat int

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentAtomMin  int
	recentAtomPeak int
	threatReported bool
	downReported   bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize, maxThreat int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		maxThreat:     maxThreat,
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		recentAtomMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkChainReaction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkAtomSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkContainment(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCriticalThreat(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPlayerDown(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if bd.recentAtomMin < 0 || stats.Atoms < bd.recentAtomMin {
		bd.recentAtomMin = stats.Atoms
	}
	if stats.Atoms > bd.recentAtomPeak {
		bd.recentAtomPeak = stats.Atoms
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkChainReaction fires when a window has more than twice the average fissions.
func (bd *BookmarkDetector) checkChainReaction(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Fissions
	}
	avg := float64(total) / float64(len(history))

	if stats.Fissions >= 5 && float64(stats.Fissions) > avg*2 {
		return &Bookmark{
			Type:        BookmarkChainReaction,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d fissions, %.1fx the average %.1f", stats.Fissions, float64(stats.Fissions)/max(avg, 1), avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkAtomSurge(stats WindowStats) *Bookmark {
	if bd.recentAtomMin < 0 {
		return nil
	}
	floor := max(bd.recentAtomMin, 1)
	if stats.Atoms >= floor*3 && stats.Atoms >= 20 {
		oldMin := bd.recentAtomMin
		bd.recentAtomMin = stats.Atoms
		return &Bookmark{
			Type:        BookmarkAtomSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Atoms surged from %d to %d", oldMin, stats.Atoms),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkContainment(stats WindowStats) *Bookmark {
	if bd.recentAtomPeak < 10 {
		return nil
	}
	drop := 1.0 - float64(stats.Atoms)/float64(bd.recentAtomPeak)
	if drop > 0.5 {
		oldPeak := bd.recentAtomPeak
		bd.recentAtomPeak = stats.Atoms
		return &Bookmark{
			Type:        BookmarkContainment,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Atoms cut %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Atoms),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCriticalThreat(stats WindowStats) *Bookmark {
	if bd.threatReported || bd.maxThreat <= 0 || stats.Threat < bd.maxThreat {
		return nil
	}
	bd.threatReported = true
	return &Bookmark{
		Type:        BookmarkCriticalThreat,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Threat reached %d with %d atoms", stats.Threat, stats.Atoms),
	}
}

func (bd *BookmarkDetector) checkPlayerDown(stats WindowStats) *Bookmark {
	if bd.downReported || stats.PlayerHealth > 0 {
		return nil
	}
	bd.downReported = true
	return &Bookmark{
		Type:        BookmarkPlayerDown,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Player destroyed after %d reactions", stats.TotalEvents),
	}
}
