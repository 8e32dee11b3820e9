package service

import (
	"sort"

	"pairtime-api/modules/slot/entity"
)

// Snapshot is everything one recomputation reads. It is treated as immutable.
type Snapshot struct {
	Mine       []entity.TimeSlot
	Partner    []entity.TimeSlot
	ParentMode bool
	Phase      *entity.EnergyPhase
	Locale     string
}

// SuggestionGenerator intersects two users' availability into ranked suggestions
type SuggestionGenerator struct {
	// MicroDurations in minutes, offered in parent mode
	MicroDurations []int
	// MicroReason labels every micro suggestion
	MicroReason string
}

// NewSuggestionGenerator creates a generator with default settings
func NewSuggestionGenerator() *SuggestionGenerator {
	return &SuggestionGenerator{
		MicroDurations: []int{10, 20},
		MicroReason:    "quick check-in",
	}
}

type window struct {
	start, end int
}

func slotWindow(s entity.TimeSlot) window {
	return window{start: ParseTime(s.Start), end: ParseTime(s.End)}
}

// Generate computes the ranked suggestion list for snap.Mine's owner. It is
// total and side-effect free, so it is safe to rerun on every input change.
func (g *SuggestionGenerator) Generate(snap Snapshot) []entity.Suggestion {
	// 1. Partner availability: only open partner windows count
	partnerFree := make(map[string][]window)
	for _, p := range snap.Partner {
		if p.Occupied() {
			continue
		}
		partnerFree[p.Date] = append(partnerFree[p.Date], slotWindow(p))
	}

	// 2. Caller busy windows veto any suggestion they touch that day
	busy := make(map[string][]window)
	for _, s := range snap.Mine {
		if s.Occupied() {
			busy[s.Date] = append(busy[s.Date], slotWindow(s))
		}
	}

	// 3. Intersect each open own window with partner windows on the same date
	suggestions := []entity.Suggestion{}
	for _, own := range snap.Mine {
		if own.Occupied() {
			continue
		}
		ownWin := slotWindow(own)

		for _, p := range partnerFree[own.Date] {
			inter := window{start: max(ownWin.start, p.start), end: min(ownWin.end, p.end)}
			if inter.start >= inter.end {
				continue
			}
			if g.vetoed(inter, busy[own.Date]) {
				continue
			}

			suggestions = append(suggestions, g.suggest(own.Date, inter, snap.Phase, snap.Locale))
			if snap.ParentMode {
				suggestions = append(suggestions, g.microSuggestions(own.Date, inter, snap.Locale)...)
			}
		}
	}

	// 4. Rank by match, keeping discovery order on ties
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchValue() > suggestions[j].MatchValue()
	})

	return suggestions
}

func (g *SuggestionGenerator) vetoed(w window, busy []window) bool {
	for _, b := range busy {
		if overlaps(w.start, w.end, b.start, b.end) {
			return true
		}
	}
	return false
}

func (g *SuggestionGenerator) suggest(date string, w window, phase *entity.EnergyPhase, locale string) entity.Suggestion {
	match, reason := Score(date, w.start, phase)
	start, end := FormatTime(w.start), FormatTime(w.end)
	return entity.Suggestion{
		Date:    date,
		Start:   start,
		End:     end,
		Display: FormatDisplay(date, start, end, locale),
		Match:   FormatMatch(match),
		Reason:  reason,
	}
}

// microSuggestions carves short windows from the start of w. A duration that
// does not fit, or that would equal w itself, is skipped.
func (g *SuggestionGenerator) microSuggestions(date string, w window, locale string) []entity.Suggestion {
	var micros []entity.Suggestion
	for _, d := range g.MicroDurations {
		if d <= 0 || w.start+d >= w.end {
			continue
		}
		start, end := FormatTime(w.start), FormatTime(w.start+d)
		micros = append(micros, entity.Suggestion{
			Date:    date,
			Start:   start,
			End:     end,
			Display: FormatDisplay(date, start, end, locale),
			Match:   FormatMatch(100),
			Reason:  g.MicroReason,
			Micro:   true,
		})
	}
	return micros
}
