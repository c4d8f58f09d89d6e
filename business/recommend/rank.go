package recommend

import (
	"caseLibrary/business/scoring"
	"caseLibrary/domain"
	"sort"
	"time"
)

type candidate struct {
	record   domain.Record
	sources  []domain.RecallSource
	tagMatch float64
	decay    float64
	final    float64
}

// merge unions the recall sets by record id. The first occurrence, in recallOrder,
// supplies the record's fields; later hits only add their source.
func merge(sets map[domain.RecallSource][]domain.Record) []*candidate {
	byID := make(map[string]*candidate)
	var out []*candidate

	for _, source := range recallOrder {
		for _, rec := range sets[source] {
			if c, ok := byID[rec.ID]; ok {
				if !hasSource(c.sources, source) {
					c.sources = append(c.sources, source)
				}
				continue
			}
			c := &candidate{record: rec, sources: []domain.RecallSource{source}}
			byID[rec.ID] = c
			out = append(out, c)
		}
	}
	return out
}

func hasSource(sources []domain.RecallSource, s domain.RecallSource) bool {
	for _, v := range sources {
		if v == s {
			return true
		}
	}
	return false
}

// rank scores every candidate and orders them by final score, then lastUpdateTime
// desc, then id asc.
func rank(candidates []*candidate, userTags []string, policy scoring.Policy, now time.Time) []candidate {
	out := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		c.tagMatch = scoring.TagMatch(c.record.TagNames(), userTags)
		c.decay = scoring.TimeDecay(now, c.record.LastUpdateTime, policy.DecayWindow)
		c.final = policy.Rank.FinalScore(c.record.InteractionScore, c.tagMatch, c.decay)
		out = append(out, *c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.final != b.final {
			return a.final > b.final
		}
		if !a.record.LastUpdateTime.Equal(b.record.LastUpdateTime) {
			return a.record.LastUpdateTime.After(b.record.LastUpdateTime)
		}
		return a.record.ID < b.record.ID
	})
	return out
}
