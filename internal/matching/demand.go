package matching

import (
	"sort"

	"github.com/jonathan/job-matcher/internal/types"
)

// HotDemand is the demand at which a missing skill is flagged as hot.
const HotDemand = 2

// DefaultTopSkills is the number of trending skills shown when no limit is configured.
const DefaultTopSkills = 5

// DemandTable counts how many corpus postings list each requirement. It is built once and
// is safe for concurrent reads.
type DemandTable struct {
	counts map[string]int
	order  []string // first-seen order, for stable ranking
	size   int
}

// NewDemandTable indexes the requirements of every posting. A requirement repeated within
// one posting is counted once.
func NewDemandTable(postings []types.CorpusPosting) *DemandTable {
	lists := make([][]string, len(postings))
	for i, p := range postings {
		lists[i] = p.Requirements
	}
	return newDemandTable(lists)
}

// NewDemandTableFromStrings indexes comma-separated requirement strings, one per posting.
func NewDemandTableFromStrings(requirements []string) *DemandTable {
	lists := make([][]string, len(requirements))
	for i, r := range requirements {
		lists[i] = ParseSkills(r)
	}
	return newDemandTable(lists)
}

func newDemandTable(lists [][]string) *DemandTable {
	t := &DemandTable{counts: make(map[string]int), size: len(lists)}
	for _, list := range lists {
		seen := make(map[string]bool, len(list))
		for _, skill := range NewSkillSet(list) {
			if seen[skill] {
				continue
			}
			seen[skill] = true
			if _, ok := t.counts[skill]; !ok {
				t.order = append(t.order, skill)
			}
			t.counts[skill]++
		}
	}
	return t
}

// Demand returns the number of postings requiring skill. A nil table has no demand.
func (t *DemandTable) Demand(skill string) int {
	if t == nil {
		return 0
	}
	return t.counts[skill]
}

// Postings returns the number of postings indexed.
func (t *DemandTable) Postings() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Top returns the most requested skills, highest count first, ties in first-seen order.
// A limit of zero or less returns every skill.
func (t *DemandTable) Top(limit int) []types.SkillCount {
	if t == nil {
		return []types.SkillCount{}
	}
	out := make([]types.SkillCount, 0, len(t.order))
	for _, skill := range t.order {
		out = append(out, types.SkillCount{Skill: skill, Count: t.counts[skill]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TopSkills returns the trending requirements across postings.
func TopSkills(postings []types.CorpusPosting, limit int) []types.SkillCount {
	return NewDemandTable(postings).Top(limit)
}

// Prioritize tags missing skills with their demand and sorts them by demand, highest
// first. Ties keep their input order.
func (t *DemandTable) Prioritize(missing []string) []types.PrioritizedSkill {
	out := make([]types.PrioritizedSkill, len(missing))
	for i, skill := range missing {
		d := t.Demand(skill)
		out[i] = types.PrioritizedSkill{Skill: skill, Demand: d, IsHot: d >= HotDemand}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Demand > out[j].Demand
	})
	return out
}
