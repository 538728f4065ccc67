package matching

import (
	"sync"
	"testing"

	"github.com/jonathan/job-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDemandTable_CountsPostingsOnce(t *testing.T) {
	table := NewDemandTableFromStrings([]string{"go, Go, docker", "go", "", "docker,  kubernetes "})
	assert.Equal(t, 2, table.Demand("go"))
	assert.Equal(t, 2, table.Demand("docker"))
	assert.Equal(t, 1, table.Demand("kubernetes"))
	assert.Equal(t, 0, table.Demand("rust"))
	assert.Equal(t, 4, table.Postings())
}

func TestDemandTable_Nil(t *testing.T) {
	var table *DemandTable
	assert.Equal(t, 0, table.Demand("go"))
	assert.Equal(t, 0, table.Postings())
	assert.Empty(t, table.Top(5))
	assert.Equal(t, []types.PrioritizedSkill{{Skill: "go"}}, table.Prioritize([]string{"go"}))
}

func TestTopSkills(t *testing.T) {
	corpus := []types.CorpusPosting{
		{Requirements: []string{"Python", "SQL"}},
		{Requirements: []string{"sql", "Go"}},
		{Requirements: []string{"Go", "SQL", "AWS"}},
	}

	assert.Equal(t, []types.SkillCount{
		{Skill: "sql", Count: 3},
		{Skill: "go", Count: 2},
	}, TopSkills(corpus, 2))

	all := TopSkills(corpus, 0)
	assert.Len(t, all, 4)
	assert.Equal(t, "python", all[2].Skill, "ties keep first-seen order")
	assert.Equal(t, "aws", all[3].Skill)

	assert.Empty(t, TopSkills(nil, 5))
}

func TestDemandTable_ConcurrentReads(t *testing.T) {
	table := NewDemandTableFromStrings([]string{"go, aws", "aws"})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 2, table.Demand("aws"))
			assert.Len(t, table.Top(1), 1)
		}()
	}
	wg.Wait()
}
