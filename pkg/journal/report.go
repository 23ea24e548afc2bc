package journal

import (
	"sort"
	"time"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// topPrograms is the number of programs listed in a report.
const topPrograms = 5

// ProgramCount is a program with its number of completed applications.
type ProgramCount struct {
	Program string `json:"program"`
	Count   int    `json:"count"`
}

// Report summarizes sessions within a lookback window.
type Report struct {
	Days        int            `json:"days"`
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Sessions    int            `json:"sessions"`
	Completed   int            `json:"completed"`
	Incomplete  int            `json:"incomplete"`
	DropRate    float64        `json:"drop_rate"`
	TopPrograms []ProgramCount `json:"top_programs"`
	ByCategory  map[string]int `json:"by_category"`
	ByVerdict   map[string]int `json:"by_verdict"`
}

// BuildReport filters records to the last days before now and evaluates the
// latest record of each session. Sessions whose latest record is incomplete
// count as dropped.
func BuildReport(records []Record, days int, now time.Time) Report {
	if days <= 0 {
		days = 1
	}
	from := now.Add(-time.Duration(days) * 24 * time.Hour)

	latest := make(map[string]Record)
	for _, r := range records {
		if r.Timestamp.Before(from) || r.Timestamp.After(now) {
			continue
		}
		if prev, ok := latest[r.SessionID]; ok && prev.Timestamp.After(r.Timestamp) {
			continue
		}
		latest[r.SessionID] = r
	}

	rep := Report{
		Days:        days,
		From:        from,
		To:          now,
		Sessions:    len(latest),
		TopPrograms: []ProgramCount{},
		ByCategory:  make(map[string]int),
		ByVerdict:   make(map[string]int),
	}

	programs := make(map[string]int)
	for _, r := range latest {
		category := r.Category
		if category == "" {
			category = "unknown"
		}
		rep.ByCategory[category]++

		if !r.Completed {
			rep.Incomplete++
			continue
		}
		rep.Completed++
		rep.ByVerdict[string(r.Verdict)]++
		if r.Goal == string(domain.GoalMaster) && r.Program != "" {
			programs[r.Program]++
		}
	}

	if rep.Sessions > 0 {
		rep.DropRate = float64(rep.Incomplete) / float64(rep.Sessions)
	}

	for p, n := range programs {
		rep.TopPrograms = append(rep.TopPrograms, ProgramCount{Program: p, Count: n})
	}
	sort.Slice(rep.TopPrograms, func(i, j int) bool {
		a, b := rep.TopPrograms[i], rep.TopPrograms[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Program < b.Program
	})
	if len(rep.TopPrograms) > topPrograms {
		rep.TopPrograms = rep.TopPrograms[:topPrograms]
	}

	return rep
}
