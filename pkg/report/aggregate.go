package report

import (
	"sort"

	"github.com/harness-community/fme-report/pkg/model"
)

// topOwners caps the owners table in the summary section.
const topOwners = 10

// Aggregate folds the fetched workspace set into one AggregateReport. It is
// a pure function of its input: the slices are read, never mutated.
func Aggregate(workspaces []model.Workspace) model.AggregateReport {
	agg := model.AggregateReport{TotalWorkspaces: len(workspaces)}

	owners := map[string]int{}
	statuses := map[string]int{}
	tags := map[string]int{}

	for _, ws := range workspaces {
		agg.TotalFlags += len(ws.Flags)
		agg.FlagsByWorkspace = append(agg.FlagsByWorkspace,
			model.Count{Key: ws.Name, N: len(ws.Flags)})

		for _, flag := range ws.Flags {
			owner := flag.Owner
			if owner == "" {
				owner = model.UnknownOwner
			}
			owners[owner]++

			status := string(flag.Status)
			if status == "" {
				status = string(model.UnknownStatus)
			}
			statuses[status]++

			// Multi-membership: one count per tag. A flag without tags
			// contributes to no tag group.
			for _, tag := range flag.Tags {
				tags[tag]++
			}
		}
	}

	if agg.TotalWorkspaces > 0 {
		agg.AvgFlagsPerWorkspace = float64(agg.TotalFlags) / float64(agg.TotalWorkspaces)
	}

	agg.FlagsByOwner = sortedCounts(owners)
	if len(agg.FlagsByOwner) > topOwners {
		agg.FlagsByOwner = agg.FlagsByOwner[:topOwners]
	}
	agg.FlagsByStatus = sortedCounts(statuses)
	agg.FlagsByTag = sortedCounts(tags)

	return agg
}

// sortedCounts orders a group-by table descending by count, ties broken by
// key ascending, so rendering is deterministic.
func sortedCounts(groups map[string]int) []model.Count {
	counts := make([]model.Count, 0, len(groups))
	for key, n := range groups {
		counts = append(counts, model.Count{Key: key, N: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].N != counts[j].N {
			return counts[i].N > counts[j].N
		}
		return counts[i].Key < counts[j].Key
	})
	return counts
}
