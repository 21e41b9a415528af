package model

import "time"

// UnknownOwner is the bucket flags without a resolvable owner are counted
// under. It is also what the renderer prints for such flags.
const UnknownOwner = "unknown"

// UnknownStatus is used when the API omits a flag's rollout status.
const UnknownStatus RolloutStatus = "Unknown"

type RolloutStatus string

type Flag struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Owner        string        `json:"owner"`
	Tags         []string      `json:"tags"`
	CreationTime time.Time     `json:"creationTime"`
	Status       RolloutStatus `json:"rolloutStatus"`
	WorkspaceID  string        `json:"-"`
}

type Workspace struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Flags []Flag `json:"flags"`
}

// Count is one row of an ordered group-by table. Plain maps cannot carry
// the ordering the report needs.
type Count struct {
	Key string
	N   int
}

// AggregateReport is a pure function of the fetched workspace set; it holds
// no state of its own and must be recomputed whenever the input changes.
type AggregateReport struct {
	TotalWorkspaces      int
	TotalFlags           int
	AvgFlagsPerWorkspace float64
	FlagsByWorkspace     []Count
	FlagsByOwner         []Count
	FlagsByStatus        []Count
	FlagsByTag           []Count
}
