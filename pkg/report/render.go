package report

import (
	"fmt"
	"io"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/harness-community/fme-report/pkg/model"
)

const lineWidth = 80

// displayLocation is the fixed display timezone for every timestamp in the
// report. Loading the IANA zone keeps the daylight-saving offset correct at
// each flag's creation instant.
var displayLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EDT", -4*3600)
	}
	return loc
}()

// Render writes the full plain-text report: the per-workspace flag details
// followed by the summary statistics. It never mutates or reorders its
// inputs, and identical inputs produce identical output.
func Render(w io.Writer, workspaces []model.Workspace, agg model.AggregateReport, now time.Time) error {
	var b strings.Builder

	heavy := strings.Repeat("=", lineWidth)
	light := strings.Repeat("-", lineWidth)

	fmt.Fprintln(&b, heavy)
	fmt.Fprintln(&b, "FEATURE FLAG MANAGEMENT REPORT")
	fmt.Fprintln(&b, "Harness FME")
	fmt.Fprintf(&b, "Generated: %s\n", formatEastern(now))
	fmt.Fprintln(&b, heavy)

	for _, ws := range workspaces {
		fmt.Fprintf(&b, "\n%s\n", light)
		fmt.Fprintf(&b, "WORKSPACE: %s\n", ws.Name)
		fmt.Fprintln(&b, light)

		if len(ws.Flags) == 0 {
			fmt.Fprintln(&b, "  No feature flags found")
			continue
		}

		fmt.Fprintf(&b, "\nFeature Flags: %d\n\n", len(ws.Flags))
		for _, flag := range ws.Flags {
			fmt.Fprintf(&b, "  [%s] %s\n", flag.Status, flag.Name)
			fmt.Fprintf(&b, "    Owner: %s\n", flag.Owner)
			if flag.Description != "" {
				fmt.Fprintf(&b, "    Description: %s\n", flag.Description)
			}
			if len(flag.Tags) > 0 {
				fmt.Fprintf(&b, "    Tags: %s\n", strings.Join(flag.Tags, ", "))
			}
			fmt.Fprintf(&b, "    Created: %s\n\n", formatEastern(flag.CreationTime))
		}
	}

	fmt.Fprintf(&b, "\n%s\n", heavy)
	fmt.Fprintln(&b, "SUMMARY STATISTICS")
	fmt.Fprintln(&b, heavy)

	fmt.Fprintln(&b, "\nOVERALL METRICS")
	fmt.Fprintf(&b, "  Total Workspaces: %d\n", agg.TotalWorkspaces)
	fmt.Fprintf(&b, "  Total Feature Flags: %d\n", agg.TotalFlags)
	fmt.Fprintf(&b, "  Average Flags per Workspace: %.2f\n", agg.AvgFlagsPerWorkspace)

	fmt.Fprintln(&b, "\nFLAGS BY WORKSPACE")
	for _, row := range agg.FlagsByWorkspace {
		fmt.Fprintf(&b, "  %s: %d\n", row.Key, row.N)
	}

	fmt.Fprintln(&b, "\nTOP FLAG OWNERS")
	for _, row := range agg.FlagsByOwner {
		fmt.Fprintf(&b, "  %s: %d\n", row.Key, row.N)
	}

	fmt.Fprintln(&b, "\nFLAGS BY ROLLOUT STATUS")
	for _, row := range agg.FlagsByStatus {
		if agg.TotalFlags > 0 {
			fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", row.Key, row.N,
				float64(row.N)/float64(agg.TotalFlags)*100)
		} else {
			fmt.Fprintf(&b, "  %s: %d\n", row.Key, row.N)
		}
	}

	fmt.Fprintln(&b, "\nFLAGS BY TAG")
	for _, row := range agg.FlagsByTag {
		fmt.Fprintf(&b, "  %s: %d\n", row.Key, row.N)
	}

	fmt.Fprintf(&b, "\n%s\n", heavy)
	fmt.Fprintln(&b, "END OF REPORT")
	fmt.Fprintln(&b, heavy)

	_, err := io.WriteString(w, b.String())
	return err
}

func formatEastern(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.In(displayLocation).Format("2006-01-02 15:04:05 MST")
}
