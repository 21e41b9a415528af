package runtime

import (
	"context"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harness-community/fme-report/pkg/provider"
	"github.com/harness-community/fme-report/pkg/report"
)

// Run executes the report pipeline once: fetch every workspace and its
// flags, aggregate, render to out. Any fetch failure aborts the run before
// anything is written, so a fatal error never leaves a partial report on
// out.
func Run(ctx context.Context, p provider.IProvider, out io.Writer, now time.Time) error {
	log.Info("fetching workspaces from FME API")
	workspaces, err := p.ListWorkspaces(ctx)
	if err != nil {
		return err
	}
	log.Infof("found %d workspace(s)", len(workspaces))

	for i := range workspaces {
		// A workspace record without an ID still shows up in the report,
		// but its flags cannot be fetched.
		if workspaces[i].ID == "" {
			log.Warnf("workspace %s has no ID, skipping flag fetch", workspaces[i].Name)
			continue
		}
		flags, err := p.ListFlags(ctx, workspaces[i].ID)
		if err != nil {
			return err
		}
		workspaces[i].Flags = flags
		log.Debugf("workspace %s: %d flag(s)", workspaces[i].Name, len(flags))
	}

	agg := report.Aggregate(workspaces)
	return report.Render(out, workspaces, agg, now)
}
