package provider

import (
	"context"

	"github.com/harness-community/fme-report/pkg/model"
)

// IProvider is the flag source the report pipeline reads from. Both
// listings return complete slices: implementations are responsible for
// exhausting any pagination themselves.
type IProvider interface {
	ListWorkspaces(ctx context.Context) ([]model.Workspace, error)
	ListFlags(ctx context.Context, workspaceID string) ([]model.Flag, error)
}
