package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harness-community/fme-report/pkg/model"
)

type stubProvider struct {
	workspaces    []model.Workspace
	flags         map[string][]model.Flag
	workspacesErr error
	flagsErr      error
	flagCalls     []string
}

func (s *stubProvider) ListWorkspaces(_ context.Context) ([]model.Workspace, error) {
	return s.workspaces, s.workspacesErr
}

func (s *stubProvider) ListFlags(_ context.Context, workspaceID string) ([]model.Flag, error) {
	s.flagCalls = append(s.flagCalls, workspaceID)
	return s.flags[workspaceID], s.flagsErr
}

func TestRun_Success_RendersFullReport(t *testing.T) {
	p := &stubProvider{
		workspaces: []model.Workspace{{ID: "ws-1", Name: "Payments"}},
		flags: map[string][]model.Flag{
			"ws-1": {
				{Name: "f1", Owner: "a@example.com", Status: "ACTIVE"},
				{Name: "f2", Owner: "a@example.com", Status: "KILLED"},
			},
		},
	}

	var out strings.Builder
	err := Run(context.Background(), p, &out, time.Now())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "WORKSPACE: Payments")
	assert.Contains(t, out.String(), "Total Feature Flags: 2")
	assert.Contains(t, out.String(), "END OF REPORT")
}

func TestRun_WorkspaceWithoutID_SkippedNotFatal(t *testing.T) {
	p := &stubProvider{
		workspaces: []model.Workspace{
			{Name: "Orphan"},
			{ID: "ws-1", Name: "Payments"},
		},
		flags: map[string][]model.Flag{
			"ws-1": {{Name: "f1", Owner: "a@example.com", Status: "ACTIVE"}},
		},
	}

	var out strings.Builder
	err := Run(context.Background(), p, &out, time.Now())
	require.NoError(t, err)

	// No flag fetch is attempted for the ID-less workspace, but it still
	// appears in the report with an empty flag list.
	assert.NotContains(t, p.flagCalls, "")
	assert.Contains(t, out.String(), "WORKSPACE: Orphan")
	assert.Contains(t, out.String(), "No feature flags found")
	assert.Contains(t, out.String(), "Total Feature Flags: 1")
}

func TestRun_WorkspaceFetchFails_NoOutput(t *testing.T) {
	p := &stubProvider{workspacesErr: model.ErrSourceUnavailable}

	var out strings.Builder
	err := Run(context.Background(), p, &out, time.Now())

	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
	assert.Empty(t, out.String())
}

func TestRun_FlagFetchFails_NoOutput(t *testing.T) {
	p := &stubProvider{
		workspaces: []model.Workspace{{ID: "ws-1", Name: "Payments"}},
		flagsErr:   errors.New("boom"),
	}

	var out strings.Builder
	err := Run(context.Background(), p, &out, time.Now())

	assert.Error(t, err)
	assert.Empty(t, out.String())
}
