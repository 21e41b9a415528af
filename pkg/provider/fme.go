package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"github.com/harness-community/fme-report/pkg/model"
)

// pageLimit is the page size requested from the list endpoints.
const pageLimit = 50

type userResolver interface {
	Email(ctx context.Context, userID string) string
}

// FMEProvider reads workspaces and feature flags from the Harness FME
// (Split.io) internal API. It exhausts pagination on every listing, so
// callers always receive complete slices.
type FMEProvider struct {
	BaseURL  string
	APIToken string
	Users    userResolver

	client *retryablehttp.Client
}

func NewFME(baseURL string, apiToken string, users userResolver) *FMEProvider {
	return &FMEProvider{
		BaseURL:  baseURL,
		APIToken: apiToken,
		Users:    users,
		client:   newRetryClient(),
	}
}

// newRetryClient builds the HTTP client used against both Harness APIs.
// Retries live here, inside the source collaborator; the aggregation and
// rendering code never retries anything.
func newRetryClient() *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.RetryMax = 3
	rc.Logger = nil
	return rc
}

func (p *FMEProvider) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	records, err := p.list(ctx, p.BaseURL+"/workspaces")
	if err != nil {
		return nil, fmt.Errorf("fetching workspaces: %w", err)
	}

	workspaces := make([]model.Workspace, 0, len(records))
	for _, raw := range records {
		var ws struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &ws); err != nil {
			log.Warnf("skipping malformed workspace record: %v", err)
			continue
		}
		if ws.Name == "" {
			ws.Name = "N/A"
		}
		workspaces = append(workspaces, model.Workspace{ID: ws.ID, Name: ws.Name})
	}
	return workspaces, nil
}

func (p *FMEProvider) ListFlags(ctx context.Context, workspaceID string) ([]model.Flag, error) {
	records, err := p.list(ctx, p.BaseURL+"/splits/ws/"+workspaceID)
	if err != nil {
		return nil, fmt.Errorf("fetching flags for workspace %s: %w", workspaceID, err)
	}

	flags := make([]model.Flag, 0, len(records))
	for _, raw := range records {
		flags = append(flags, p.decodeFlag(ctx, raw, workspaceID))
	}
	return flags, nil
}

type rawFlag struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CreationTime  int64  `json:"creationTime"`
	RolloutStatus struct {
		Name string `json:"name"`
	} `json:"rolloutStatus"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
	Owners []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"owners"`
}

// decodeFlag maps one API record to a model.Flag. Missing fields degrade to
// placeholders, they never fail the report.
func (p *FMEProvider) decodeFlag(ctx context.Context, raw json.RawMessage, workspaceID string) model.Flag {
	var rf rawFlag
	if err := json.Unmarshal(raw, &rf); err != nil {
		log.Warnf("malformed flag record in workspace %s: %v", workspaceID, err)
	}

	flag := model.Flag{
		Name:        rf.Name,
		Description: rf.Description,
		Owner:       p.resolveOwner(ctx, rf),
		Status:      model.RolloutStatus(rf.RolloutStatus.Name),
		WorkspaceID: workspaceID,
	}
	if flag.Name == "" {
		flag.Name = "N/A"
	}
	if flag.Status == "" {
		flag.Status = model.UnknownStatus
	}
	if rf.CreationTime > 0 {
		flag.CreationTime = time.UnixMilli(rf.CreationTime).UTC()
	}

	// Tag sets are deduplicated; the first occurrence wins the position.
	seen := map[string]bool{}
	for _, tag := range rf.Tags {
		if tag.Name == "" || seen[tag.Name] {
			continue
		}
		seen[tag.Name] = true
		flag.Tags = append(flag.Tags, tag.Name)
	}

	return flag
}

func (p *FMEProvider) resolveOwner(ctx context.Context, rf rawFlag) string {
	if len(rf.Owners) == 0 {
		return model.UnknownOwner
	}
	owner := rf.Owners[0]
	switch {
	case owner.ID != "" && owner.Type == "user":
		return p.Users.Email(ctx, owner.ID)
	case owner.ID != "":
		return fmt.Sprintf("ID: %s (type: %s)", owner.ID, owner.Type)
	default:
		return model.UnknownOwner
	}
}

// list pages through a collection endpoint until every record has been
// retrieved.
func (p *FMEProvider) list(ctx context.Context, url string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	offset := 0
	for {
		body, err := p.get(ctx, fmt.Sprintf("%s?limit=%d&offset=%d", url, pageLimit, offset))
		if err != nil {
			return nil, err
		}

		records, total, err := decodeListResponse(body)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)

		// An empty page is always terminal. Servers may cap the page size
		// below the requested limit, so a short page only ends the listing
		// when no total count is advertised to page against.
		if len(records) == 0 {
			return all, nil
		}
		if total > 0 {
			if len(all) >= total {
				return all, nil
			}
		} else if len(records) < pageLimit {
			return all, nil
		}
		offset += len(records)
	}
}

func (p *FMEProvider) get(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %s", model.ErrSourceUnavailable, url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", model.ErrSourceUnavailable, err)
	}
	return body, nil
}

// decodeListResponse validates the response envelope and returns the raw
// records plus the advertised total count (0 when the server does not
// report one).
func decodeListResponse(body []byte) ([]json.RawMessage, int, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(listResponseSchema),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: unparseable list response: %v", model.ErrSourceUnavailable, err)
	}
	if !result.Valid() {
		return nil, 0, fmt.Errorf("%w: list response failed schema validation: %v",
			model.ErrSourceUnavailable, result.Errors())
	}

	var envelope struct {
		Objects    []json.RawMessage `json:"objects"`
		Data       []json.RawMessage `json:"data"`
		TotalCount int               `json:"totalCount"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Bare array form.
		var records []json.RawMessage
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, 0, fmt.Errorf("%w: undecodable list response: %v", model.ErrSourceUnavailable, err)
		}
		return records, len(records), nil
	}

	if envelope.Objects != nil {
		return envelope.Objects, envelope.TotalCount, nil
	}
	return envelope.Data, envelope.TotalCount, nil
}

var _ IProvider = (*FMEProvider)(nil)
