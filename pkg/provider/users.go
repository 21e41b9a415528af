package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
)

// UserResolver turns Harness user IDs into email addresses via the NG user
// aggregate endpoint. Results are cached for the lifetime of the resolver,
// so each distinct owner costs at most one request per run. A failed lookup
// degrades to an "ID: <userID>" placeholder and never fails the report.
type UserResolver struct {
	BaseURL   string
	APIToken  string
	AccountID string

	client *retryablehttp.Client
	cache  map[string]string
}

func NewUserResolver(baseURL string, apiToken string, accountID string) *UserResolver {
	return &UserResolver{
		BaseURL:   baseURL,
		APIToken:  apiToken,
		AccountID: accountID,
		client:    newRetryClient(),
		cache:     map[string]string{},
	}
}

func (r *UserResolver) Email(ctx context.Context, userID string) string {
	if email, ok := r.cache[userID]; ok {
		return email
	}

	email, err := r.fetchEmail(ctx, userID)
	if err != nil {
		log.Warnf("could not resolve user %s: %v", userID, err)
		email = "ID: " + userID
	}

	r.cache[userID] = email
	return email
}

func (r *UserResolver) fetchEmail(ctx context.Context, userID string) (string, error) {
	url := fmt.Sprintf("%s/user/aggregate/%s?accountIdentifier=%s", r.BaseURL, userID, r.AccountID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", r.APIToken)
	req.Header.Set("Harness-Account", r.AccountID)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("user lookup returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	// The aggregate endpoint has shipped the email under several shapes over
	// time; probe them in order.
	for _, path := range [][]string{
		{"data", "user", "email"},
		{"data", "email"},
		{"user", "email"},
		{"email"},
	} {
		if email := lookupString(payload, path); email != "" {
			return email, nil
		}
	}
	return "", fmt.Errorf("no email in user aggregate response")
}

func lookupString(payload map[string]interface{}, path []string) string {
	current := interface{}(payload)
	for _, key := range path {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current = obj[key]
	}
	s, _ := current.(string)
	return s
}
