package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver(handler http.Handler) (*UserResolver, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewUserResolver(server.URL, "test-token", "acct-1"), server
}

func TestEmail_NestedDataUser_Resolved(t *testing.T) {
	var gotPath, gotAPIKey, gotAccount string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("x-api-key")
		gotAccount = r.Header.Get("Harness-Account")
		assert.Equal(t, "acct-1", r.URL.Query().Get("accountIdentifier"))
		fmt.Fprint(w, `{"data": {"user": {"email": "dev@example.com"}}}`)
	})

	r, server := newTestResolver(handler)
	defer server.Close()

	email := r.Email(context.Background(), "u1")

	assert.Equal(t, "dev@example.com", email)
	assert.Equal(t, "/user/aggregate/u1", gotPath)
	assert.Equal(t, "test-token", gotAPIKey)
	assert.Equal(t, "acct-1", gotAccount)
}

func TestEmail_TopLevelEmail_Resolved(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"email": "flat@example.com"}`)
	})

	r, server := newTestResolver(handler)
	defer server.Close()

	assert.Equal(t, "flat@example.com", r.Email(context.Background(), "u1"))
}

func TestEmail_SecondLookup_ServedFromCache(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"data": {"email": "dev@example.com"}}`)
	})

	r, server := newTestResolver(handler)
	defer server.Close()

	first := r.Email(context.Background(), "u1")
	second := r.Email(context.Background(), "u1")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, requests)
}

func TestEmail_LookupFails_FallbackCached(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	})

	r, server := newTestResolver(handler)
	defer server.Close()

	assert.Equal(t, "ID: u1", r.Email(context.Background(), "u1"))
	// The fallback is cached too, a broken user does not get re-fetched.
	assert.Equal(t, "ID: u1", r.Email(context.Background(), "u1"))
	assert.Equal(t, 1, requests)
}

func TestEmail_NoEmailInResponse_FallbackID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"user": {"name": "no email here"}}}`)
	})

	r, server := newTestResolver(handler)
	defer server.Close()

	assert.Equal(t, "ID: u1", r.Email(context.Background(), "u1"))
}
