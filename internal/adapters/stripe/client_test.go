package stripe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupByEmailReturnsFirstMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/customers", r.URL.Path)
		assert.Equal(t, "a@x.com", r.URL.Query().Get("email"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		username, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test", username)

		fmt.Fprint(w, `{"data":[{"id":"cus_123"},{"id":"cus_456"}]}`)
	}))
	defer server.Close()

	client := New(server.URL, "sk_test", server.Client())

	id, err := client.LookupByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_123", id)
}

func TestLookupByEmailNoMatchReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer server.Close()

	client := New(server.URL, "sk_test", server.Client())

	id, err := client.LookupByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestLookupByEmailReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key"}}`)
	}))
	defer server.Close()

	client := New(server.URL, "sk_bad", server.Client())

	id, err := client.LookupByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Contains(t, err.Error(), "status 401")
}
