package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/diva/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGetDeviceReturnsStatusAndBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1alpha2/projects/proj-1/devices/dev-1", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}))
	t.Cleanup(server.Close)

	client := Client{BaseURL: server.URL + "/v1alpha2", HTTPClient: server.Client()}

	status, body, err := client.GetDevice(context.Background(), "proj-1", "dev-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"not found"}`, string(body))
}

func TestCreateDevicePostsDeviceMetadata(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/proj-1/devices", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, map[string]string{
			"id":          "dev-1",
			"model_id":    "model-1",
			"client_type": "SDK_LIBRARY",
		}, payload)

		_, _ = w.Write([]byte(`{"id":"dev-1"}`))
	}))
	t.Cleanup(server.Close)

	client := Client{BaseURL: server.URL, HTTPClient: server.Client()}

	status, _, err := client.CreateDevice(context.Background(), "proj-1", domain.Device{ID: "dev-1", ModelID: "model-1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestClientRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		client  Client
		call    func(Client) error
		wantErr string
	}{
		{
			name:   "missing project",
			client: Client{BaseURL: "https://registry.example.com"},
			call: func(c Client) error {
				_, _, err := c.GetDevice(context.Background(), "", "dev-1")
				return err
			},
			wantErr: "project id is required",
		},
		{
			name:   "missing device id",
			client: Client{BaseURL: "https://registry.example.com"},
			call: func(c Client) error {
				_, _, err := c.GetDevice(context.Background(), "proj", "")
				return err
			},
			wantErr: "device id is required",
		},
		{
			name:   "missing model id",
			client: Client{BaseURL: "https://registry.example.com"},
			call: func(c Client) error {
				_, _, err := c.CreateDevice(context.Background(), "proj", domain.Device{ID: "dev"})
				return err
			},
			wantErr: "device model id is required",
		},
		{
			name:   "bad scheme",
			client: Client{BaseURL: "ftp://registry.example.com"},
			call: func(c Client) error {
				_, _, err := c.GetDevice(context.Background(), "proj", "dev")
				return err
			},
			wantErr: "must use http or https",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call(tc.client)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestAuthorizedHTTPClientSendsBearerToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "token-abc", TokenType: "Bearer"})
	client := Client{BaseURL: server.URL, HTTPClient: NewAuthorizedHTTPClient(tokens)}

	status, _, err := client.GetDevice(context.Background(), "proj", "dev")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}
