package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/diva/internal/domain"
	"github.com/bnema/diva/internal/ports"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://embeddedassistant.googleapis.com/v1alpha2"

const maxResponseBytes = 1 << 20

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type deviceRequest struct {
	ID         string `json:"id"`
	ModelID    string `json:"model_id"`
	ClientType string `json:"client_type"`
}

var _ ports.DeviceRegistry = Client{}

// NewAuthorizedHTTPClient returns a client that signs every request with a
// bearer token from tokens and traces it through otelhttp.
func NewAuthorizedHTTPClient(tokens oauth2.TokenSource) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: tokens,
			Base:   otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c Client) GetDevice(ctx context.Context, projectID, deviceID string) (int, []byte, error) {
	if deviceID == "" {
		return 0, nil, errors.New("device id is required")
	}

	endpoint, err := c.devicesURL(projectID, deviceID)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create device lookup request: %w", err)
	}

	return c.do(req, "look up device")
}

func (c Client) CreateDevice(ctx context.Context, projectID string, device domain.Device) (int, []byte, error) {
	if device.ID == "" {
		return 0, nil, errors.New("device id is required")
	}
	if device.ModelID == "" {
		return 0, nil, errors.New("device model id is required")
	}

	endpoint, err := c.devicesURL(projectID, "")
	if err != nil {
		return 0, nil, err
	}

	clientType := device.ClientType
	if clientType == "" {
		clientType = domain.ClientTypeSDKLibrary
	}
	payload, err := json.Marshal(deviceRequest{ID: device.ID, ModelID: device.ModelID, ClientType: clientType})
	if err != nil {
		return 0, nil, fmt.Errorf("encode device: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("create device registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "register device")
}

func (c Client) do(req *http.Request, action string) (int, []byte, error) {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s: read response: %w", action, err)
	}

	return resp.StatusCode, body, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) devicesURL(projectID, deviceID string) (string, error) {
	if projectID == "" {
		return "", errors.New("project id is required")
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("parse registry base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("registry base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("registry base url host is required")
	}

	path := parsed.Path + "/projects/" + url.PathEscape(projectID) + "/devices"
	if deviceID != "" {
		path += "/" + url.PathEscape(deviceID)
	}
	parsed.Path = path
	parsed.RawPath = ""

	return parsed.String(), nil
}
