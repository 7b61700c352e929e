package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

// HTTPVerifier resolves tokens against the backend's verify endpoint.
// Invalid tokens come back as (nil, nil), matching the silent-clear policy.
type HTTPVerifier struct {
	serverURL string
	client    *http.Client
}

var _ interfaces.TokenVerifier = (*HTTPVerifier)(nil)

func NewHTTPVerifier(serverURL string) *HTTPVerifier {
	return &HTTPVerifier{
		serverURL: serverURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*types.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.serverURL+"/api/auth/verify", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify failed: %s", resp.Status)
	}

	var body struct {
		User *types.Identity `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.User, nil
}
