// Package extauth verifies identity tokens minted by the external phone-auth
// provider against its tokeninfo endpoint. It is the only place that knows
// anything provider-specific; the core sees identity.ExternalTokenVerifier.
package extauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labpoint/labportal/internal/domain/identity"
)

var ErrTokenRejected = errors.New("external identity token rejected")

type Verifier struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string) *Verifier {
	return &Verifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfo struct {
	Sub         string `json:"sub"`
	UserID      string `json:"user_id"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

func (v *Verifier) VerifyExternalToken(ctx context.Context, token string) (*identity.ExternalIdentity, error) {
	if token == "" {
		return nil, ErrTokenRejected
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.endpoint+"?id_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("building tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling tokeninfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrTokenRejected
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding tokeninfo response: %w", err)
	}

	uid := info.Sub
	if uid == "" {
		uid = info.UserID
	}
	if uid == "" || info.PhoneNumber == "" {
		return nil, ErrTokenRejected
	}

	return &identity.ExternalIdentity{
		UID:   uid,
		Phone: info.PhoneNumber,
		Email: info.Email,
	}, nil
}
