// Package integration talks to the external commerce/marketing platform
// that feeds the dashboard. The core only triggers fetches and receives
// callbacks; the heavy lifting happens on the provider's side.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"reversa-be/internal/entity"
	"reversa-be/internal/pkg/logger"
	"reversa-be/internal/repository/contract"
	"reversa-be/pkg/syncjob"
)

// CredentialSource resolves the OAuth token for a store's integration.
type CredentialSource interface {
	TokenSource(ctx context.Context, storeID uuid.UUID) (oauth2.TokenSource, error)
}

// Client implements syncjob.Trigger over the provider's HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
	creds   CredentialSource
	logger  logger.ILogger
}

func NewClient(baseURL string, creds CredentialSource, log logger.ILogger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		creds:   creds,
		logger:  log,
	}
}

type triggerPayload struct {
	StoreID     string `json:"store_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

type triggerResponse struct {
	RequestID string `json:"request_id"`
}

// TriggerFetch asks the provider to start pulling data for the scope key.
// The provider answers with a correlation id and reports completion later
// through the callback endpoint.
func (c *Client) TriggerFetch(ctx context.Context, key syncjob.ScopeKey) (string, error) {
	ts, err := c.creds.TokenSource(ctx, key.StoreID)
	if err != nil {
		return "", err
	}
	token, err := ts.Token()
	if err != nil {
		return "", syncjob.ErrMissingCredentials
	}

	body, _ := json.Marshal(triggerPayload{
		StoreID:     key.StoreID.String(),
		PeriodStart: key.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   key.PeriodEnd.Format("2006-01-02"),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sync", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &syncjob.DomainError{Code: syncjob.CodeTimeout, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", syncjob.ErrMissingCredentials
	}
	if resp.StatusCode >= 300 {
		return "", &syncjob.DomainError{
			Code:    syncjob.CodeUnknown,
			Message: fmt.Sprintf("sync trigger returned status %d", resp.StatusCode),
		}
	}

	var out triggerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.RequestID, nil
}

// StoredCredentialSource builds token sources from the credentials table,
// refreshing through the provider's OAuth endpoint when expired.
type StoredCredentialSource struct {
	creds    contract.CredentialRepository
	oauthCfg *oauth2.Config
}

func NewStoredCredentialSource(creds contract.CredentialRepository, clientID, clientSecret, authURL, tokenURL string) *StoredCredentialSource {
	return &StoredCredentialSource{
		creds: creds,
		oauthCfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
	}
}

func (s *StoredCredentialSource) TokenSource(ctx context.Context, storeID uuid.UUID) (oauth2.TokenSource, error) {
	cred, err := s.creds.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.AccessToken == "" {
		return nil, syncjob.ErrMissingCredentials
	}
	return s.oauthCfg.TokenSource(ctx, tokenFromEntity(cred)), nil
}

func tokenFromEntity(cred *entity.IntegrationCredential) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.ExpiresAt,
	}
}
