package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"classfolio/internal/domain/models"
	"classfolio/internal/domain/repositories"
)

// TokenSource supplies a usable access token for a user's drive account.
type TokenSource interface {
	// AccessToken returns a non-expired access token, refreshing if needed.
	AccessToken(ctx context.Context, userID string) (string, error)

	// Refresh forces a refresh-grant exchange and returns the new token.
	Refresh(ctx context.Context, userID string) (string, error)
}

// OAuthConfig holds the refresh-grant endpoint and client credentials.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// StoreTokenSource reads credentials through the in-memory cache, falls
// back to the token store, and refreshes expired access tokens via the
// OAuth refresh-token grant. A successful refresh writes the new credential
// to the store and drops the cache entry (cleared-on-refresh contract).
type StoreTokenSource struct {
	repo       repositories.DriveTokenRepository
	cache      *TokenCache
	oauth      OAuthConfig
	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger
}

// NewStoreTokenSource creates a token source backed by the given store and
// cache. now is injectable for tests; pass nil for time.Now.
func NewStoreTokenSource(
	repo repositories.DriveTokenRepository,
	cache *TokenCache,
	oauth OAuthConfig,
	httpClient *http.Client,
	now func() time.Time,
	logger *slog.Logger,
) *StoreTokenSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if now == nil {
		now = time.Now
	}
	return &StoreTokenSource{
		repo:       repo,
		cache:      cache,
		oauth:      oauth,
		httpClient: httpClient,
		now:        now,
		logger:     logger,
	}
}

// AccessToken returns a usable access token for the user.
func (s *StoreTokenSource) AccessToken(ctx context.Context, userID string) (string, error) {
	if token, ok := s.cache.Get(userID); ok {
		if !token.ExpiredAt(s.now()) {
			return token.AccessToken, nil
		}
		return s.Refresh(ctx, userID)
	}

	token, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load drive token: %w", err)
	}

	if token.ExpiredAt(s.now()) {
		return s.Refresh(ctx, userID)
	}

	s.cache.Set(userID, *token)
	return token.AccessToken, nil
}

// tokenResponse is the OAuth token endpoint's refresh-grant response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// Refresh exchanges the stored refresh token for a new access token.
func (s *StoreTokenSource) Refresh(ctx context.Context, userID string) (string, error) {
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load drive token for refresh: %w", err)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {stored.RefreshToken},
		"client_id":     {s.oauth.ClientID},
		"client_secret": {s.oauth.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.oauth.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh drive token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("refresh drive token: status %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}

	updated := &models.DriveToken{
		UserID:       userID,
		AccessToken:  tr.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       s.now().Add(time.Duration(tr.ExpiresIn) * time.Second),
		UpdatedAt:    s.now(),
	}
	// Some providers rotate the refresh token on every grant
	if tr.RefreshToken != "" {
		updated.RefreshToken = tr.RefreshToken
	}

	if err := s.repo.Save(ctx, updated); err != nil {
		return "", fmt.Errorf("persist refreshed drive token: %w", err)
	}

	// Invalidate so the next read repopulates from the store
	s.cache.Delete(userID)

	s.logger.Info("drive token refreshed", "user_id", userID, "expiry", updated.Expiry)

	return updated.AccessToken, nil
}
