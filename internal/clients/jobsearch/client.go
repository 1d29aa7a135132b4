// Package jobsearch is the client for the public job-board API. The API uses
// OAuth2 client-credentials; tokens are short-lived and cached per client.
package jobsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/perspecta/perspecta/internal/services"
)

const defaultTimeout = 15 * time.Second

// tokenExpirySlack is subtracted from the advertised lifetime so a token is
// never used in its final seconds.
const tokenExpirySlack = 30 * time.Second

type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
}

// Client searches job offers. Safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	now         func() time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns the cached token, refreshing it when expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}
	if c.cfg.Scope != "" {
		form.Set("scope", c.cfg.Scope)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "building token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token request failed")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", errors.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", errors.Wrap(err, "decoding token response")
	}
	if tok.AccessToken == "" {
		return "", errors.New("token endpoint returned empty token")
	}
	lifetime := time.Duration(tok.ExpiresIn) * time.Second
	if lifetime <= tokenExpirySlack {
		lifetime = tokenExpirySlack + time.Second
	}
	c.token = tok.AccessToken
	c.tokenExpiry = c.now().Add(lifetime - tokenExpirySlack)
	return c.token, nil
}

type wireOffer struct {
	ID               string `json:"id"`
	Intitule         string `json:"intitule"`
	Description      string `json:"description"`
	TypeContrat      string `json:"typeContrat"`
	ExperienceExige  string `json:"experienceExige"`
	LieuTravail      struct {
		Libelle string `json:"libelle"`
	} `json:"lieuTravail"`
}

type searchResponse struct {
	Resultats []wireOffer `json:"resultats"`
}

// Search queries offers by keyword and optional location. The upstream caps
// page size; limit is clamped to one page.
func (c *Client) Search(ctx context.Context, keywords, location string, limit int) ([]services.JobOffer, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := url.Values{}
	q.Set("motsCles", keywords)
	if location != "" {
		q.Set("localisation", location)
	}
	q.Set("range", "0-"+strconv.Itoa(limit-1))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/offres/search?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building search request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusUnauthorized {
		// Token revoked upstream; drop the cache so the next call re-authenticates.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return nil, errors.New("search request unauthorized")
	}
	// 206 Partial Content is the upstream's normal paged answer.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusNoContent {
		return nil, errors.Errorf("search endpoint returned %d", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, errors.Wrap(err, "decoding search response")
	}
	out := make([]services.JobOffer, 0, len(sr.Resultats))
	for _, o := range sr.Resultats {
		out = append(out, services.JobOffer{
			ID:              o.ID,
			Title:           o.Intitule,
			Description:     o.Description,
			ContractType:    o.TypeContrat,
			ExperienceLevel: o.ExperienceExige,
			Location:        o.LieuTravail.Libelle,
		})
	}
	return out, nil
}
