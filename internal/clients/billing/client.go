// Package billing checks certification orders against the payment provider.
package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// Client asks the billing backend whether a user holds a settled
// certification order. It implements services.PaymentChecker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type orderStatus struct {
	Paid bool `json:"paid"`
}

func (c *Client) HasPaidCertification(userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	q := url.Values{"user_id": {userID}, "product": {"certification"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/orders/status?"+q.Encode(), nil)
	if err != nil {
		return false, errors.Wrap(err, "building order status request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "order status request failed")
	}
	defer func() { _ = resp.Body.Close() }()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// No order at all.
		return false, nil
	default:
		return false, errors.Errorf("billing endpoint returned %d", resp.StatusCode)
	}
	var st orderStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return false, errors.Wrap(err, "decoding order status")
	}
	return st.Paid, nil
}
