// Package esign holds the outbound e-signature provider clients. HelloSign
// has no maintained Go SDK, so this is a small hand-rolled client over the v3
// REST API, configured from the environment.
package esign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/josdesi/gpac-backend/internal/pkg/env"
)

const defaultHelloSignAPIBaseURL = "https://api.hellosign.com/v3"

type HelloSignClient struct {
	APIKey     string
	APIBaseURL string

	HTTPClient *http.Client
}

// SignatureRequestInput describes a new signature request for one signer.
type SignatureRequestInput struct {
	Title       string
	Subject     string
	Message     string
	SignerName  string
	SignerEmail string
	TestMode    bool
}

// SignatureRequest is the subset of the provider response the workflow needs.
type SignatureRequest struct {
	SignatureRequestID string `json:"signature_request_id"`
	IsComplete         bool   `json:"is_complete"`
	SigningURL         string `json:"signing_url"`
}

func NewHelloSignClientFromEnv() *HelloSignClient {
	return &HelloSignClient{
		APIKey:     strings.TrimSpace(env.GetEnv("HELLOSIGN_API_KEY", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("HELLOSIGN_API_BASE_URL", defaultHelloSignAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSignatureRequest sends a fee agreement out for signature and returns
// the provider's signature request reference.
func (c *HelloSignClient) CreateSignatureRequest(ctx context.Context, in SignatureRequestInput) (*SignatureRequest, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("HELLOSIGN_API_KEY is not configured")
	}
	if strings.TrimSpace(in.SignerEmail) == "" {
		return nil, errors.New("signer email is required")
	}

	form := url.Values{}
	form.Set("title", in.Title)
	form.Set("subject", in.Subject)
	form.Set("message", in.Message)
	form.Set("signers[0][name]", in.SignerName)
	form.Set("signers[0][email_address]", in.SignerEmail)
	if in.TestMode {
		form.Set("test_mode", "1")
	}

	var out struct {
		SignatureRequest SignatureRequest `json:"signature_request"`
	}
	if err := c.do(ctx, http.MethodPost, "/signature_request/send", form, &out); err != nil {
		return nil, err
	}
	if out.SignatureRequest.SignatureRequestID == "" {
		return nil, errors.New("provider response missing signature_request_id")
	}
	return &out.SignatureRequest, nil
}

// Remind asks the provider to re-send the signature email to the signer.
func (c *HelloSignClient) Remind(ctx context.Context, signatureRequestID, email string) error {
	if strings.TrimSpace(signatureRequestID) == "" {
		return errors.New("signature request id is required")
	}
	form := url.Values{}
	form.Set("email_address", strings.TrimSpace(email))
	return c.do(ctx, http.MethodPost, "/signature_request/remind/"+url.PathEscape(signatureRequestID), form, nil)
}

// CancelSignatureRequest cancels an incomplete signature request, used after
// a staff void.
func (c *HelloSignClient) CancelSignatureRequest(ctx context.Context, signatureRequestID string) error {
	if strings.TrimSpace(signatureRequestID) == "" {
		return errors.New("signature request id is required")
	}
	return c.do(ctx, http.MethodPost, "/signature_request/cancel/"+url.PathEscape(signatureRequestID), url.Values{}, nil)
}

func (c *HelloSignClient) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.APIBaseURL, "/")+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.APIKey, "")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hellosign %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
