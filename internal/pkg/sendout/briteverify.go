package sendout

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

const defaultBriteVerifyBaseURL = "https://bpi.briteverify.com/api/v1"

// Verification verdicts as BriteVerify reports them.
const (
	VerdictValid     = "valid"
	VerdictInvalid   = "invalid"
	VerdictAcceptAll = "accept_all"
	VerdictUnknown   = "unknown"
)

// Verifier validates recipient addresses before delivery. Tests substitute a
// fake; a nil verifier on the service skips validation entirely.
type Verifier interface {
	Verify(ctx context.Context, email string) (*VerificationResult, error)
}

// VerificationResult is the subset of the BriteVerify response the pipeline
// uses.
type VerificationResult struct {
	Status     string `json:"status"`
	Disposable bool   `json:"disposable"`
	RoleAddr   bool   `json:"role_address"`
}

// Deliverable reports whether the address should be sent to.
func (v *VerificationResult) Deliverable() bool {
	switch v.Status {
	case VerdictValid, VerdictAcceptAll:
		return !v.Disposable
	default:
		return false
	}
}

// BriteVerifyClient is a hand-rolled HTTP client for the BriteVerify single
// email verification endpoint (no Go SDK exists).
type BriteVerifyClient struct {
	APIKey     string
	APIBaseURL string

	HTTPClient *http.Client
}

func NewBriteVerifyClientFromEnv() *BriteVerifyClient {
	return &BriteVerifyClient{
		APIKey:     strings.TrimSpace(env.GetEnv("BRITEVERIFY_API_KEY", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("BRITEVERIFY_API_BASE_URL", defaultBriteVerifyBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *BriteVerifyClient) Verify(ctx context.Context, email string) (*VerificationResult, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("BRITEVERIFY_API_KEY is not configured")
	}

	u := strings.TrimRight(c.APIBaseURL, "/") + "/fullverify/single?address=" + url.QueryEscape(strings.TrimSpace(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "ApiKey: "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("briteverify: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		Email VerificationResult `json:"email"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.Email.Status == "" {
		out.Email.Status = VerdictUnknown
	}
	return &out.Email, nil
}
