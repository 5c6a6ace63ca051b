// Package supabase implements data access through the Supabase PostgREST
// API, running under the caller's own JWT so row-level security applies.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"go-workspace-portal/internal/domain"
	"net/http"
	"net/url"
	"time"
)

type restrictedProfileReader struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewRestrictedProfileReader reads the users table via PostgREST with the
// caller's access token. RLS may legitimately hide the caller's own
// not-yet-created row; the profile loader treats that as a signal to fall
// back, never as a final answer.
func NewRestrictedProfileReader(supabaseURL, anonKey string) domain.ProfileReader {
	return &restrictedProfileReader{
		baseURL: supabaseURL,
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type profileRow struct {
	Role        string `json:"role"`
	WorkspaceID *int64 `json:"workspace_id"`
}

func (r *restrictedProfileReader) ReadProfile(ctx context.Context, userID, accessToken string) (*domain.Profile, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/users?id=eq.%s&select=role,workspace_id", r.baseURL, url.QueryEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", r.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restricted profile read: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("restricted profile read: status %d", resp.StatusCode)
	}

	var rows []profileRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("restricted profile read: decode: %w", err)
	}
	if len(rows) == 0 {
		// Zero rows under RLS: either no profile yet, or the policy hid
		// it from us. The loader decides which by asking the elevated tier.
		return nil, domain.ErrProfileNotFound
	}

	return &domain.Profile{Role: rows[0].Role, WorkspaceID: rows[0].WorkspaceID}, nil
}
