package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"experience-market/pkg/utils"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
)

// RoleWriter pushes a local role to the identity provider
type RoleWriter interface {
	UpdateRole(ctx context.Context, externalID, role string) error
}

// Client writes roles through the Clerk backend API
type Client struct {
	users      *user.Client
	configured bool
}

type roleMetadata struct {
	Role string `json:"role"`
}

// NewClient builds a Clerk user client. APIURL overrides the Clerk API
// base URL and is mainly useful against a local stub.
func NewClient(config utils.IdentityConfig) *Client {
	cfg := &clerk.ClientConfig{}
	cfg.Key = clerk.String(config.APIKey)
	cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	if config.APIURL != "" {
		cfg.URL = clerk.String(strings.TrimRight(config.APIURL, "/"))
	}

	return &Client{
		users:      user.NewClient(cfg),
		configured: config.APIKey != "",
	}
}

// UpdateRole writes role into the public metadata of the user
func (c *Client) UpdateRole(ctx context.Context, externalID, role string) error {
	if !c.configured {
		return fmt.Errorf("identity provider API not configured")
	}

	body, err := json.Marshal(roleMetadata{Role: role})
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	metadata := json.RawMessage(body)

	_, err = c.users.UpdateMetadata(ctx, externalID, &user.UpdateMetadataParams{
		PublicMetadata: &metadata,
	})
	if err != nil {
		var apiErr *clerk.APIErrorResponse
		if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
			return fmt.Errorf("identity provider error (%d): %s", apiErr.HTTPStatusCode, apiErr.Errors[0].Message)
		}
		return fmt.Errorf("update metadata of %s: %w", externalID, err)
	}

	return nil
}
