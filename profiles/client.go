// Package profiles talks to a profile service that stores named tuning
// profiles, so a calibration made on one machine can be pulled down on
// another.
package profiles

import (
	"context"
	"fmt"
	"time"

	"github.com/calvinmclean/babyapi"

	"github.com/calvinmclean/cadstick/config"
)

// Profile is a named tuning profile as stored by the service.
type Profile struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	Config    config.Config `json:"config"`
}

type profile struct {
	// include NilResource so we don't implement Render/Bind which are not needed
	*babyapi.NilResource
	Profile
}

func (p profile) GetID() string {
	return p.Profile.ID
}

// Client is a typed client for the profile service.
type Client struct {
	client *babyapi.Client[*profile]
}

// NewClient creates a Client for the service at addr.
func NewClient(addr string) *Client {
	client := babyapi.NewClient[*profile](addr, "/profiles")
	return &Client{client: client}
}

// Upload stores cfg under name and returns the ID assigned by the service.
func (c *Client) Upload(ctx context.Context, name string, cfg config.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("refusing to upload invalid config: %w", err)
	}

	resp, err := c.client.Post(ctx, &profile{
		Profile: Profile{
			Name:      name,
			CreatedAt: time.Now(),
			Config:    cfg,
		},
	})
	if err != nil {
		return "", fmt.Errorf("error uploading profile: %w", err)
	}

	return resp.Data.GetID(), nil
}

// Fetch retrieves the profile with the given ID and returns its config.
func (c *Client) Fetch(ctx context.Context, id string) (config.Config, error) {
	resp, err := c.client.Get(ctx, id)
	if err != nil {
		return config.Config{}, fmt.Errorf("error fetching profile %s: %w", id, err)
	}

	cfg := resp.Data.Config
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("profile %s: %w", id, err)
	}
	return cfg, nil
}

// Update replaces the config stored under the given ID.
func (c *Client) Update(ctx context.Context, id string, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to upload invalid config: %w", err)
	}

	_, err := c.client.Patch(ctx, id, &profile{Profile: Profile{Config: cfg}})
	if err != nil {
		return fmt.Errorf("error updating profile %s: %w", id, err)
	}
	return nil
}
