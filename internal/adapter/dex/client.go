// Package dex is the client for the species reference-data service.
package dex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Species is one resolved species record.
type Species struct {
	ID               int      `json:"id"`
	NameEN           string   `json:"name_en"`
	NameDE           string   `json:"name_de"`
	Types            []string `json:"types"`
	EvolutionChainID int      `json:"evolutionChainId"`
}

// ChainStage is one step of an evolution path, in order.
type ChainStage struct {
	SpeciesID int      `json:"species_id"`
	NameEN    string   `json:"name_en"`
	NameDE    string   `json:"name_de"`
	Types     []string `json:"types"`
	Trigger   string   `json:"trigger,omitempty"`
	MinLevel  int      `json:"min_level,omitempty"`
}

// Lookup is the reference-data capability the services depend on.
type Lookup interface {
	Search(ctx context.Context, query string) ([]Species, error)
	SpeciesByID(ctx context.Context, id int) (*Species, error)
	EvolutionChain(ctx context.Context, chainID int) ([]ChainStage, error)
}

// Client talks to the dex service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a dex client against the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build dex request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("dex request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("dex returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode dex response: %w", err)
	}
	return resp.StatusCode, nil
}

// Search resolves a query string to candidate species.
func (c *Client) Search(ctx context.Context, query string) ([]Species, error) {
	var results []Species
	path := "/api/pokemon/search?q=" + url.QueryEscape(query)
	if _, err := c.getJSON(ctx, path, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SpeciesByID resolves a species id, returning nil when unknown.
func (c *Client) SpeciesByID(ctx context.Context, id int) (*Species, error) {
	var sp Species
	status, err := c.getJSON(ctx, fmt.Sprintf("/api/pokemon/%d", id), &sp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	return &sp, nil
}

// EvolutionChain resolves an evolutionary-family id to its ordered
// evolution path.
func (c *Client) EvolutionChain(ctx context.Context, chainID int) ([]ChainStage, error) {
	var stages []ChainStage
	status, err := c.getJSON(ctx, fmt.Sprintf("/api/evolution-chain/%d", chainID), &stages)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	return stages, nil
}
