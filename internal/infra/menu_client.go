package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MenuItemInfo is the catalog view the ordering core needs: the snapshot
// price and the availability switch.
type MenuItemInfo struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	PreparationTime int     `json:"preparationTime"`
	IsAvailable     bool    `json:"isAvailable"`
}

type MenuClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewMenuClient(baseURL string, timeout time.Duration) *MenuClient {
	return &MenuClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *MenuClient) GetMenuItem(ctx context.Context, id uint64) (*MenuItemInfo, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/menu/items/%d", c.baseURL, id), nil)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu service returned status %d", resp.StatusCode)
	}
	var m MenuItemInfo
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, err
	}

	return &m, nil
}
