package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests drive a running stack through the gateway. They are skipped
// unless INTEGRATION_BASE_URL is set, e.g. http://localhost:8080.

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T) *client {
	base := os.Getenv("INTEGRATION_BASE_URL")
	if base == "" {
		t.Skip("INTEGRATION_BASE_URL not set")
	}
	return &client{t: t, base: strings.TrimRight(base, "/"), http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *client) call(method, path, token string, body, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestFullOrderFlow(t *testing.T) {
	c := newClient(t)
	suffix := time.Now().UnixNano()
	slug := fmt.Sprintf("it-cafe-%d", suffix)

	var auth struct {
		Token string `json:"token"`
	}
	code := c.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Integration",
		"email":    fmt.Sprintf("it-%d@example.com", suffix),
		"password": "secret123",
	}, &auth)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, auth.Token)

	var venue struct {
		ID int64 `json:"id"`
	}
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/api/admin/venue", auth.Token,
		map[string]string{"name": "Integration Cafe", "slug": slug}, &venue))

	var item struct {
		ID int64 `json:"id"`
	}
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, fmt.Sprintf("/api/admin/venue/%d/menu-item", venue.ID),
		auth.Token, map[string]any{"name": "Espresso", "price": 17.75}, &item))

	var placed struct {
		OrderID int64 `json:"orderId"`
	}
	require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/api/order", "", map[string]any{
		"slug": slug,
		"cart": []map[string]any{{"id": item.ID, "name": "Espresso", "price": 17.75, "quantity": 2}},
	}, &placed))

	var orders []struct {
		ID         int64   `json:"id"`
		TotalPrice float64 `json:"totalPrice"`
	}
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, fmt.Sprintf("/api/admin/venue/%d/orders", venue.ID), auth.Token, nil, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, placed.OrderID, orders[0].ID)
	assert.InDelta(t, 35.5, orders[0].TotalPrice, 0.001)

	require.Equal(t, http.StatusOK, c.call(http.MethodDelete, fmt.Sprintf("/api/admin/venue/%d", venue.ID), auth.Token, nil, nil))
}

func TestGatewayHealth(t *testing.T) {
	c := newClient(t)
	var body map[string]string
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "api-gateway", body["service"])
}
