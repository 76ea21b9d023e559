package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"kitchenops/internal/shortage"
)

// ApiClient handles API requests to the kitchenops API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("KITCHENOPS_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// RunCheck triggers a manual inventory check for a schedule
func (c *ApiClient) RunCheck(scheduleID, userID string) (*shortage.CheckResult, error) {
	url := fmt.Sprintf("%s/api/v1/schedules/%s/inventory-checks", c.BaseURL, scheduleID)

	var body io.Reader
	if userID != "" {
		payload, err := json.Marshal(map[string]string{"user_id": userID})
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp)
	}

	var result shortage.CheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LatestCheck fetches the most recent check for a schedule
func (c *ApiClient) LatestCheck(scheduleID string) (*shortage.CheckResult, error) {
	url := fmt.Sprintf("%s/api/v1/schedules/%s/inventory-checks/latest", c.BaseURL, scheduleID)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var result shortage.CheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("API error (%d)", resp.StatusCode)
}
