package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte

	// ids maps a scenario alias (the participant's name at creation) to its _id.
	ids map[string]string
	// server is set when the scenario runs against an in-process server.
	server *inProcessServer
}

// NewTestContext creates a test context. Reset prepares it for a scenario.
func NewTestContext() *TestContext {
	return &TestContext{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Reset clears scenario state. It targets BASE_URL, or a fresh in-process
// server when BASE_URL is unset.
func (tc *TestContext) Reset() {
	tc.Close()
	tc.LastResponse = nil
	tc.LastResponseBody = nil
	tc.ids = make(map[string]string)
	tc.BaseURL = os.Getenv("BASE_URL")
	if tc.BaseURL == "" {
		tc.server = startInProcessServer()
		tc.BaseURL = tc.server.URL()
	}
}

// Close releases the in-process server, if any.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
}

// Do sends a request with an optional raw JSON body and stores the response.
// Path segments written as {alias} are replaced by the remembered participant ID.
func (tc *TestContext) Do(method, path, body string) error {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+tc.resolve(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func (tc *TestContext) resolve(path string) string {
	for alias, participantID := range tc.ids {
		path = strings.ReplaceAll(path, "{"+alias+"}", participantID)
	}
	return path
}

// Remember stores the _id of the last response under alias.
func (tc *TestContext) Remember(alias string) error {
	var body struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(tc.LastResponseBody, &body); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if body.ID == "" {
		return fmt.Errorf("response has no _id: %s", tc.LastResponseBody)
	}
	tc.ids[alias] = body.ID
	return nil
}

// ParticipantID returns the remembered ID for alias.
func (tc *TestContext) ParticipantID(alias string) (string, error) {
	participantID, ok := tc.ids[alias]
	if !ok {
		return "", fmt.Errorf("no participant remembered as %q", alias)
	}
	return participantID, nil
}

// FailNextDelete makes the in-process store fail its next delete.
func (tc *TestContext) FailNextDelete() error {
	if tc.server == nil {
		return fmt.Errorf("store faults need the in-process server; unset BASE_URL")
	}
	tc.server.store.failNextDelete.Store(true)
	return nil
}

// ServerLogs returns what the in-process server has logged so far.
func (tc *TestContext) ServerLogs() string {
	if tc.server == nil {
		return ""
	}
	return tc.server.logs.String()
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}
