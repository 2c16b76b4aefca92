package common

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the subset of the scenario context the common steps use.
type TestContext interface {
	Do(method, path, body string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	ServerLogs() string
}

// RegisterSteps registers request and response assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}
	ctx.Step(`^I (GET|DELETE) "([^"]*)"$`, steps.request)
	ctx.Step(`^I (POST|PUT) "([^"]*)" with body:$`, steps.requestWithBody)
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response text should be "([^"]*)"$`, steps.responseTextShouldBe)
	ctx.Step(`^the response should be ok$`, steps.responseShouldBeOK)
	ctx.Step(`^the response should be an empty list$`, steps.responseShouldBeEmptyList)
	ctx.Step(`^the server log should contain "([^"]*)"$`, steps.serverLogShouldContain)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) request(method, path string) error {
	return s.tc.Do(method, path, "")
}

func (s *commonSteps) requestWithBody(method, path string, body *godog.DocString) error {
	return s.tc.Do(method, path, body.Content)
}

func (s *commonSteps) responseStatusShouldBe(expected int) error {
	actual := s.tc.GetLastResponseStatus()
	if actual != expected {
		return fmt.Errorf("expected status %d but got %d. Response: %s", expected, actual, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *commonSteps) responseTextShouldBe(expected string) error {
	actual := string(s.tc.GetLastResponseBody())
	if actual != expected {
		return fmt.Errorf("expected body %q but got %q", expected, actual)
	}
	return nil
}

func (s *commonSteps) responseShouldBeOK() error {
	var body struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if !body.OK {
		return fmt.Errorf("expected ok=true, got: %s", string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *commonSteps) responseShouldBeEmptyList() error {
	var body []json.RawMessage
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if body == nil || len(body) != 0 {
		return fmt.Errorf("expected [] but got: %s", string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *commonSteps) serverLogShouldContain(text string) error {
	if !strings.Contains(s.tc.ServerLogs(), text) {
		return fmt.Errorf("server log does not contain %q", text)
	}
	return nil
}
