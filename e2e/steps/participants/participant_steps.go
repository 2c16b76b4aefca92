package participants

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the subset of the scenario context the participant steps use.
type TestContext interface {
	Do(method, path, body string) error
	Remember(alias string) error
	ParticipantID(alias string) (string, error)
	FailNextDelete() error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

type participant struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Scores []int  `json:"scores"`
}

// RegisterSteps registers participant steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &participantSteps{tc: tc}
	ctx.Step(`^a participant named "([^"]*)" exists$`, steps.participantExists)
	ctx.Step(`^I create a participant named "([^"]*)"$`, steps.createParticipant)
	ctx.Step(`^the response should be participant "([^"]*)" named "([^"]*)" with scores "([^"]*)"$`, steps.responseShouldBeParticipant)
	ctx.Step(`^participant "([^"]*)" should be named "([^"]*)" with scores "([^"]*)"$`, steps.storedParticipantShouldBe)
	ctx.Step(`^the participant list should have names "([^"]*)"$`, steps.listShouldHaveNames)
	ctx.Step(`^the store fails on the next delete$`, steps.tc.FailNextDelete)
}

type participantSteps struct {
	tc TestContext
}

func (s *participantSteps) createParticipant(name string) error {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return err
	}
	if err := s.tc.Do("POST", "/api/participants", string(body)); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return fmt.Errorf("create %q returned %d: %s", name, s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
	return s.tc.Remember(name)
}

func (s *participantSteps) participantExists(name string) error {
	return s.createParticipant(name)
}

func (s *participantSteps) responseShouldBeParticipant(alias, name, scores string) error {
	var got participant
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &got); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return s.assertParticipant(got, alias, name, scores)
}

func (s *participantSteps) storedParticipantShouldBe(alias, name, scores string) error {
	if err := s.tc.Do("GET", "/api/participants/{"+alias+"}", ""); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return fmt.Errorf("get %q returned %d", alias, s.tc.GetLastResponseStatus())
	}
	return s.responseShouldBeParticipant(alias, name, scores)
}

func (s *participantSteps) assertParticipant(got participant, alias, name, scores string) error {
	wantID, err := s.tc.ParticipantID(alias)
	if err != nil {
		return err
	}
	wantScores, err := parseScores(scores)
	if err != nil {
		return err
	}
	if got.ID != wantID {
		return fmt.Errorf("expected _id %s, got %s", wantID, got.ID)
	}
	if got.Name != name {
		return fmt.Errorf("expected name %q, got %q", name, got.Name)
	}
	if got.Scores == nil {
		return fmt.Errorf("expected scores array, got null")
	}
	if !slices.Equal(got.Scores, wantScores) {
		return fmt.Errorf("expected scores %v, got %v", wantScores, got.Scores)
	}
	return nil
}

func (s *participantSteps) listShouldHaveNames(names string) error {
	if err := s.tc.Do("GET", "/api/participants", ""); err != nil {
		return err
	}
	var list []participant
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &list); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	got := make([]string, 0, len(list))
	for _, p := range list {
		got = append(got, p.Name)
	}
	want := splitList(names)
	if !slices.Equal(got, want) {
		return fmt.Errorf("expected names %v, got %v", want, got)
	}
	return nil
}

// parseScores reads "1, 2, 3"; an empty string means no scores.
func parseScores(raw string) ([]int, error) {
	parts := splitList(raw)
	scores := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", part, err)
		}
		scores = append(scores, n)
	}
	return scores, nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
