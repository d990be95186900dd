package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRunSolvesFromStdinJSON(t *testing.T) {
	input := `{
		"teacher": {
			"person": {"id": "t1"},
			"availability": {"days": [
				{"dayOfWeek":0,"blocks":[]},
				{"dayOfWeek":1,"blocks":[{"start":600,"duration":60}]},
				{"dayOfWeek":2,"blocks":[]},
				{"dayOfWeek":3,"blocks":[]},
				{"dayOfWeek":4,"blocks":[]},
				{"dayOfWeek":5,"blocks":[]},
				{"dayOfWeek":6,"blocks":[]}
			]},
			"constraints": {"allowedDurations":[60]}
		},
		"students": [{
			"person": {"id": "s1"},
			"preferredDuration": 60,
			"availability": {"days": [
				{"dayOfWeek":0,"blocks":[]},
				{"dayOfWeek":1,"blocks":[{"start":600,"duration":60}]},
				{"dayOfWeek":2,"blocks":[]},
				{"dayOfWeek":3,"blocks":[]},
				{"dayOfWeek":4,"blocks":[]},
				{"dayOfWeek":5,"blocks":[]},
				{"dayOfWeek":6,"blocks":[]}
			]}
		}]
	}`

	var out bytes.Buffer
	if err := run(nil, strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var solution struct {
		Assignments []struct {
			StudentID string `json:"StudentID"`
		} `json:"Assignments"`
	}
	if err := json.Unmarshal(out.Bytes(), &solution); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if len(solution.Assignments) != 1 || solution.Assignments[0].StudentID != "s1" {
		t.Errorf("expected one assignment for s1, got %+v", solution.Assignments)
	}
}

func TestRunValidateOnlyReportsIssuesWithoutSolving(t *testing.T) {
	input := `{"teacher": {"availability": {"days": []}}, "students": []}`

	var out bytes.Buffer
	if err := run([]string{"-validate-only"}, strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		Valid  bool     `json:"valid"`
		Issues []string `json:"issues"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if result.Valid {
		t.Error("expected an empty teacher id and malformed availability to be flagged invalid")
	}
	if len(result.Issues) == 0 {
		t.Error("expected at least one validation issue")
	}
}
