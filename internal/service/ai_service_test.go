package service

import (
	"context"
	"strings"
	"testing"
)

func TestExecuteMockMode(t *testing.T) {
	svc := NewAIService("", nil)

	result, err := svc.Execute(context.Background(), ExecuteInput{Prompt: "reset a password", Department: "it"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !result.Mock {
		t.Fatalf("expected mock result without an API key")
	}
	if !strings.Contains(result.Result, "reset a password") {
		t.Fatalf("mock response must echo the prompt, got %q", result.Result)
	}
	if !strings.HasPrefix(result.TaskID, "mock-") {
		t.Fatalf("expected mock task id, got %q", result.TaskID)
	}
}

func TestDepartments(t *testing.T) {
	deps := Departments()
	if len(deps) != 6 {
		t.Fatalf("expected 6 departments, got %d", len(deps))
	}
	for _, d := range deps {
		if _, ok := departmentPrompts[d]; !ok {
			t.Fatalf("department %q has no prompt", d)
		}
	}
}
