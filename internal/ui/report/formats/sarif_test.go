// # internal/ui/report/formats/sarif_test.go
package formats

import (
	"astral/internal/engine/rules"
	"encoding/json"
	"strings"
	"testing"
)

func defaultRuleSet(t *testing.T) rules.RuleSet {
	t.Helper()
	rs, err := rules.NewRuleSet(nil, rules.NewServices())
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	return rs
}

func decodeSARIF(t *testing.T, data []byte) sarifReport {
	t.Helper()
	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	return report
}

func TestGenerateSARIF_EmptyResults(t *testing.T) {
	rs := defaultRuleSet(t)
	data, err := GenerateSARIF("", rs, rules.EvaluationResult{})
	if err != nil {
		t.Fatalf("GenerateSARIF returned error: %v", err)
	}
	report := decodeSARIF(t, data)
	if report.Schema != sarifSchema {
		t.Errorf("$schema = %q, want %q", report.Schema, sarifSchema)
	}
	if report.Version != sarifVersion {
		t.Errorf("version = %q, want %q", report.Version, sarifVersion)
	}
	if len(report.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(report.Runs))
	}
	run := report.Runs[0]
	if len(run.Results) != 0 {
		t.Errorf("expected 0 results, got %d", len(run.Results))
	}
	if run.AutomationDetails != nil {
		t.Errorf("expected no automation details without a run id")
	}
	if len(run.Tool.Driver.Rules) != rs.Len() {
		t.Errorf("driver lists %d rules, want %d", len(run.Tool.Driver.Rules), rs.Len())
	}
	if !strings.Contains(string(data), `"results": []`) {
		t.Errorf("results should encode as an empty array")
	}
}

func TestGenerateSARIF_Diagnostic(t *testing.T) {
	rs := defaultRuleSet(t)
	result := rules.EvaluationResult{
		RunID: "6f1c2a8e-0000-4000-8000-000000000001",
		Diagnostics: []rules.Diagnostic{{
			Rule:    rules.NoNullableArrayPropertyID,
			Message: "Use required typed property over of nullable property",
			Path:    "/project/src/SomeClass.php",
			Line:    7,
		}},
	}
	data, err := GenerateSARIF("/project", rs, result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := decodeSARIF(t, data)
	run := report.Runs[0]
	if run.AutomationDetails == nil || run.AutomationDetails.GUID != result.RunID {
		t.Errorf("automationDetails.guid should carry the run id")
	}
	if len(run.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(run.Results))
	}

	r := run.Results[0]
	if r.RuleID != rules.NoNullableArrayPropertyID {
		t.Errorf("ruleId = %q, want %q", r.RuleID, rules.NoNullableArrayPropertyID)
	}
	if got := run.Tool.Driver.Rules[r.RuleIndex].ID; got != r.RuleID {
		t.Errorf("ruleIndex points at %q, want %q", got, r.RuleID)
	}
	if r.Level != "warning" {
		t.Errorf("level = %q, want warning", r.Level)
	}
	if len(r.Locations) == 0 {
		t.Fatal("expected location on result")
	}
	loc := r.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/SomeClass.php" {
		t.Errorf("URI = %q, want src/SomeClass.php", loc.ArtifactLocation.URI)
	}
	if loc.ArtifactLocation.URIBaseID != "%SRCROOT%" {
		t.Errorf("uriBaseId should be %%SRCROOT%%")
	}
	if loc.Region == nil || loc.Region.StartLine != 7 {
		t.Errorf("expected region.startLine = 7")
	}
}

func TestGenerateSARIF_UnknownRuleIsRegistered(t *testing.T) {
	result := rules.EvaluationResult{
		Diagnostics: []rules.Diagnostic{{Rule: "custom-check", Message: "x", Path: "a.php"}},
	}
	data, err := GenerateSARIF("", rules.NewRuleSetOf(), result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run := decodeSARIF(t, data).Runs[0]
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].Name != "CustomCheck" {
		t.Fatalf("expected CustomCheck to be registered, got %+v", run.Tool.Driver.Rules)
	}
	if run.Results[0].Locations[0].PhysicalLocation.Region != nil {
		t.Errorf("unknown line should not produce a region")
	}
}

func TestRuleName(t *testing.T) {
	cases := map[string]string{
		"no-nullable-array-property": "NoNullableArrayProperty",
		"single":                     "Single",
		"snake_case-mix":             "SnakeCaseMix",
		"":                           "",
	}
	for id, want := range cases {
		if got := ruleName(id); got != want {
			t.Errorf("ruleName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestRelativeURI(t *testing.T) {
	cases := []struct {
		root    string
		path    string
		wantURI string
	}{
		{"/project", "/project/internal/foo.php", "internal/foo.php"},
		{"/project", "/other/bar.php", "../other/bar.php"},
		{"", "/abs/path.php", "/abs/path.php"},
		{"/project", "relative/path.php", "relative/path.php"},
	}
	for _, tc := range cases {
		got := relativeURI(tc.root, tc.path)
		if got != tc.wantURI {
			t.Errorf("relativeURI(%q, %q) = %q, want %q", tc.root, tc.path, got, tc.wantURI)
		}
	}
}
