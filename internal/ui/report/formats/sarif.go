// # internal/ui/report/formats/sarif.go
package formats

import (
	"astral/internal/engine/rules"
	"astral/internal/shared/version"
	"encoding/json"
	"path/filepath"
	"strings"
	"unicode"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	// Every astral rule is advisory.
	sarifLevel = "warning"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool               `json:"tool"`
	AutomationDetails *sarifAutomationDetails `json:"automationDetails,omitempty"`
	Results           []sarifResult           `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	Help             *sarifMessage          `json:"help,omitempty"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from an evaluation result.
// The driver lists every rule of rs so that consumers can show rules that
// produced no findings. All file URIs are made relative to projectRoot.
func GenerateSARIF(projectRoot string, rs rules.RuleSet, result rules.EvaluationResult) ([]byte, error) {
	sarifRules, index := buildSARIFRules(rs)
	results := make([]sarifResult, 0, len(result.Diagnostics))

	for _, d := range result.Diagnostics {
		idx, ok := index[d.Rule]
		if !ok {
			// Rule outside the configured set, e.g. a result merged from
			// another run. Register it on the fly.
			idx = len(sarifRules)
			index[d.Rule] = idx
			sarifRules = append(sarifRules, sarifRule{
				ID:               d.Rule,
				Name:             ruleName(d.Rule),
				ShortDescription: sarifMessage{Text: d.Rule},
				DefaultConfig:    sarifRuleDefaultConfig{Level: sarifLevel},
			})
		}

		res := sarifResult{
			RuleID:    d.Rule,
			RuleIndex: idx,
			Level:     sarifLevel,
			Message:   sarifMessage{Text: d.Message},
		}
		if d.Path != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, d.Path),
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if d.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: d.Line}
			}
			res.Locations = []sarifLocation{loc}
		}
		results = append(results, res)
	}

	run := sarifRun{
		Tool: sarifTool{
			Driver: sarifDriver{
				Name:    "astral",
				Version: version.Version,
				Rules:   sarifRules,
			},
		},
		Results: results,
	}
	if result.RunID != "" {
		run.AutomationDetails = &sarifAutomationDetails{GUID: result.RunID}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{run},
	}
	return json.MarshalIndent(report, "", "  ")
}

func buildSARIFRules(rs rules.RuleSet) ([]sarifRule, map[string]int) {
	all := rs.Rules()
	out := make([]sarifRule, 0, len(all))
	index := make(map[string]int, len(all))
	for _, r := range all {
		def := r.Definition()
		rule := sarifRule{
			ID:               r.ID(),
			Name:             ruleName(r.ID()),
			ShortDescription: sarifMessage{Text: def.Description},
			DefaultConfig:    sarifRuleDefaultConfig{Level: sarifLevel},
		}
		if len(def.Samples) > 0 {
			rule.Help = &sarifMessage{Text: "Bad:\n" + def.Samples[0].Bad + "\n\nGood:\n" + def.Samples[0].Good}
		}
		index[r.ID()] = len(out)
		out = append(out, rule)
	}
	return out, index
}

// ruleName turns `no-nullable-array-property` into `NoNullableArrayProperty`.
func ruleName(id string) string {
	var b strings.Builder
	upper := true
	for _, r := range id {
		if r == '-' || r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	// SARIF URIs use forward slashes.
	return filepath.ToSlash(filePath)
}
