// # internal/engine/rules/evaluator.go
package rules

import (
	"astral/internal/engine/ast"
	"astral/internal/engine/finder"
	"astral/internal/shared/observability"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Unit is one analyzed syntax tree.
type Unit struct {
	Path string
	Tree *ast.Tree
}

type Diagnostic struct {
	Rule    string   `json:"rule"`
	Message string   `json:"message"`
	Path    string   `json:"path"`
	Line    int      `json:"line"`
	Node    ast.Node `json:"-"`
}

type EvaluationResult struct {
	RunID       string
	Diagnostics []Diagnostic
	// Evaluated counts units that were fully walked.
	Evaluated int
}

// RuleEvaluator dispatches nodes to the rules interested in their kind.
// It holds no mutable state and may evaluate many units concurrently.
type RuleEvaluator struct {
	rules   RuleSet
	byKind  map[ast.Kind][]Rule
	workers int
}

func NewRuleEvaluator(rules RuleSet, workers int) *RuleEvaluator {
	if workers < 1 {
		workers = 1
	}
	byKind := make(map[ast.Kind][]Rule)
	for _, rule := range rules.rules {
		for _, kind := range rule.NodeKinds() {
			byKind[kind] = append(byKind[kind], rule)
		}
	}
	return &RuleEvaluator{rules: rules, byKind: byKind, workers: workers}
}

func (e *RuleEvaluator) Rules() RuleSet {
	return e.rules
}

// Evaluate walks one unit in source order and returns its diagnostics in the
// order the offending nodes appear.
func (e *RuleEvaluator) Evaluate(ctx context.Context, unit Unit) []Diagnostic {
	if e == nil || len(e.byKind) == 0 || unit.Tree == nil {
		return nil
	}

	_, span := observability.Tracer.Start(ctx, "rules.Evaluate",
		trace.WithAttributes(observability.AttrUnit.String(unit.Path)))
	defer span.End()

	observability.TreeNodes.Observe(float64(unit.Tree.Len()))

	var out []Diagnostic
	interesting := func(n ast.Node) bool { return len(e.byKind[n.Kind()]) > 0 }
	for n := range finder.FindAll(unit.Tree.Root(), interesting) {
		for _, rule := range e.byKind[n.Kind()] {
			observability.RuleEvaluationsTotal.WithLabelValues(rule.ID()).Inc()
			for _, msg := range process(rule, n, unit.Path) {
				out = append(out, Diagnostic{
					Rule:    rule.ID(),
					Message: msg,
					Path:    unit.Path,
					Line:    n.Line(),
					Node:    n,
				})
				observability.DiagnosticsTotal.WithLabelValues(rule.ID()).Inc()
			}
		}
	}

	span.SetAttributes(observability.AttrFindings.Int(len(out)))
	return out
}

// process shields the run from a misbehaving rule: a panic drops that rule's
// output for the node and is logged.
func process(rule Rule, n ast.Node, path string) (msgs []string) {
	defer func() {
		if r := recover(); r != nil {
			observability.UnitsAnalyzedTotal.WithLabelValues("rule_panic").Inc()
			slog.Error("rule panicked", "rule", rule.ID(), "path", path, "node", n.String(), "panic", fmt.Sprint(r))
			msgs = nil
		}
	}()
	return rule.Process(n)
}

// EvaluateAll evaluates units on a bounded worker pool. Diagnostics keep the
// order of units, then source order within a unit. When ctx is cancelled the
// remaining units are skipped and ctx.Err() is returned with the partial
// result.
func (e *RuleEvaluator) EvaluateAll(ctx context.Context, units []Unit) (EvaluationResult, error) {
	result := EvaluationResult{RunID: uuid.NewString()}
	if e == nil || len(units) == 0 {
		return result, ctx.Err()
	}

	ctx, span := observability.Tracer.Start(ctx, "rules.EvaluateAll",
		trace.WithAttributes(observability.AttrRunID.String(result.RunID)))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("evaluate_all").Observe(time.Since(start).Seconds())
	}()

	numWorkers := min(e.workers, len(units))

	workCh := make(chan int, len(units))
	for i := range units {
		workCh <- i
	}
	close(workCh)

	perUnit := make([][]Diagnostic, len(units))
	done := make([]bool, len(units))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				if ctx.Err() != nil {
					observability.UnitsAnalyzedTotal.WithLabelValues("skipped").Inc()
					continue
				}
				perUnit[i] = e.Evaluate(ctx, units[i])
				done[i] = true
				observability.UnitsAnalyzedTotal.WithLabelValues("ok").Inc()
			}
		}()
	}
	wg.Wait()

	for i, diags := range perUnit {
		if done[i] {
			result.Evaluated++
		}
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	span.SetAttributes(observability.AttrFindings.Int(len(result.Diagnostics)))
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Warn("evaluation cancelled", "run_id", result.RunID, "evaluated", result.Evaluated, "units", len(units))
		return result, err
	}
	slog.Debug("evaluation finished", "run_id", result.RunID, "units", len(units), "diagnostics", len(result.Diagnostics))
	return result, nil
}
