package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracer resolves through the global provider on every Start, so spans pick up
// the exporter installed by the CLI even though Tracer is created at init.
var Tracer trace.Tracer = otel.Tracer("astral")

// Attribute keys shared by spans.
var (
	AttrRule     = attribute.Key("astral.rule")
	AttrUnit     = attribute.Key("astral.unit")
	AttrRunID    = attribute.Key("astral.run_id")
	AttrFindings = attribute.Key("astral.diagnostics")
)
