package application

import "go.opentelemetry.io/otel"

const scopeName = "github.com/bnema/diva/internal/application"

var tracer = otel.Tracer(scopeName)
