package application

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/diva/internal/domain"
	"github.com/bnema/diva/internal/observability"
	"github.com/bnema/diva/internal/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Registrar makes sure the device exists in the cloud device registry. It
// performs at most one lookup and one creation per call, without retries.
type Registrar struct {
	registry ports.DeviceRegistry
	policy   domain.LookupPolicy
}

func NewRegistrar(registry ports.DeviceRegistry, policy domain.LookupPolicy) *Registrar {
	if policy == "" {
		policy = domain.LookupAssumeRegistered
	}
	return &Registrar{registry: registry, policy: policy}
}

func (r *Registrar) Register(ctx context.Context, projectID string, device domain.Device) (domain.RegistrationResult, error) {
	if projectID == "" {
		return domain.RegistrationSkipped, nil
	}

	ctx, span := tracer.Start(ctx, "register device", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("registry.project_id", projectID),
		attribute.String("registry.device_id", device.ID),
		attribute.String("registry.lookup_policy", string(r.policy)),
	)

	result, err := r.register(ctx, projectID, device)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registration failed")
		return "", err
	}

	observability.WithFields("project_id", projectID, "device_id", device.ID).Info("device registration checked", "result", result)
	return result, nil
}

func (r *Registrar) register(ctx context.Context, projectID string, device domain.Device) (domain.RegistrationResult, error) {
	status, body, err := r.registry.GetDevice(ctx, projectID, device.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}

	if status != http.StatusNotFound {
		if r.policy == domain.LookupStrict && status != http.StatusOK {
			return "", fmt.Errorf("%w: device lookup returned status %d: %s", domain.ErrRegistrationFailed, status, body)
		}
		return domain.RegistrationAlreadyRegistered, nil
	}

	status, body, err = r.registry.CreateDevice(ctx, projectID, device)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrRegistrationFailed, status, body)
	}

	return domain.RegistrationCreated, nil
}
