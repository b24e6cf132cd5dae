package ports

import (
	"context"

	"github.com/bnema/diva/internal/domain"
)

// DeviceRegistry returns raw HTTP status codes and bodies so callers decide
// how each status is interpreted.
type DeviceRegistry interface {
	GetDevice(ctx context.Context, projectID, deviceID string) (int, []byte, error)
	CreateDevice(ctx context.Context, projectID string, device domain.Device) (int, []byte, error)
}
