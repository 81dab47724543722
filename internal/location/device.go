package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"buurtmarkt/internal/domain/entities"
)

// DeviceLocator produces the searcher's device position. Implementations
// return errors wrapping entities.ErrPermissionDenied,
// entities.ErrUnavailable or entities.ErrTimeout.
type DeviceLocator interface {
	Locate(ctx context.Context) (entities.Coordinate, error)
}

// DeviceFix is a position (or failure) already obtained by the client, e.g.
// a browser's geolocation callback posted to the API.
type DeviceFix struct {
	Coordinate *entities.Coordinate
	Err        error
}

func (f DeviceFix) Locate(ctx context.Context) (entities.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return entities.Coordinate{}, err
	}
	if f.Err != nil {
		return entities.Coordinate{}, f.Err
	}
	if f.Coordinate == nil {
		return entities.Coordinate{}, entities.ErrUnavailable
	}
	return *f.Coordinate, nil
}

// LocatorFunc adapts a function to DeviceLocator.
type LocatorFunc func(ctx context.Context) (entities.Coordinate, error)

func (f LocatorFunc) Locate(ctx context.Context) (entities.Coordinate, error) {
	return f(ctx)
}

// ParseDeviceError maps the error codes reported by clients (mirroring the
// W3C geolocation error codes) to domain errors. Empty input means success
// and yields nil.
func ParseDeviceError(code string) error {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "":
		return nil
	case "permission_denied", "denied":
		return entities.ErrPermissionDenied
	case "timeout":
		return entities.ErrTimeout
	default:
		return fmt.Errorf("%w: %s", entities.ErrUnavailable, code)
	}
}

func classifyDeviceError(err error) error {
	switch {
	case errors.Is(err, entities.ErrPermissionDenied),
		errors.Is(err, entities.ErrUnavailable),
		errors.Is(err, entities.ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", entities.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", entities.ErrUnavailable, err)
	}
}
