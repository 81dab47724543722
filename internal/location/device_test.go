package location

import (
	"context"
	"errors"
	"testing"

	"buurtmarkt/internal/domain/entities"
)

func TestParseDeviceError(t *testing.T) {
	tests := []struct {
		code    string
		wantErr error
	}{
		{"", nil},
		{"permission_denied", entities.ErrPermissionDenied},
		{"DENIED", entities.ErrPermissionDenied},
		{"timeout", entities.ErrTimeout},
		{"unavailable", entities.ErrUnavailable},
		{"position_unavailable", entities.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := ParseDeviceError(tt.code)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseDeviceError(%q) = %v, want %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestDeviceFix_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coord := entities.NewCoordinate(52, 5)
	if _, err := (DeviceFix{Coordinate: &coord}).Locate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
