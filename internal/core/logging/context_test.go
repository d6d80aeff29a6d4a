package logging

import (
	"context"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "req-123"

	ctx = WithRequestID(ctx, requestID)
	got := GetRequestID(ctx)

	if got != requestID {
		t.Errorf("GetRequestID() = %q, want %q", got, requestID)
	}
}

func TestWithDMPath(t *testing.T) {
	ctx := context.Background()
	dmPath := "DMC-BRAKE-00-00.XML"

	ctx = WithDMPath(ctx, dmPath)
	got := GetDMPath(ctx)

	if got != dmPath {
		t.Errorf("GetDMPath() = %q, want %q", got, dmPath)
	}
}

func TestGetRequestID_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetRequestID(ctx)

	if got != "" {
		t.Errorf("GetRequestID() = %q, want empty string", got)
	}
}

func TestGetDMPath_NotPresent(t *testing.T) {
	ctx := context.Background()
	got := GetDMPath(ctx)

	if got != "" {
		t.Errorf("GetDMPath() = %q, want empty string", got)
	}
}

func TestBothIDs(t *testing.T) {
	ctx := context.Background()
	requestID := "req-1"
	dmPath := "DMC-A.XML"

	ctx = WithRequestID(ctx, requestID)
	ctx = WithDMPath(ctx, dmPath)

	if got := GetRequestID(ctx); got != requestID {
		t.Errorf("GetRequestID() = %q, want %q", got, requestID)
	}

	if got := GetDMPath(ctx); got != dmPath {
		t.Errorf("GetDMPath() = %q, want %q", got, dmPath)
	}
}
