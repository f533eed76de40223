package camera

import (
	"context"
	"fmt"
	"image"
)

// Constraints are the preferred capture parameters for a device open request.
// A device that cannot satisfy them exactly should fail with
// CauseConstraints so the caller can retry with relaxed values.
type Constraints struct {
	Width      int
	Height     int
	FacingMode string // "user" for front-facing
}

// ErrorCause classifies why a device open request failed.
type ErrorCause string

const (
	CausePermissionDenied ErrorCause = "permission_denied"
	CauseDeviceNotFound   ErrorCause = "device_not_found"
	CauseDeviceBusy       ErrorCause = "device_busy"
	CauseConstraints      ErrorCause = "constraints_unsatisfiable"
	CauseSecurityContext  ErrorCause = "security_context"
	CauseUnknown          ErrorCause = "unknown"
)

// OpenError is a classified device acquisition failure. The original device
// message is preserved for diagnostics.
type OpenError struct {
	Cause   ErrorCause
	Message string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("camera open failed (%s): %s", e.Cause, e.Message)
}

// Recoverable reports whether a retry can plausibly succeed without the
// environment changing (hardware attached, page served securely, permission
// granted in settings).
func (e *OpenError) Recoverable() bool {
	switch e.Cause {
	case CauseDeviceBusy, CauseConstraints, CauseUnknown:
		return true
	}
	return false
}

// FrameSource exposes read access to the live video frames of an open
// stream. Implementations return nil from Frame until the first frame has
// been decoded.
type FrameSource interface {
	// Frame returns the most recent decoded frame, or nil if none yet.
	Frame() image.Image
	// Size returns the native pixel dimensions, (0, 0) until known.
	Size() (width, height int)
}

// Track is one media track of an open stream.
type Track interface {
	Kind() string // "video"
	Stop()        // idempotent
}

// Stream is an exclusively-owned handle to an active camera capture. The
// owning Session must call Stop on every path that leaves it open.
type Stream interface {
	FrameSource
	Tracks() []Track
	// Stop stops every track and releases the device. Idempotent.
	Stop()
}

// Device acquires camera streams. Open may block arbitrarily long (e.g. a
// permission prompt); it must honor ctx cancellation, and callers must
// release any stream it returns after they have lost interest in it.
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}
