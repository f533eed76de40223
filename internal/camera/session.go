// Package camera implements the selfie capture session: device acquisition,
// the per-frame presence sampling loop, and still-image capture. The session
// is an explicit state machine owning the device stream and the sampling
// loop's cancellation handle, so every transition out of streaming releases
// both deterministically.
package camera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/your-org/facewell/internal/config"
	"github.com/your-org/facewell/internal/observability"
)

type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateStreaming  State = "streaming"
	StateCaptured   State = "captured"
	StateError      State = "error"
)

// ErrNoFace is returned by Capture when the latest presence signal is false.
// The session state does not change; surface this as a "position your face"
// notice, not a failure.
var ErrNoFace = errors.New("no face detected in frame")

// ErrCancelled is returned by Open when the session was cancelled while the
// device request was still pending. Any stream the device eventually
// produced has already been released.
var ErrCancelled = errors.New("session cancelled")

// InvalidTransitionError reports an operation called from a state it is not
// valid in.
type InvalidTransitionError struct {
	Op    string
	State State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s not valid in state %s", e.Op, e.State)
}

// Session drives one camera capture flow:
//
//	Idle → Requesting → Streaming → Captured → Idle
//
// with Error reachable from Requesting and Streaming. All methods are safe
// for concurrent use; transitions are serialized by a mutex. The device
// stream and the captured image are mutually exclusive: holding one implies
// the other is released.
type Session struct {
	device   Device
	cfg      config.CameraConfig
	detector *PresenceDetector
	encoder  *CaptureEncoder

	mu         sync.Mutex
	state      State
	stream     Stream
	image      *CapturedImage
	lastErr    *OpenError
	present    bool
	candidate  bool
	streak     int
	openGen    uint64 // bumped by Cancel to poison in-flight Open calls
	loopCancel context.CancelFunc
	loopDone   chan struct{}
}

func NewSession(device Device, cfg config.CameraConfig) *Session {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 30
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 100
	}
	if cfg.DebounceTicks <= 0 {
		cfg.DebounceTicks = 1
	}
	return &Session{
		device:   device,
		cfg:      cfg,
		detector: NewPresenceDetector(cfg.PresenceThreshold),
		encoder:  NewCaptureEncoder(cfg.JPEGQuality),
		state:    StateIdle,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Present returns the latest presence signal. Meaningful only while
// streaming; false otherwise.
func (s *Session) Present() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateStreaming && s.present
}

// Image returns the captured artifact, or nil outside the Captured state.
func (s *Session) Image() *CapturedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}

// Err returns the classified cause of the last failed open, or nil.
func (s *Session) Err() *OpenError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Open acquires the camera and starts the presence sampling loop. Valid from
// Idle or Error. The device request may block indefinitely on a permission
// prompt; if Cancel runs meanwhile, the late result is discarded and any
// stream it produced is released immediately.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle && s.state != StateError {
		st := s.state
		s.mu.Unlock()
		return &InvalidTransitionError{Op: "open", State: st}
	}
	s.state = StateRequesting
	s.lastErr = nil
	s.openGen++
	gen := s.openGen
	s.mu.Unlock()

	stream, err := s.openWithFallback(ctx)

	s.mu.Lock()
	if s.state != StateRequesting || s.openGen != gen {
		// Cancelled while the prompt was pending: discard the resolution.
		s.mu.Unlock()
		if stream != nil {
			stream.Stop()
		}
		return ErrCancelled
	}

	if err != nil {
		oe := classifyOpenErr(err)
		s.lastErr = oe
		s.state = StateError
		s.mu.Unlock()
		observability.CameraOpenErrors.WithLabelValues(string(oe.Cause)).Inc()
		slog.Warn("camera open failed", "cause", oe.Cause, "error", oe.Message)
		return oe
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.stream = stream
	s.state = StateStreaming
	s.present = false
	s.candidate = false
	s.streak = 0
	s.loopCancel = cancel
	s.loopDone = make(chan struct{})
	done := s.loopDone
	s.mu.Unlock()

	observability.ActiveSessions.Inc()
	go s.runLoop(loopCtx, stream, done)

	slog.Info("camera streaming", "sample_rate", s.cfg.SampleRate)
	return nil
}

func (s *Session) openWithFallback(ctx context.Context) (Stream, error) {
	stream, err := s.device.Open(ctx, Constraints{
		Width:      s.cfg.Width,
		Height:     s.cfg.Height,
		FacingMode: "user",
	})
	if err == nil {
		return stream, nil
	}

	var oe *OpenError
	if errors.As(err, &oe) && oe.Cause == CauseConstraints {
		slog.Info("retrying camera open with relaxed constraints",
			"width", s.cfg.FallbackWidth, "height", s.cfg.FallbackHeight)
		return s.device.Open(ctx, Constraints{
			Width:      s.cfg.FallbackWidth,
			Height:     s.cfg.FallbackHeight,
			FacingMode: "user",
		})
	}
	return nil, err
}

// Capture encodes a mirrored still of the current frame and releases the
// camera. Valid from Streaming only, and only while the latest presence
// signal is true. An encoding failure leaves the session streaming so the
// capture can be retried.
func (s *Session) Capture() (*CapturedImage, error) {
	s.mu.Lock()
	if s.state != StateStreaming {
		st := s.state
		s.mu.Unlock()
		return nil, &InvalidTransitionError{Op: "capture", State: st}
	}
	if !s.present {
		s.mu.Unlock()
		observability.Captures.WithLabelValues("no_face").Inc()
		return nil, ErrNoFace
	}
	cancel := s.loopCancel
	done := s.loopDone
	stream := s.stream
	s.mu.Unlock()

	// Stop the sampling loop before touching the frame; no tick may run
	// after this point.
	cancel()
	<-done

	s.mu.Lock()
	if s.state != StateStreaming || s.stream != stream {
		// Cancelled in the window between the presence check and here.
		st := s.state
		s.mu.Unlock()
		return nil, &InvalidTransitionError{Op: "capture", State: st}
	}
	s.mu.Unlock()

	img, err := s.encoder.Encode(stream, time.Now())
	if err != nil {
		// Retryable: restart the loop and stay streaming.
		s.mu.Lock()
		if s.state == StateStreaming && s.stream == stream {
			loopCtx, loopCancel := context.WithCancel(context.Background())
			s.loopCancel = loopCancel
			s.loopDone = make(chan struct{})
			go s.runLoop(loopCtx, stream, s.loopDone)
		}
		s.mu.Unlock()
		observability.Captures.WithLabelValues("encode_failed").Inc()
		return nil, err
	}

	s.mu.Lock()
	if s.state != StateStreaming || s.stream != stream {
		st := s.state
		s.mu.Unlock()
		return nil, &InvalidTransitionError{Op: "capture", State: st}
	}
	s.stream = nil
	s.loopCancel = nil
	s.loopDone = nil
	s.present = false
	s.image = img
	s.state = StateCaptured
	s.mu.Unlock()

	stream.Stop()
	observability.ActiveSessions.Dec()
	observability.Captures.WithLabelValues("ok").Inc()

	slog.Info("photo captured", "bytes", len(img.Data), "width", img.Width, "height", img.Height)
	return img, nil
}

// Cancel stops the sampling loop, releases the device, and discards any
// captured image. Valid from any state and idempotent: calling it twice, or
// from Idle, is safe.
func (s *Session) Cancel() {
	s.mu.Lock()
	wasStreaming := s.state == StateStreaming
	cancel := s.loopCancel
	done := s.loopDone
	stream := s.stream
	s.loopCancel = nil
	s.loopDone = nil
	s.stream = nil
	s.image = nil
	s.present = false
	s.candidate = false
	s.streak = 0
	s.openGen++ // discard any in-flight device request
	s.state = StateIdle
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	if stream != nil {
		stream.Stop()
	}
	if wasStreaming {
		observability.ActiveSessions.Dec()
	}
}

// Retake discards the captured image and re-opens the camera. Valid from
// Captured only.
func (s *Session) Retake(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateCaptured {
		st := s.state
		s.mu.Unlock()
		return &InvalidTransitionError{Op: "retake", State: st}
	}
	s.image = nil
	s.state = StateIdle
	s.mu.Unlock()

	return s.Open(ctx)
}

// runLoop is the cooperative sampling loop: one tick per sample interval for
// as long as the session streams. It terminates promptly on ctx cancellation
// and owns no state beyond its local sampler.
func (s *Session) runLoop(ctx context.Context, stream Stream, done chan struct{}) {
	defer close(done)

	sampler := NewFrameSampler(stream, s.cfg.SampleSize)
	interval := time.Second / time.Duration(s.cfg.SampleRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(sampler, now)
		}
	}
}

func (s *Session) tick(sampler *FrameSampler, now time.Time) {
	sample, ok := sampler.Sample(now)
	if !ok {
		// No decoded frame yet; no signal update this tick.
		return
	}

	raw := s.detector.Detect(sample)

	s.mu.Lock()
	if s.state == StateStreaming {
		s.updatePresence(raw)
	}
	s.mu.Unlock()

	observability.PresenceTicks.WithLabelValues(fmt.Sprintf("%t", raw)).Inc()
}

// updatePresence applies the optional consecutive-tick debounce. With the
// default of 1 tick the published signal simply follows the raw value, which
// matches the reference behavior (no temporal smoothing). Caller holds mu.
func (s *Session) updatePresence(raw bool) {
	if s.cfg.DebounceTicks <= 1 {
		s.present = raw
		return
	}
	if raw == s.present {
		s.streak = 0
		return
	}
	if raw == s.candidate && s.streak > 0 {
		s.streak++
	} else {
		s.candidate = raw
		s.streak = 1
	}
	if s.streak >= s.cfg.DebounceTicks {
		s.present = raw
		s.streak = 0
	}
}

// classifyOpenErr normalizes a device error into an *OpenError, wrapping
// unclassified errors as CauseUnknown with the original message.
func classifyOpenErr(err error) *OpenError {
	var oe *OpenError
	if errors.As(err, &oe) {
		return oe
	}
	return &OpenError{Cause: CauseUnknown, Message: err.Error()}
}
