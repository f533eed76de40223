// Package capture provides the FFmpeg-backed webcam implementation of the
// camera.Device interface. FFmpeg reads the local video device and emits an
// MJPEG stream on stdout; the newest decoded frame is kept in a single slot
// for the sampling loop and the capture encoder to read.
package capture

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/your-org/facewell/internal/camera"
)

// openProbeTimeout bounds how long Open waits for the first frame before
// deciding the device works. FFmpeg only reports most device errors after
// startup, so a short probe is needed to classify them.
const openProbeTimeout = 3 * time.Second

// Webcam opens local camera devices through FFmpeg.
type Webcam struct {
	// DevicePath overrides the platform default ("/dev/video0" on Linux,
	// "0" on macOS).
	DevicePath string
}

func (w *Webcam) Open(ctx context.Context, c camera.Constraints) (camera.Stream, error) {
	device := w.DevicePath
	if device == "" {
		device = defaultDevice()
	}

	args := inputArgs(device, c)
	args = append(args,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "3",
		"pipe:1",
	)

	streamCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(streamCtx, "ffmpeg", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, &camera.OpenError{Cause: camera.CauseUnknown, Message: err.Error()}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, &camera.OpenError{Cause: camera.CauseUnknown, Message: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		cancel()
		if strings.Contains(err.Error(), "executable file not found") {
			return nil, &camera.OpenError{Cause: camera.CauseDeviceNotFound, Message: "ffmpeg not installed: " + err.Error()}
		}
		return nil, &camera.OpenError{Cause: camera.CauseUnknown, Message: err.Error()}
	}

	ws := &webcamStream{
		cancel:     cancel,
		cmd:        cmd,
		firstFrame: make(chan struct{}),
	}

	// Collect stderr for error classification; ffmpeg reports device
	// problems there after startup.
	var stderrBuf bytes.Buffer
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := scanner.Text()
			stderrBuf.WriteString(line)
			stderrBuf.WriteByte('\n')
			slog.Debug("ffmpeg stderr", "output", line)
		}
	}()

	exited := make(chan error, 1)
	go func() {
		ws.readFrames(stdout)
		exited <- cmd.Wait()
	}()

	select {
	case <-ws.firstFrame:
		return ws, nil
	case err := <-exited:
		cancel()
		return nil, classifyFFmpeg(stderrBuf.String(), err)
	case <-ctx.Done():
		// Caller lost interest while we were probing.
		ws.Stop()
		return nil, &camera.OpenError{Cause: camera.CauseUnknown, Message: ctx.Err().Error()}
	case <-time.After(openProbeTimeout):
		// Process alive but no frame yet; hand the stream over and let the
		// sampling loop's not-ready guard cover the gap.
		return ws, nil
	}
}

func defaultDevice() string {
	switch runtime.GOOS {
	case "darwin":
		return "0"
	case "windows":
		return "video=Integrated Camera"
	default:
		return "/dev/video0"
	}
}

func inputArgs(device string, c camera.Constraints) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "warning",
	}

	switch runtime.GOOS {
	case "darwin":
		args = append(args, "-f", "avfoundation", "-framerate", "30")
	case "windows":
		args = append(args, "-f", "dshow")
	default:
		args = append(args, "-f", "v4l2")
	}

	if c.Width > 0 && c.Height > 0 {
		args = append(args, "-video_size", fmt.Sprintf("%dx%d", c.Width, c.Height))
	}

	return append(args, "-i", device)
}

// classifyFFmpeg maps ffmpeg's stderr output onto the camera error taxonomy.
func classifyFFmpeg(stderr string, waitErr error) *camera.OpenError {
	msg := strings.TrimSpace(stderr)
	if msg == "" && waitErr != nil {
		msg = waitErr.Error()
	}
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "operation not permitted"):
		return &camera.OpenError{Cause: camera.CausePermissionDenied, Message: msg}
	case strings.Contains(lower, "no such file or directory"),
		strings.Contains(lower, "no such device"),
		strings.Contains(lower, "cannot find a proper format"):
		return &camera.OpenError{Cause: camera.CauseDeviceNotFound, Message: msg}
	case strings.Contains(lower, "device or resource busy"),
		strings.Contains(lower, "resource busy"):
		return &camera.OpenError{Cause: camera.CauseDeviceBusy, Message: msg}
	case strings.Contains(lower, "invalid argument"),
		strings.Contains(lower, "not supported"),
		strings.Contains(lower, "could not set video options"):
		return &camera.OpenError{Cause: camera.CauseConstraints, Message: msg}
	default:
		return &camera.OpenError{Cause: camera.CauseUnknown, Message: msg}
	}
}

// webcamStream is the open device handle: one video track backed by the
// ffmpeg process, with a single-slot buffer holding the newest frame.
type webcamStream struct {
	cancel context.CancelFunc
	cmd    *exec.Cmd

	mu        sync.Mutex
	frame     image.Image
	width     int
	height    int
	stopped   bool
	firstOnce sync.Once

	firstFrame chan struct{}
}

func (s *webcamStream) Frame() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *webcamStream) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *webcamStream) Tracks() []camera.Track {
	return []camera.Track{&videoTrack{stream: s}}
}

// Stop kills the ffmpeg process and drops the buffered frame. Idempotent.
func (s *webcamStream) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.frame = nil
	s.mu.Unlock()

	s.cancel()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
}

// readFrames scans the concatenated JPEG stream on stdout and keeps only the
// most recent decoded image. Older frames are discarded, never queued.
func (s *webcamStream) readFrames(r io.Reader) {
	reader := bufio.NewReaderSize(r, 512*1024)

	for {
		if err := findJPEGStart(reader); err != nil {
			return
		}
		data, err := readUntilJPEGEnd(reader)
		if err != nil {
			return
		}

		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			slog.Debug("skipping undecodable frame", "error", err)
			continue
		}

		bounds := img.Bounds()
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		s.frame = img
		s.width = bounds.Dx()
		s.height = bounds.Dy()
		s.mu.Unlock()

		s.firstOnce.Do(func() { close(s.firstFrame) })
	}
}

type videoTrack struct {
	stream *webcamStream
}

func (t *videoTrack) Kind() string { return "video" }
func (t *videoTrack) Stop()        { t.stream.Stop() }

// findJPEGStart consumes input until the FF D8 start-of-image marker.
func findJPEGStart(r *bufio.Reader) error {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		if b != 0xFF {
			continue
		}
		b, err = r.ReadByte()
		if err != nil {
			return err
		}
		if b == 0xD8 {
			return nil
		}
	}
}

// readUntilJPEGEnd reads one JPEG payload up to the FF D9 end-of-image
// marker, including both markers.
func readUntilJPEGEnd(r *bufio.Reader) ([]byte, error) {
	data := []byte{0xFF, 0xD8}

	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		data = append(data, b)

		if b == 0xFF {
			next, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			data = append(data, next)
			if next == 0xD9 {
				return data, nil
			}
		}

		// Safety: max 10MB per frame
		if len(data) > 10*1024*1024 {
			return nil, fmt.Errorf("jpeg frame too large: %d bytes", len(data))
		}
	}
}
