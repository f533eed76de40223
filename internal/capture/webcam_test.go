package capture

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/facewell/internal/camera"
)

func TestClassifyFFmpeg(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   camera.ErrorCause
	}{
		{"permission", "/dev/video0: Permission denied", camera.CausePermissionDenied},
		{"not permitted", "Operation not permitted", camera.CausePermissionDenied},
		{"missing device", "/dev/video7: No such file or directory", camera.CauseDeviceNotFound},
		{"no such device", "video=Cam: No such device", camera.CauseDeviceNotFound},
		{"busy", "/dev/video0: Device or resource busy", camera.CauseDeviceBusy},
		{"bad size", "ioctl(VIDIOC_S_FMT): Invalid argument", camera.CauseConstraints},
		{"unsupported", "requested format not supported", camera.CauseConstraints},
		{"mystery", "something exploded", camera.CauseUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oe := classifyFFmpeg(tt.stderr, nil)
			assert.Equal(t, tt.want, oe.Cause)
			assert.Equal(t, tt.stderr, oe.Message)
		})
	}
}

func TestClassifyFFmpegFallsBackToWaitError(t *testing.T) {
	oe := classifyFFmpeg("", errors.New("exit status 1"))
	assert.Equal(t, camera.CauseUnknown, oe.Cause)
	assert.Equal(t, "exit status 1", oe.Message)
}

func TestJPEGFrameScanning(t *testing.T) {
	frame1 := []byte{0xFF, 0xD8, 0x01, 0x02, 0x03, 0xFF, 0xD9}
	frame2 := []byte{0xFF, 0xD8, 0x0A, 0x0B, 0xFF, 0xD9}

	var stream bytes.Buffer
	stream.Write([]byte{0x00, 0x11, 0x22}) // leading garbage
	stream.Write(frame1)
	stream.Write([]byte{0x33, 0x44}) // inter-frame garbage
	stream.Write(frame2)

	r := bufio.NewReader(&stream)

	require.NoError(t, findJPEGStart(r))
	got, err := readUntilJPEGEnd(r)
	require.NoError(t, err)
	assert.Equal(t, frame1, got)

	require.NoError(t, findJPEGStart(r))
	got, err = readUntilJPEGEnd(r)
	require.NoError(t, err)
	assert.Equal(t, frame2, got)

	// Stream exhausted: no further start marker.
	assert.Error(t, findJPEGStart(r))
}

func TestReadUntilJPEGEndTruncated(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	_, err := readUntilJPEGEnd(r)
	assert.Error(t, err)
}

func TestInputArgsIncludeVideoSize(t *testing.T) {
	args := inputArgs("/dev/video0", camera.Constraints{Width: 1280, Height: 720})
	assert.Contains(t, args, "-video_size")
	assert.Contains(t, args, "1280x720")
	assert.Equal(t, "/dev/video0", args[len(args)-1])

	args = inputArgs("/dev/video0", camera.Constraints{})
	assert.NotContains(t, args, "-video_size")
}
