package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/facewell/internal/camera"
	"github.com/your-org/facewell/internal/capture"
	"github.com/your-org/facewell/internal/client"
	"github.com/your-org/facewell/internal/config"
	"github.com/your-org/facewell/internal/observability"
)

const (
	presenceTimeout = 30 * time.Second
	presencePoll    = 200 * time.Millisecond
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	serverURL := flag.String("server", "", "FaceWell API base URL")
	token := flag.String("token", "", "session token")
	output := flag.String("out", "", "also save the captured JPEG to this path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		// No config file; run on defaults.
		cfg = &config.Config{}
		config.SetDefaults(cfg)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	if *serverURL == "" {
		fmt.Fprintln(os.Stderr, "-server is required")
		os.Exit(1)
	}
	if *token == "" {
		fmt.Fprintln(os.Stderr, "-token is required (sign in first)")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("interrupted, cancelling")
		cancel()
	}()

	session := camera.NewSession(&capture.Webcam{DevicePath: cfg.Camera.Device}, cfg.Camera)
	defer session.Cancel()

	slog.Info("opening camera", "device", cfg.Camera.Device)
	if err := session.Open(ctx); err != nil {
		if openErr := session.Err(); openErr != nil {
			slog.Error("camera open failed", "cause", openErr.Cause, "message", openErr.Message, "recoverable", openErr.Recoverable())
		} else {
			slog.Error("camera open failed", "error", err)
		}
		os.Exit(1)
	}

	img, err := captureWhenPresent(ctx, session)
	if err != nil {
		slog.Error("capture failed", "error", err)
		os.Exit(1)
	}
	slog.Info("captured", "width", img.Width, "height", img.Height, "bytes", len(img.Data))

	if *output != "" {
		if err := os.WriteFile(*output, img.Data, 0o644); err != nil {
			slog.Warn("save capture", "error", err, "path", *output)
		}
	}

	api := client.New(*serverURL, client.WithToken(*token))

	analysis, err := api.AnalyzeFace(ctx, img.Data)
	if err != nil {
		slog.Error("analyze face", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Wellness score: %d/100\n", analysis.WellnessScore)

	insights, err := api.Insights(ctx)
	if err != nil {
		slog.Error("fetch insights", "error", err)
		os.Exit(1)
	}
	for _, ins := range insights.Insights {
		fmt.Printf("[%s/%s] %s\n", ins.Kind, ins.Confidence, ins.Message)
	}
}

// captureWhenPresent polls the session until the presence heuristic says a
// face is in frame, then captures. A capture losing the race with presence
// (ErrNoFace) just means waiting another tick.
func captureWhenPresent(ctx context.Context, session *camera.Session) (*camera.CapturedImage, error) {
	deadline := time.Now().Add(presenceTimeout)
	ticker := time.NewTicker(presencePoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("no face detected within %s", presenceTimeout)
		}
		if !session.Present() {
			continue
		}

		img, err := session.Capture()
		if errors.Is(err, camera.ErrNoFace) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return img, nil
	}
}
