package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/config"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/ingest"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/persistence"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/scratch"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/service"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
)

// mediaExts routes to the media pipeline; audio-only sources go through the
// same path, where the fallback chain handles the missing video stream.
var mediaExts = map[string]bool{
	".mp4": true, ".mkv": true, ".webm": true, ".mov": true, ".avi": true,
	".mp3": true, ".m4a": true, ".wav": true, ".ogg": true,
}

func main() {
	input := flag.String("input", "", "video or document file to analyze")
	title := flag.String("title", "", "display title for the analysis session")
	caption := flag.String("caption", "", "optional caption/subtitle file for a video input")
	frames := flag.Int("frames", 0, "override keyframe count for this run")
	list := flag.Int("list", 0, "list the N most recent sessions and exit")
	sweep := flag.Bool("sweep", false, "run as a scratch sweep daemon")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	if *frames > 0 {
		cfg.Media.KeyframeCount = *frames
	}

	logger := log.NewLogger(log.ParseLevel(cfg.System.LogLevel))

	if err := cfg.CheckTools(); err != nil {
		logger.Error("Startup check failed: %v", err)
		os.Exit(1)
	}

	store, err := persistence.NewSQLiteStore(cfg.Storage.SessionDBPath)
	if err != nil {
		logger.Error("Failed to open session index: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	svc, err := service.New(cfg, store, logger)
	if err != nil {
		logger.Error("Failed to build service: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *list > 0:
		if err := listSessions(ctx, svc, *list); err != nil {
			logger.Error("Failed to list sessions: %v", err)
			os.Exit(1)
		}
	case *sweep:
		if err := runSweeper(ctx, cfg, logger); err != nil {
			logger.Error("Sweep daemon failed: %v", err)
			os.Exit(1)
		}
	case *input != "":
		if err := analyze(ctx, svc, *input, *title, *caption, logger); err != nil {
			logger.Error("Analysis failed: %v", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func analyze(ctx context.Context, svc *service.Service, input, title, caption string, logger *log.Logger) error {
	ext := strings.ToLower(filepath.Ext(input))

	if mediaExts[ext] {
		analysis, err := svc.AnalyzeVideo(ctx, ingest.VideoSource{
			Path:        input,
			Title:       title,
			CaptionPath: caption,
		})
		if err != nil {
			return err
		}
		logger.Info("Video analysis complete in %s: %d keyframes, transcript %s, session %s",
			analysis.Elapsed.Round(time.Millisecond), len(analysis.Keyframes.Frames),
			analysis.Transcript.Status, analysis.SessionPath)
		return nil
	}

	analysis, err := svc.AnalyzeDocument(ctx, input)
	if err != nil {
		return err
	}
	logger.Info("Document analysis complete in %s: %d chars, session %s",
		analysis.Elapsed.Round(time.Millisecond), analysis.Result.Text.CharCount, analysis.SessionPath)
	return nil
}

func listSessions(ctx context.Context, svc *service.Service, limit int) error {
	sessions, err := svc.ListSessions(ctx, limit)
	if err != nil {
		return err
	}
	for _, rec := range sessions {
		fmt.Printf("%s  %-8s  %-40s  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Kind, rec.Title, rec.SessionPath)
	}
	return nil
}

func runSweeper(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	manager := scratch.NewManager(cfg.Storage.ScratchDir, cfg.Storage.AnalysisDir, logger)
	if err := manager.EnsureScratchDir(); err != nil {
		return err
	}

	sweeper := scratch.NewSweeper(manager, cfg.Storage.SweepMaxAge, logger)
	c := cron.New(cron.WithSeconds())
	if _, err := sweeper.Schedule(c, cfg.Storage.SweepCronExpr); err != nil {
		return err
	}

	logger.Info("Scratch sweeper running (%s, max age %s)",
		cfg.Storage.SweepCronExpr, cfg.Storage.SweepMaxAge)
	c.Start()
	<-ctx.Done()
	cronCtx := c.Stop()
	<-cronCtx.Done()
	return nil
}
