package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/file"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
	"golang.org/x/sync/errgroup"
)

// frameDecodeConcurrency bounds parallel single-frame decodes. Frames have
// no ordering dependency; only assembly is ordered.
const frameDecodeConcurrency = 4

// Sampler extracts keyframes at equal time intervals across a video.
type Sampler struct {
	ffmpegCmd    string
	probe        Probe
	jpegQuality  int
	frameTimeout time.Duration
	logger       *log.Logger
}

func NewSampler(ffmpegCmd string, probe Probe, jpegQuality int, frameTimeout time.Duration, logger *log.Logger) *Sampler {
	if ffmpegCmd == "" {
		ffmpegCmd = "ffmpeg"
	}
	return &Sampler{
		ffmpegCmd:    ffmpegCmd,
		probe:        probe,
		jpegQuality:  jpegQuality,
		frameTimeout: frameTimeout,
		logger:       logger,
	}
}

// frameIndexAt converts a nominal timestamp to a source frame index. The
// floor rule here is the single place the rounding policy lives.
func frameIndexAt(seconds, fps float64, totalFrames int) int {
	index := int(seconds * fps)
	if index > totalFrames-1 {
		index = totalFrames - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

// ExtractKeyframes samples count frames at equal time intervals and writes
// each as a JPEG under outDir. On any decode failure the frame is skipped;
// if nothing can be decoded at all the whole set degrades to labeled
// placeholders. Never returns an empty set.
func (s *Sampler) ExtractKeyframes(ctx context.Context, videoPath, outDir string, count int) (*KeyframeSet, error) {
	s.logger.Info("Starting keyframe extraction from: %s (target %d frames)", videoPath, count)

	videoID := file.Stem(videoPath)

	info, err := s.probe.Inspect(ctx, videoPath)
	if err != nil {
		s.logger.Error("Failed to open video file: %v", err)
		return GeneratePlaceholderFrames(videoID, outDir, count, s.logger)
	}

	if info.TotalFrames <= 0 {
		s.logger.Error("Invalid frame count reported for %s: %d", videoPath, info.TotalFrames)
		return GeneratePlaceholderFrames(videoID, outDir, count, s.logger)
	}

	s.logger.Info("Video properties - Total frames: %d, FPS: %.2f, Duration: %.2fs",
		info.TotalFrames, info.FPS, info.Duration)

	// Never request more frames than exist.
	if info.TotalFrames < count {
		s.logger.Warn("Video has fewer frames (%d) than requested (%d), adjusting",
			info.TotalFrames, count)
		count = info.TotalFrames
	}

	interval := info.Duration / float64(count)

	frames := make([]*Keyframe, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(frameDecodeConcurrency)

	for i := 0; i < count; i++ {
		g.Go(func() error {
			timestamp := float64(i) * interval
			frameIndex := frameIndexAt(timestamp, info.FPS, info.TotalFrames)
			framePath := filepath.Join(outDir, fmt.Sprintf("%s_frame_%d.jpg", videoID, i))

			if err := s.decodeFrame(gctx, videoPath, framePath, timestamp); err != nil {
				// Skipped, not retried: the set may come back short.
				s.logger.Warn("Failed to read frame at index %d: %v", frameIndex, err)
				return nil
			}

			frames[i] = &Keyframe{
				Path:       framePath,
				Ordinal:    i,
				FrameIndex: frameIndex,
				Timestamp:  time.Duration(timestamp * float64(time.Second)),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Keyframe extraction aborted: %v", err)
	}

	set := &KeyframeSet{}
	for _, f := range frames {
		if f != nil {
			set.Frames = append(set.Frames, *f)
		}
	}

	if len(set.Frames) == 0 {
		s.logger.Warn("No frames extracted, generating placeholders")
		return GeneratePlaceholderFrames(videoID, outDir, count, s.logger)
	}

	s.logger.Info("Keyframe extraction complete: %d frames saved", len(set.Frames))
	return set, nil
}

// decodeFrame seeks to the given timestamp and decodes exactly one frame.
func (s *Sampler) decodeFrame(ctx context.Context, videoPath, framePath string, seconds float64) error {
	cmdPath, err := exec.LookPath(s.ffmpegCmd)
	if err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	if s.frameTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.frameTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, cmdPath,
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", strconv.Itoa(s.jpegQuality),
		"-y",
		framePath,
	)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg frame decode failed: %w", err)
	}

	// ffmpeg can exit zero without writing anything when the seek lands
	// past the last packet.
	stat, err := os.Stat(framePath)
	if err != nil || stat.Size() == 0 {
		return fmt.Errorf("no frame written at %.3fs", seconds)
	}
	return nil
}
