package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
)

// AudioExtractor produces a standalone audio artifact from a video or
// audio-only source by trying ordered strategies until one succeeds. Each
// strategy failure is contained; it can only move the chain forward.
type AudioExtractor struct {
	ffmpegCmd string
	probe     Probe
	timeout   time.Duration
	logger    *log.Logger
}

func NewAudioExtractor(ffmpegCmd string, probe Probe, timeout time.Duration, logger *log.Logger) *AudioExtractor {
	if ffmpegCmd == "" {
		ffmpegCmd = "ffmpeg"
	}
	return &AudioExtractor{
		ffmpegCmd: ffmpegCmd,
		probe:     probe,
		timeout:   timeout,
		logger:    logger,
	}
}

// attemptResult is the typed outcome of one strategy run.
type attemptResult struct {
	outcome AttemptOutcome
	detail  string
}

type strategy struct {
	method string
	run    func(ctx context.Context, src, dst string) attemptResult
}

// Extract runs the fallback chain: container track extraction, then
// audio-only decode (only when the container itself was unreadable), then a
// generic transcode under a bounded timeout. A container that opens but has
// no audio track is terminal no_audio, not a failure to retry.
func (e *AudioExtractor) Extract(ctx context.Context, videoPath, outPath string) *AudioArtifact {
	e.logger.Info("Starting audio extraction for: %s", videoPath)

	artifact := &AudioArtifact{Status: AudioError}

	info, probeErr := e.probe.Inspect(ctx, videoPath)
	if probeErr == nil {
		artifact.Duration = info.Duration
	}

	strategies := []strategy{
		{
			method: MethodTrack,
			run: func(ctx context.Context, src, dst string) attemptResult {
				if probeErr != nil {
					return attemptResult{OutcomeSkip,
						fmt.Sprintf("source not openable as a container: %v", probeErr)}
				}
				if !info.HasAudio {
					return attemptResult{OutcomeNoAudio, "container has no audio track"}
				}
				if err := e.runFfmpeg(ctx, e.trackArgs(src, dst)); err != nil {
					return attemptResult{OutcomeFail, err.Error()}
				}
				return attemptResult{outcome: OutcomeSuccess}
			},
		},
		{
			method: MethodAudioOnly,
			run: func(ctx context.Context, src, dst string) attemptResult {
				if probeErr == nil {
					return attemptResult{OutcomeSkip, "container probe succeeded, audio-only decode not applicable"}
				}
				if err := e.runFfmpeg(ctx, e.audioOnlyArgs(src, dst)); err != nil {
					return attemptResult{OutcomeFail, err.Error()}
				}
				return attemptResult{outcome: OutcomeSuccess}
			},
		},
		{
			method: MethodTranscoder,
			run: func(ctx context.Context, src, dst string) attemptResult {
				if err := e.runFfmpeg(ctx, e.transcodeArgs(src, dst)); err != nil {
					return attemptResult{OutcomeFail, err.Error()}
				}
				return attemptResult{outcome: OutcomeSuccess}
			},
		},
	}

	for _, st := range strategies {
		result := st.run(ctx, videoPath, outPath)
		artifact.Attempts = append(artifact.Attempts, Attempt{
			Method:  st.method,
			Outcome: result.outcome,
			Detail:  result.detail,
		})
		e.logger.Debug("Audio strategy %s: %s %s", st.method, result.outcome, result.detail)

		switch result.outcome {
		case OutcomeSuccess:
			stat, err := os.Stat(outPath)
			if err != nil || stat.Size() == 0 {
				// Zero exit but nothing written counts as that
				// strategy's failure.
				artifact.Attempts[len(artifact.Attempts)-1].Outcome = OutcomeFail
				artifact.Attempts[len(artifact.Attempts)-1].Detail = "command succeeded but output file is empty"
				continue
			}
			artifact.Status = AudioSuccess
			artifact.Method = st.method
			artifact.Path = outPath
			artifact.FileSize = stat.Size()
			e.logger.Info("Audio extracted successfully using %s (%d bytes)", st.method, stat.Size())
			return artifact

		case OutcomeNoAudio:
			artifact.Status = AudioNone
			artifact.Error = result.detail
			e.logger.Warn("Video has no audio track")
			return artifact
		}
	}

	artifact.Error = summarizeAttempts(artifact.Attempts)
	e.logger.Error("Could not extract audio: %s", artifact.Error)
	return artifact
}

// runFfmpeg executes one extraction command under the bounded timeout. A
// deadline hit is reported as a timeout failure, never a hang.
func (e *AudioExtractor) runFfmpeg(ctx context.Context, args []string) error {
	cmdPath, err := exec.LookPath(e.ffmpegCmd)
	if err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, cmdPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// Stop waiting on inherited pipe handles once the process is killed.
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("ffmpeg timed out after %s", e.timeout)
	}
	if runErr != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", runErr, stderrTail(stderr.String()))
	}
	return nil
}

func (e *AudioExtractor) trackArgs(src, dst string) []string {
	return []string{
		"-i", src,
		"-map", "0:a:0", // select first audio track
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-y",
		dst,
	}
}

func (e *AudioExtractor) audioOnlyArgs(src, dst string) []string {
	return []string{
		"-i", src,
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-y",
		dst,
	}
}

func (e *AudioExtractor) transcodeArgs(src, dst string) []string {
	return []string{
		"-i", src,
		"-vn", // no video
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-y",
		dst,
	}
}

func summarizeAttempts(attempts []Attempt) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		part := fmt.Sprintf("%s=%s", a.Method, a.Outcome)
		if a.Detail != "" {
			part += " (" + a.Detail + ")"
		}
		parts = append(parts, part)
	}
	return "no audio extraction method succeeded: " + strings.Join(parts, "; ")
}

// stderrTail keeps the useful end of ffmpeg's stderr without flooding logs.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	const max = 200
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return strconv.Quote(s)
}
