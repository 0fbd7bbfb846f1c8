package media

import (
	"context"
	"encoding/json"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/errs"
)

// Probe wraps ffprobe for container inspection.
type Probe struct {
	ffprobeCmd string
}

func NewProbe(ffprobeCmd string) Probe {
	if ffprobeCmd == "" {
		ffprobeCmd = "ffprobe"
	}
	return Probe{ffprobeCmd: ffprobeCmd}
}

// Inspect reads stream and format properties from the container. A source
// that ffprobe cannot open yields a KindSourceUnreadable error.
func (p Probe) Inspect(ctx context.Context, path string) (*Info, error) {
	cmdPath, err := exec.LookPath(p.ffprobeCmd)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindDependencyUnavailable,
			"ffprobe is not installed or not in PATH")
	}

	cmd := exec.CommandContext(ctx, cmdPath, p.inspectArgs(path)...)
	output, err := cmd.Output()
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"ffprobe could not open source").WithContext("path", path)
	}

	var probeResult struct {
		Streams []struct {
			CodecType    string `json:"codec_type"`
			NbFrames     string `json:"nb_frames"`
			RFrameRate   string `json:"r_frame_rate"`
			AvgFrameRate string `json:"avg_frame_rate"`
			Duration     string `json:"duration"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal(output, &probeResult); err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to parse ffprobe output").WithContext("path", path)
	}

	info := &Info{}
	var streamDuration float64

	for _, stream := range probeResult.Streams {
		switch stream.CodecType {
		case "audio":
			info.HasAudio = true
		case "video":
			if info.HasVideo {
				continue // properties come from the first video stream
			}
			info.HasVideo = true

			info.FPS = parseRate(stream.RFrameRate)
			if info.FPS == 0 {
				info.FPS = parseRate(stream.AvgFrameRate)
			}
			if n, err := strconv.Atoi(stream.NbFrames); err == nil {
				info.TotalFrames = n
			}
			if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
				streamDuration = d
			}
		}
	}

	if streamDuration == 0 {
		if d, err := strconv.ParseFloat(probeResult.Format.Duration, 64); err == nil {
			streamDuration = d
		}
	}

	// Some containers omit nb_frames; estimate from duration and rate.
	if info.TotalFrames == 0 && info.FPS > 0 && streamDuration > 0 {
		info.TotalFrames = int(math.Floor(streamDuration * info.FPS))
	}

	if info.FPS > 0 {
		info.Duration = float64(info.TotalFrames) / info.FPS
	}

	return info, nil
}

func (p Probe) inspectArgs(path string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	}
}

// parseRate converts an ffprobe rational like "30000/1001" to a float.
func parseRate(rate string) float64 {
	if rate == "" || rate == "0/0" {
		return 0
	}

	parts := strings.SplitN(rate, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return num
	}

	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
