package media

import (
	"fmt"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
)

const (
	placeholderWidth  = 640
	placeholderHeight = 480
	placeholderLabel  = "Error processing video"
)

// GeneratePlaceholderFrames synthesizes count labeled stand-in images, used
// as a full-set substitute when the source video cannot be decoded at all.
// Failure stays visible in-band as labeled frames instead of aborting the
// whole analysis.
func GeneratePlaceholderFrames(videoID, outDir string, count int, logger *log.Logger) (*KeyframeSet, error) {
	logger.Info("Generating %d placeholder frames for video_id: %s", count, videoID)

	set := &KeyframeSet{Placeholder: true}
	for i := 0; i < count; i++ {
		dc := gg.NewContext(placeholderWidth, placeholderHeight)
		dc.SetRGB(0, 0, 0)
		dc.Clear()

		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(placeholderLabel,
			placeholderWidth/2, placeholderHeight/2-30, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("Frame %d of %d", i+1, count),
			placeholderWidth/2, placeholderHeight/2+30, 0.5, 0.5)

		framePath := filepath.Join(outDir, fmt.Sprintf("%s_placeholder_%d.jpg", videoID, i))
		if err := gg.SaveJPG(framePath, dc.Image(), 90); err != nil {
			return nil, fmt.Errorf("failed to write placeholder frame %d: %w", i, err)
		}

		set.Frames = append(set.Frames, Keyframe{
			Path:    framePath,
			Ordinal: i,
		})
	}

	logger.Info("Generated %d placeholder frames", len(set.Frames))
	return set, nil
}
