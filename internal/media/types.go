package media

import "time"

// Info holds the container properties the pipeline needs, read once per
// request with ffprobe.
type Info struct {
	TotalFrames int
	FPS         float64
	Duration    float64 // seconds, total_frames/fps
	HasVideo    bool
	HasAudio    bool
}

// Keyframe is one decoded frame written as a JPEG still.
type Keyframe struct {
	Path       string
	Ordinal    int
	FrameIndex int
	Timestamp  time.Duration
}

// KeyframeSet is an ordered set of extracted stills. When extraction cannot
// proceed at all the set is a full placeholder substitute, never a mix of
// real frames and placeholders.
type KeyframeSet struct {
	Frames      []Keyframe
	Placeholder bool
}

func (s KeyframeSet) Paths() []string {
	paths := make([]string, 0, len(s.Frames))
	for _, f := range s.Frames {
		paths = append(paths, f.Path)
	}
	return paths
}

// AudioStatus is the terminal state of the audio fallback chain.
type AudioStatus string

const (
	AudioSuccess AudioStatus = "success"
	AudioNone    AudioStatus = "no_audio"
	AudioError   AudioStatus = "error"
)

// Audio extraction method tags, one per strategy in the chain.
const (
	MethodTrack      = "track"
	MethodAudioOnly  = "audio_only"
	MethodTranscoder = "transcoder"
)

// AttemptOutcome is the typed result of one strategy attempt.
type AttemptOutcome string

const (
	OutcomeSuccess AttemptOutcome = "success"
	OutcomeSkip    AttemptOutcome = "skip"
	OutcomeFail    AttemptOutcome = "fail"
	OutcomeNoAudio AttemptOutcome = "no_audio"
)

// Attempt records one strategy invocation for post-hoc debugging.
type Attempt struct {
	Method  string         `json:"method"`
	Outcome AttemptOutcome `json:"outcome"`
	Detail  string         `json:"detail,omitempty"`
}

// AudioArtifact is the result of the audio fallback chain. Path is set iff
// Status is AudioSuccess.
type AudioArtifact struct {
	Status   AudioStatus `json:"status"`
	Method   string      `json:"method,omitempty"`
	Path     string      `json:"audio_path,omitempty"`
	Duration float64     `json:"duration"`
	FileSize int64       `json:"file_size"`
	Attempts []Attempt   `json:"attempts,omitempty"`
	Error    string      `json:"error,omitempty"`
}
