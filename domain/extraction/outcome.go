package extraction

import (
	"math"
	"time"
)

// Settings records the transcode parameters actually used
type Settings struct {
	SampleRate       int    `json:"sampleRate"`
	Channels         int    `json:"channels"`
	Codec            string `json:"codec"`
	UseContainer     bool   `json:"useContainer"`
	ContainerRuntime string `json:"containerRuntime"`
}

// Outcome is the only value returned across the extraction boundary
type Outcome struct {
	Success      bool          `json:"success"`
	ErrorKind    ErrorKind     `json:"errorKind,omitempty"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	RequestID    string        `json:"requestId,omitempty"`
	InputPath    string        `json:"inputPath"`
	OutputPath   string        `json:"outputPath"`
	InputSizeMB  float64       `json:"inputSizeMB"`
	OutputSizeMB float64       `json:"outputSizeMB"`
	Duration     time.Duration `json:"durationNs"`
	Settings     Settings      `json:"settings"`
}

// Fail records err on the outcome
func (o *Outcome) Fail(err error) {
	o.Success = false
	o.ErrorKind = KindOf(err)
	if o.ErrorKind == "" {
		o.ErrorKind = KindExecutionFailed
	}
	o.ErrorMessage = err.Error()
}

// Err returns the outcome's failure as an error, or nil on success
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return NewError(o.ErrorKind, o.ErrorMessage, nil)
}

// BytesToMB converts a byte count to megabytes rounded to two decimals
func BytesToMB(n int64) float64 {
	return math.Round(float64(n)/(1024*1024)*100) / 100
}
