package extraction

// Formats describes what the engine accepts and produces
type Formats struct {
	VideoFormats    []string        `json:"supportedVideoFormats"`
	AudioFormats    []string        `json:"supportedAudioFormats"`
	OptimalSettings OptimalSettings `json:"optimalSettings"`
	Description     string          `json:"description"`
}

// OptimalSettings are the fixed transcode parameters
type OptimalSettings struct {
	SampleRate        int    `json:"sampleRate"`
	Channels          int    `json:"channels"`
	Codec             string `json:"codec"`
	RecommendedFormat string `json:"recommendedOutputFormat"`
}

// SupportedFormats returns the supported formats and settings
func SupportedFormats() Formats {
	return Formats{
		VideoFormats: append([]string(nil), VideoExtensions...),
		AudioFormats: append([]string(nil), AudioExtensions...),
		OptimalSettings: OptimalSettings{
			SampleRate:        SampleRate,
			Channels:          Channels,
			Codec:             Codec,
			RecommendedFormat: ".wav",
		},
		Description: "Formats and settings optimized for speech recognition and transcription",
	}
}
