package filesystem

import (
	"os"

	"audio-extractor/domain/extraction"
)

// Verifier implements extraction.OutputVerifier. It never modifies the file.
type Verifier struct{}

// NewVerifier creates a new output verifier
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify fails with OutputMissing or OutputEmpty
func (v *Verifier) Verify(outputPath string) error {
	info, err := os.Stat(outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return extraction.OutputMissing(outputPath)
		}
		return statError("output file", outputPath, err)
	}
	if info.Size() == 0 {
		return extraction.OutputEmpty(outputPath)
	}
	return nil
}

// Ensure Verifier implements extraction.OutputVerifier
var _ extraction.OutputVerifier = (*Verifier)(nil)
