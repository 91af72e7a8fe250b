package filesystem

import (
	"path/filepath"
	"testing"

	"audio-extractor/domain/extraction"
)

func TestVerifier_Verify(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wav")
	writeFile(t, good, 44)
	empty := filepath.Join(dir, "empty.wav")
	writeFile(t, empty, 0)

	tests := []struct {
		name     string
		path     string
		wantKind extraction.ErrorKind
	}{
		{"non-empty file", good, ""},
		{"missing file", filepath.Join(dir, "missing.wav"), extraction.KindOutputMissing},
		{"empty file", empty, extraction.KindOutputEmpty},
	}

	v := NewVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.path)
			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("Verify(%q) unexpected error: %v", tt.path, err)
				}
				return
			}
			if kind := extraction.KindOf(err); kind != tt.wantKind {
				t.Errorf("Verify(%q) kind = %q, want %q", tt.path, kind, tt.wantKind)
			}
		})
	}
}
