package analyses

import (
	"fmt"
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Status enum
type Status string

const (
	StatusSafe       Status = "safe"
	StatusSuspicious Status = "suspicious"
	StatusFake       Status = "fake"
)

// FileType enum: closed set of supported media kinds
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeAudio FileType = "audio"
	FileTypeVideo FileType = "video"
	FileTypeText  FileType = "text"
	FileTypeURL   FileType = "url"
)

// Aggregate Root: Analysis
// Immutable once created; only the linked report's view counter ever changes.
type Analysis struct {
	ID              AnalysisID `json:"id"`
	UserID          string     `json:"userId,omitempty"`
	FileName        string     `json:"fileName"`
	FileType        FileType   `json:"fileType"`
	FileHash        string     `json:"fileHash"`
	Score           int        `json:"authenticityScore"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"timestamp"`
	Explanation     string     `json:"aiExplanation"`
	DetectedSignals []string   `json:"detectedSignals"`
	Confidence      int        `json:"confidenceLevel"`
	PreviewURL      string     `json:"previewUrl,omitempty"`
}

// ValidStatus reports whether s is one of the three verdicts.
func ValidStatus(s Status) bool {
	switch s {
	case StatusSafe, StatusSuspicious, StatusFake:
		return true
	}
	return false
}

// ValidFileType reports whether t is in the supported set.
func ValidFileType(t FileType) bool {
	switch t {
	case FileTypeImage, FileTypeAudio, FileTypeVideo, FileTypeText, FileTypeURL:
		return true
	}
	return false
}

// Validate checks the record invariants: bounded score/confidence,
// enumerated status and file type, non-empty identity fields.
func (a *Analysis) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("analysis id is required")
	}
	if a.FileName == "" {
		return fmt.Errorf("file name is required")
	}
	if !ValidFileType(a.FileType) {
		return fmt.Errorf("invalid file type: %s", a.FileType)
	}
	if !ValidStatus(a.Status) {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	if a.Score < 0 || a.Score > 100 {
		return fmt.Errorf("authenticity score out of range: %d", a.Score)
	}
	if a.Confidence < 0 || a.Confidence > 100 {
		return fmt.Errorf("confidence level out of range: %d", a.Confidence)
	}
	return nil
}
