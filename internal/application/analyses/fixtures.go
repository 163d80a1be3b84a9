package analyses

import (
	"time"

	domain "github.com/verilens/verilens/internal/domain/analyses"
)

// Canned records for the demo buttons on the landing flow. Returned fresh on
// every call so callers can never mutate shared state.

func DemoFake(now time.Time) *domain.Analysis {
	return &domain.Analysis{
		ID:        "demo-fake-001",
		FileName:  "suspicious_video.mp4",
		FileType:  domain.FileTypeVideo,
		FileHash:  "sha256:a3f4b2c9d8e7f6a5b4c3d2e1f0a9b8c7d6e5f4a3b2c1d0e9f8a7b6c5d4e3f2a1",
		Score:     23,
		Status:    domain.StatusFake,
		CreatedAt: now,
		Explanation: "Our AI detected significant inconsistencies in facial movements and lighting patterns. " +
			"The audio waveform does not match natural speech patterns, and temporal artifacts suggest frame manipulation. " +
			"This content shows clear signs of synthetic generation or deepfake technology.",
		DetectedSignals: []string{
			"Unnatural facial muscle movements detected",
			"Audio-visual synchronization mismatch (92% confidence)",
			"Lighting inconsistencies across frames",
			"Digital manipulation artifacts in frame 47-203",
			"Synthetic voice pattern detected",
			"Temporal coherence violations",
		},
		Confidence: 94,
	}
}

func DemoReal(now time.Time) *domain.Analysis {
	return &domain.Analysis{
		ID:        "demo-real-001",
		FileName:  "authentic_image.jpg",
		FileType:  domain.FileTypeImage,
		FileHash:  "sha256:f2a1e3d4c5b6a7f8e9d0c1b2a3f4e5d6c7b8a9f0e1d2c3b4a5f6e7d8c9b0a1f2",
		Score:     96,
		Status:    domain.StatusSafe,
		CreatedAt: now,
		Explanation: "Analysis shows this media is authentic. Natural lighting patterns, consistent EXIF metadata, " +
			"no signs of digital manipulation detected. Facial features show natural micro-expressions and skin texture. " +
			"Audio patterns match expected human speech characteristics.",
		DetectedSignals: []string{
			"Original EXIF metadata intact and verified",
			"Natural lighting distribution confirmed",
			"No manipulation artifacts detected",
			"Consistent compression patterns",
			"Authentic color grading",
			"Natural texture and grain structure",
		},
		Confidence: 96,
	}
}
