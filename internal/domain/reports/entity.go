package reports

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/verilens/verilens/internal/domain/analyses"
)

// ShareToken is the opaque public handle of a report.
type ShareToken string

// Report links a share token to an analysis record.
// The view counter only ever increases, by one per successful resolution.
type Report struct {
	Token      ShareToken          `json:"shareToken"`
	AnalysisID analyses.AnalysisID `json:"analysisId"`
	ViewCount  int64               `json:"viewCount"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// NewShareToken mints an unguessable URL-safe token. 16 random bytes give
// 128 bits of entropy; the token carries no relation to any record id.
func NewShareToken() (ShareToken, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return ShareToken(base64.RawURLEncoding.EncodeToString(buf)), nil
}
