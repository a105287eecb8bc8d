package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Passage is a retrieved content chunk (immutable value object).
// Identity is the content hash of the text: two passages with equal text
// are the same passage regardless of provenance.
type Passage struct {
	text         string
	collectionID string
	filename     string
	uploadedAt   int64
}

// ReconstructPassage creates a Passage from stored hash fields.
func ReconstructPassage(text, collectionID, filename string, uploadedAt int64) Passage {
	return Passage{text: text, collectionID: collectionID, filename: filename, uploadedAt: uploadedAt}
}

// Text returns the passage text.
func (p Passage) Text() string { return p.text }

// CollectionID returns the owning collection id.
func (p Passage) CollectionID() string { return p.collectionID }

// Filename returns the source filename or URL, if known.
func (p Passage) Filename() string { return p.filename }

// UploadedAt returns the ingestion timestamp (unix millis), 0 if unknown.
func (p Passage) UploadedAt() int64 { return p.uploadedAt }

// Hash returns the dedup identity: sha256 of the passage text.
func (p Passage) Hash() string {
	h := sha256.Sum256([]byte(p.text))
	return hex.EncodeToString(h[:])
}

// DedupTexts removes duplicate passage texts, first occurrence wins,
// preserving the combined relative order of the input.
func DedupTexts(texts []string) []string {
	seen := make(map[string]bool, len(texts))
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
