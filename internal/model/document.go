package model

import "time"

// Document is the in-memory text buffer currently loaded in an editor session.
// This is a pure domain model with no storage-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Format   string `json:"format"` // extension without the dot: txt, md, docx, pdf
	Size     int64  `json:"size"`
}

// BlobReference identifies a stored document in cloud storage. Existence is
// authoritative only in the remote store; references are never cached beyond
// the listing call that produced them.
type BlobReference struct {
	Name         string    `json:"name"`
	Container    string    `json:"container"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
}
