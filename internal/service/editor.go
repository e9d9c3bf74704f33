// Package service orchestrates the editor use cases. Every operation runs in
// the scope of one session; failures never tear the session down, they only
// leave the affected feature unavailable until retried.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"docedit/internal/ai"
	"docedit/internal/analysis"
	"docedit/internal/diff"
	"docedit/internal/fileio"
	"docedit/internal/model"
	"docedit/internal/session"
	"docedit/internal/storage"
	"docedit/internal/visualization"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoDocument      = errors.New("session has no document")
	ErrIDRequired      = errors.New("id is required")
)

// EnhanceResult pairs the AI-suggested text with the diff against the
// current document.
type EnhanceResult struct {
	EnhancedText string      `json:"enhanced_text"`
	Diff         diff.Result `json:"diff"`
}

// CritiqueResult is the methodology review, optionally including a title
// review when a title was supplied.
type CritiqueResult struct {
	ResearchQuestion string `json:"research_question"`
	Review           string `json:"review"`
	TitleReview      string `json:"title_review,omitempty"`
}

// ExportResult carries a rendered download.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

// AIClient is the slice of the chat-completions client the service uses.
type AIClient interface {
	Configured() bool
	Enhance(ctx context.Context, text string, maxWords int) (string, error)
	Summarize(ctx context.Context, text string, length ai.SummaryLength) (string, error)
	Critique(ctx context.Context, text string) (*ai.Critique, error)
	AnalyzeTitle(ctx context.Context, title, text string) (string, error)
}

// EditorService defines the editor's use cases.
type EditorService interface {
	CreateSession() *session.Session
	GetSession(id string) (*session.Session, error)

	// LoadDocument parses an uploaded file and makes it the session's
	// current document, discarding any previous document and derived results.
	LoadDocument(id, filename string, data []byte) (*session.Session, error)
	// UpdateText replaces the current document's text with an edited version.
	UpdateText(id, text string) (*session.Session, error)

	// Analyze computes readability, syntax, sentiment, keyword and count
	// metrics for the current document. Partial failures are recorded inside
	// the result rather than failing the whole call.
	Analyze(id string) (*model.AnalysisResult, error)

	WordCloud(id string) ([]byte, error)
	MetricsChart(id string) ([]byte, error)
	SectionChart(id string) ([]byte, error)

	// Export renders the session's text, with edits highlighted when an
	// enhanced version exists, in the requested format.
	Export(id, format string) (*ExportResult, error)

	SaveToCloud(ctx context.Context, id, blobName string) (*model.BlobReference, error)
	LoadFromCloud(ctx context.Context, id, blobName string) (*session.Session, error)
	ListBlobs(ctx context.Context) ([]model.BlobReference, error)
	DeleteBlob(ctx context.Context, name string) error
	// PresignBlob returns a time-limited download URL for a stored blob.
	PresignBlob(ctx context.Context, name string) (string, error)

	Enhance(ctx context.Context, id string, maxWords int) (*EnhanceResult, error)
	Summarize(ctx context.Context, id string, length string) (string, error)
	Critique(ctx context.Context, id, title string) (*CritiqueResult, error)
}

type editorService struct {
	sessions *session.Store
	analyzer *analysis.Analyzer
	store    storage.Storage
	aiClient AIClient
}

// NewEditorService constructs the service. store may be nil when no cloud
// backend is configured; cloud operations then fail with
// storage.ErrNotConfigured.
func NewEditorService(sessions *session.Store, analyzer *analysis.Analyzer, store storage.Storage, aiClient AIClient) EditorService {
	return &editorService{
		sessions: sessions,
		analyzer: analyzer,
		store:    store,
		aiClient: aiClient,
	}
}

func (s *editorService) CreateSession() *session.Session {
	return s.sessions.Create()
}

func (s *editorService) GetSession(id string) (*session.Session, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *editorService) LoadDocument(id, filename string, data []byte) (*session.Session, error) {
	if _, err := s.GetSession(id); err != nil {
		return nil, err
	}
	doc, err := fileio.Read(filename, data)
	if err != nil {
		return nil, err
	}
	if !s.sessions.SetDocument(id, doc) {
		return nil, ErrSessionNotFound
	}
	return s.GetSession(id)
}

func (s *editorService) UpdateText(id, text string) (*session.Session, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Document == nil {
		// Typing into an empty session starts a new untitled document.
		doc := &model.Document{
			Text:     text,
			Filename: "untitled.txt",
			Format:   "txt",
			Size:     int64(len(text)),
		}
		if !s.sessions.SetDocument(id, doc) {
			return nil, ErrSessionNotFound
		}
		return s.GetSession(id)
	}
	if !s.sessions.UpdateText(id, text) {
		return nil, ErrSessionNotFound
	}
	return s.GetSession(id)
}

func (s *editorService) Analyze(id string) (*model.AnalysisResult, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Document == nil {
		return nil, ErrNoDocument
	}

	res, err := s.analyzer.Analyze(sess.Document.Text)
	if err != nil {
		s.sessions.SetAnalysis(id, nil)
		return nil, err
	}
	s.sessions.SetAnalysis(id, res)
	return res, nil
}

// currentAnalysis returns the session's analysis, computing it first when the
// document has not been analyzed since its last edit.
func (s *editorService) currentAnalysis(id string) (*model.AnalysisResult, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Analysis != nil {
		return sess.Analysis, nil
	}
	return s.Analyze(id)
}

func (s *editorService) WordCloud(id string) ([]byte, error) {
	res, err := s.currentAnalysis(id)
	if err != nil {
		return nil, err
	}
	png, err := visualization.WordCloud(res.Keywords)
	if err != nil {
		return nil, err
	}
	s.sessions.SetState(id, session.StateVisualized)
	return png, nil
}

func (s *editorService) MetricsChart(id string) ([]byte, error) {
	res, err := s.currentAnalysis(id)
	if err != nil {
		return nil, err
	}
	png, err := visualization.ReadabilityChart(res.Readability)
	if err != nil {
		return nil, err
	}
	s.sessions.SetState(id, session.StateVisualized)
	return png, nil
}

func (s *editorService) SectionChart(id string) ([]byte, error) {
	res, err := s.currentAnalysis(id)
	if err != nil {
		return nil, err
	}
	png, err := visualization.SectionChart(res.Counts.Sections)
	if err != nil {
		return nil, err
	}
	s.sessions.SetState(id, session.StateVisualized)
	return png, nil
}

func (s *editorService) Export(id, format string) (*ExportResult, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Document == nil {
		return nil, ErrNoDocument
	}

	text := sess.Document.Text
	var changes []diff.Change
	if sess.EnhancedText != "" {
		text = sess.EnhancedText
		changes = diff.Compare(sess.Document.Text, sess.EnhancedText).Changes
	}

	data, contentType, err := fileio.Export(text, format, changes)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(sess.Document.Filename, "."+sess.Document.Format)
	if base == "" {
		base = "document"
	}
	return &ExportResult{
		Data:        data,
		ContentType: contentType,
		Filename:    fmt.Sprintf("%s_edited.%s", base, format),
	}, nil
}

func (s *editorService) SaveToCloud(ctx context.Context, id, blobName string) (*model.BlobReference, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Document == nil {
		return nil, ErrNoDocument
	}
	if s.store == nil {
		return nil, storage.ErrNotConfigured
	}

	if blobName == "" {
		blobName = sess.Document.Filename
	}
	text := sess.Document.Text
	if sess.EnhancedText != "" {
		text = sess.EnhancedText
	}

	info, err := s.store.Put(ctx, blobName, strings.NewReader(text), storage.PutObjectOptions{
		Size:        int64(len(text)),
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		s.sessions.SetState(id, session.StateSaveFailed)
		return nil, fmt.Errorf("save to cloud: %w", err)
	}

	s.sessions.SetState(id, session.StateSaved)
	return &model.BlobReference{
		Name:         info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

func (s *editorService) LoadFromCloud(ctx context.Context, id, blobName string) (*session.Session, error) {
	if _, err := s.GetSession(id); err != nil {
		return nil, err
	}
	if blobName == "" {
		return nil, ErrIDRequired
	}
	if s.store == nil {
		return nil, storage.ErrNotConfigured
	}

	rc, _, err := s.store.Get(ctx, blobName)
	if err != nil {
		return nil, fmt.Errorf("load from cloud: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}

	doc, err := fileio.Read(blobName, data)
	if err != nil {
		return nil, err
	}
	if !s.sessions.SetDocument(id, doc) {
		return nil, ErrSessionNotFound
	}
	return s.GetSession(id)
}

func (s *editorService) ListBlobs(ctx context.Context) ([]model.BlobReference, error) {
	if s.store == nil {
		return nil, storage.ErrNotConfigured
	}
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	refs := make([]model.BlobReference, 0, len(infos))
	for _, info := range infos {
		refs = append(refs, model.BlobReference{
			Name:         info.Key,
			Size:         info.Size,
			ContentType:  info.ContentType,
			LastModified: info.LastModified,
		})
	}
	return refs, nil
}

func (s *editorService) DeleteBlob(ctx context.Context, name string) error {
	if name == "" {
		return ErrIDRequired
	}
	if s.store == nil {
		return storage.ErrNotConfigured
	}
	return s.store.Delete(ctx, name)
}

// presignExpiry bounds how long a minted download link stays valid.
const presignExpiry = 15 * time.Minute

func (s *editorService) PresignBlob(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrIDRequired
	}
	if s.store == nil {
		return "", storage.ErrNotConfigured
	}
	u, err := s.store.PresignGet(ctx, name, presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign blob: %w", err)
	}
	return u, nil
}

func (s *editorService) Enhance(ctx context.Context, id string, maxWords int) (*EnhanceResult, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Document == nil {
		return nil, ErrNoDocument
	}

	main := analysis.StripReferences(sess.Document.Text)
	enhanced, err := s.aiClient.Enhance(ctx, main, maxWords)
	if err != nil {
		return nil, err
	}

	s.sessions.SetEnhancedText(id, enhanced)
	return &EnhanceResult{
		EnhancedText: enhanced,
		Diff:         diff.Compare(sess.Document.Text, enhanced),
	}, nil
}

func (s *editorService) Summarize(ctx context.Context, id string, length string) (string, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return "", err
	}
	if sess.Document == nil {
		return "", ErrNoDocument
	}

	main := analysis.StripReferences(sess.Document.Text)
	return s.aiClient.Summarize(ctx, main, ai.SummaryLength(length))
}

func (s *editorService) Critique(ctx context.Context, id, title string) (*CritiqueResult, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Document == nil {
		return nil, ErrNoDocument
	}

	critique, err := s.aiClient.Critique(ctx, sess.Document.Text)
	if err != nil {
		return nil, err
	}

	res := &CritiqueResult{
		ResearchQuestion: critique.ResearchQuestion,
		Review:           critique.Review,
	}
	if title != "" {
		titleReview, err := s.aiClient.AnalyzeTitle(ctx, title, sess.Document.Text)
		if err != nil {
			return nil, err
		}
		res.TitleReview = titleReview
	}
	return res, nil
}
