package mocks

import (
	"context"

	"docedit/internal/model"
	"docedit/internal/service"
	"docedit/internal/session"

	"github.com/stretchr/testify/mock"
)

type MockEditorService struct {
	mock.Mock
}

func (m *MockEditorService) CreateSession() *session.Session {
	args := m.Called()
	return args.Get(0).(*session.Session)
}

func (m *MockEditorService) GetSession(id string) (*session.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockEditorService) LoadDocument(id, filename string, data []byte) (*session.Session, error) {
	args := m.Called(id, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockEditorService) UpdateText(id, text string) (*session.Session, error) {
	args := m.Called(id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockEditorService) Analyze(id string) (*model.AnalysisResult, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockEditorService) WordCloud(id string) ([]byte, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockEditorService) MetricsChart(id string) ([]byte, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockEditorService) SectionChart(id string) ([]byte, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockEditorService) Export(id, format string) (*service.ExportResult, error) {
	args := m.Called(id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockEditorService) SaveToCloud(ctx context.Context, id, blobName string) (*model.BlobReference, error) {
	args := m.Called(ctx, id, blobName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BlobReference), args.Error(1)
}

func (m *MockEditorService) LoadFromCloud(ctx context.Context, id, blobName string) (*session.Session, error) {
	args := m.Called(ctx, id, blobName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockEditorService) ListBlobs(ctx context.Context) ([]model.BlobReference, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BlobReference), args.Error(1)
}

func (m *MockEditorService) DeleteBlob(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockEditorService) PresignBlob(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockEditorService) Enhance(ctx context.Context, id string, maxWords int) (*service.EnhanceResult, error) {
	args := m.Called(ctx, id, maxWords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EnhanceResult), args.Error(1)
}

func (m *MockEditorService) Summarize(ctx context.Context, id string, length string) (string, error) {
	args := m.Called(ctx, id, length)
	return args.String(0), args.Error(1)
}

func (m *MockEditorService) Critique(ctx context.Context, id, title string) (*service.CritiqueResult, error) {
	args := m.Called(ctx, id, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CritiqueResult), args.Error(1)
}
