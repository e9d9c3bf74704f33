package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docedit/internal/config"
)

type fakeObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// fakeS3 is a minimal path-style S3 endpoint: enough of the protocol for the
// MinIO client to check the bucket, upload, stat, download and presign.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]fakeObject
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{bucket: bucket, objects: map[string]fakeObject{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.URL.Query()["location"]; ok {
		w.Header().Set("Content-Type", "application/xml")
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/"+f.bucket)
	key := strings.TrimPrefix(path, "/")

	if key == "" {
		// Bucket-level request, HEAD for existence checks.
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING") {
			body = decodeAWSChunked(body)
		}
		f.mu.Lock()
		f.objects[key] = fakeObject{
			data:        body,
			contentType: r.Header.Get("Content-Type"),
			modified:    time.Now().UTC(),
		}
		f.mu.Unlock()
		w.Header().Set("ETag", `"`+hex.EncodeToString([]byte{byte(len(body))})+`"`)
		w.WriteHeader(http.StatusOK)

	case http.MethodGet, http.MethodHead:
		f.mu.Lock()
		obj, ok := f.objects[key]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("ETag", `"fake-etag"`)
		http.ServeContent(w, r, key, obj.modified, bytes.NewReader(obj.data))

	case http.MethodDelete:
		f.mu.Lock()
		delete(f.objects, key)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

// decodeAWSChunked strips aws-chunked framing: hex length lines, chunk data,
// then trailing checksums after the zero-length chunk.
func decodeAWSChunked(body []byte) []byte {
	var out bytes.Buffer
	rd := bufio.NewReader(bytes.NewReader(body))
	for {
		line, err := rd.ReadString('\n')
		if err != nil {
			break
		}
		sizeField := strings.TrimSpace(line)
		if i := strings.IndexByte(sizeField, ';'); i >= 0 {
			sizeField = sizeField[:i]
		}
		size := int64(0)
		for _, c := range sizeField {
			size = size * 16
			switch {
			case c >= '0' && c <= '9':
				size += int64(c - '0')
			case c >= 'a' && c <= 'f':
				size += int64(c-'a') + 10
			case c >= 'A' && c <= 'F':
				size += int64(c-'A') + 10
			}
		}
		if size == 0 {
			break
		}
		if _, err := io.CopyN(&out, rd, size); err != nil {
			break
		}
		rd.Discard(2) // trailing CRLF
	}
	return out.Bytes()
}

func newTestMinIO(t *testing.T) (Storage, *fakeS3) {
	t.Helper()
	fake := newFakeS3("documents")
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewMinIO(config.MinIOConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "documents",
	}, 5*time.Second)
	require.NoError(t, err)
	return store, fake
}

func TestMinIORoundTrip(t *testing.T) {
	store, _ := newTestMinIO(t)

	payload := bytes.Repeat([]byte("saved manuscript body. "), 100000)
	_, err := store.Put(context.Background(), "paper.txt", bytes.NewReader(payload), PutObjectOptions{
		Size:        int64(len(payload)),
		ContentType: "text/plain; charset=utf-8",
	})
	require.NoError(t, err)

	rc, info, err := store.Get(context.Background(), "paper.txt")
	require.NoError(t, err)
	defer rc.Close()

	// Reads must still succeed after Get has returned and released its
	// per-call timeout.
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), info.Size)
	assert.Equal(t, "paper.txt", info.Key)
}

func TestMinIOGetMissing(t *testing.T) {
	store, _ := newTestMinIO(t)

	_, _, err := store.Get(context.Background(), "gone.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMinIODelete(t *testing.T) {
	store, fake := newTestMinIO(t)

	_, err := store.Put(context.Background(), "old.txt", strings.NewReader("x"), PutObjectOptions{Size: 1})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "old.txt"))

	fake.mu.Lock()
	_, ok := fake.objects["old.txt"]
	fake.mu.Unlock()
	assert.False(t, ok)
}

func TestMinIOPresignGet(t *testing.T) {
	store, _ := newTestMinIO(t)

	u, err := store.PresignGet(context.Background(), "paper.txt", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "/documents/paper.txt")
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=60")
}

func TestNewMinIORequiresConfig(t *testing.T) {
	_, err := NewMinIO(config.MinIOConfig{}, time.Second)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewMinIO(config.MinIOConfig{Endpoint: "localhost:9000"}, time.Second)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewMinIO(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, time.Second)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
