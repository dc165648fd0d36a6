package blobstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves path-style PUT and GET object requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = b
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		b, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Write(b)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3Store(context.Background(), S3Options{
		AccessKey: "admin",
		SecretKey: "secret",
		Bucket:    "files",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)
	return s, fake
}

func TestS3Store_PutGet(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3Store(t)

	require.NoError(t, s.Put(ctx, "files/2025/1/1/abc", []byte("payload")))

	fake.mu.Lock()
	_, ok := fake.objects["/files/files/2025/1/1/abc"]
	fake.mu.Unlock()
	assert.True(t, ok, "object not stored under path-style key")

	got, err := s.Get(ctx, "files/2025/1/1/abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestS3Store_GetMissing(t *testing.T) {
	s, _ := newTestS3Store(t)

	_, err := s.Get(context.Background(), "files/none")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	defer func() { loadDefaultAWSConfig = orig }()

	_, err := NewS3Store(context.Background(), S3Options{Region: "us-east-1"})
	assert.ErrorContains(t, err, "aws config error: no config")
}

func TestNewS3Store_PassesEndpoint(t *testing.T) {
	orig := newS3ClientFromConfig
	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	defer func() { newS3ClientFromConfig = orig }()

	_, err := NewS3Store(context.Background(), S3Options{Region: "us-east-1", Endpoint: "http://minio:9000"})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://minio:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}
