package export_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailbuilder/pkg/export"
)

type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *mockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func newS3(t *testing.T, client export.S3Client, cfg export.S3Config) *export.S3Storage {
	t.Helper()
	if cfg.Bucket == "" {
		cfg.Bucket = "mail"
	}
	if cfg.Region == "" {
		cfg.Region = "eu-west-1"
	}
	storage, err := export.NewS3Storage(context.Background(), cfg, export.WithS3Client(client))
	require.NoError(t, err)
	return storage
}

func TestNewS3Storage(t *testing.T) {
	t.Parallel()

	_, err := export.NewS3Storage(context.Background(), export.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, export.ErrInvalidConfig)

	client := &mockS3Client{}
	assert.Equal(t, "https://mail.s3.eu-west-1.amazonaws.com/a.html", newS3(t, client, export.S3Config{}).URL("a.html"))
	assert.Equal(t, "http://localhost:9000/mail/a.html", newS3(t, client, export.S3Config{Endpoint: "http://localhost:9000/"}).URL("a.html"))
	assert.Equal(t, "https://cdn.example.com/exports/a.html", newS3(t, client, export.S3Config{BaseURL: "https://cdn.example.com", Prefix: "/exports/"}).URL("/a.html"))
	assert.Empty(t, newS3(t, client, export.S3Config{}).URL("../a.html"))
}

func TestS3Storage_Put(t *testing.T) {
	t.Parallel()

	var body []byte
	client := &mockS3Client{}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "mail" &&
			*in.Key == "exports/tpl/a.html" &&
			*in.ContentType == export.ContentTypeHTML &&
			*in.ContentLength == 9
	})).Run(func(args mock.Arguments) {
		body, _ = io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	storage := newS3(t, client, export.S3Config{Prefix: "exports"})
	f, err := storage.Put(context.Background(), "tpl/a.html", []byte("<p>hi</p>"), export.ContentTypeHTML)
	require.NoError(t, err)
	assert.Equal(t, export.File{
		Path:        "exports/tpl/a.html",
		URL:         "https://mail.s3.eu-west-1.amazonaws.com/exports/tpl/a.html",
		Size:        9,
		ContentType: export.ContentTypeHTML,
	}, f)
	assert.Equal(t, "<p>hi</p>", string(body))
	client.AssertExpectations(t)

	_, err = storage.Put(context.Background(), "../a.html", nil, export.ContentTypeHTML)
	assert.ErrorIs(t, err, export.ErrInvalidPath)
}

func TestS3Storage_Get(t *testing.T) {
	t.Parallel()

	client := &mockS3Client{}
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Key == "a.json"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(`{"name":"x"}`))}, nil).Once()
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Key == "missing.json"
	})).Return(nil, &types.NoSuchKey{}).Once()

	storage := newS3(t, client, export.S3Config{})
	data, err := storage.Get(context.Background(), "a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(data))

	_, err = storage.Get(context.Background(), "missing.json")
	assert.ErrorIs(t, err, export.ErrFileNotFound)
	client.AssertExpectations(t)
}

func TestS3Storage_Delete(t *testing.T) {
	t.Parallel()

	t.Run("existing object", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{}, nil).Once()
		client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
			return *in.Key == "a.html"
		})).Return(&s3.DeleteObjectOutput{}, nil).Once()

		require.NoError(t, newS3(t, client, export.S3Config{}).Delete(context.Background(), "a.html"))
		client.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		client := &mockS3Client{}
		client.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NotFound{}).Once()

		err := newS3(t, client, export.S3Config{}).Delete(context.Background(), "a.html")
		assert.ErrorIs(t, err, export.ErrFileNotFound)
		client.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	})
}

func TestS3Storage_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, export.ErrAccessDenied},
		{"throttled", &smithy.GenericAPIError{Code: "SlowDown"}, export.ErrServiceUnavailable},
		{"request timeout", &smithy.GenericAPIError{Code: "RequestTimeout"}, export.ErrOperationTimeout},
		{"no bucket", &types.NoSuchBucket{}, export.ErrBucketNotFound},
		{"deadline", context.DeadlineExceeded, export.ErrOperationTimeout},
		{"canceled", context.Canceled, export.ErrOperationCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &mockS3Client{}
			client.On("PutObject", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			_, err := newS3(t, client, export.S3Config{}).Put(context.Background(), "a.html", []byte("x"), export.ContentTypeHTML)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	client := &mockS3Client{}
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "InvalidArgument", Message: "bad"}).Once()
	_, err := newS3(t, client, export.S3Config{}).Put(context.Background(), "a.html", []byte("x"), export.ContentTypeHTML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code: InvalidArgument")
}
