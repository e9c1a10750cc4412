package minio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/DiagBench/internal/testutil"
	apperrors "github.com/turtacn/DiagBench/pkg/errors"
)

type MockMinIOAPI struct {
	mock.Mock
}

func (m *MockMinIOAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinIOAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *MockMinIOAPI) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	body, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucket, object, string(body), size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockMinIOAPI) StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, object, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

type ArtifactsTestSuite struct {
	suite.Suite
	api    *MockMinIOAPI
	client *MinIOClient
	log    *testutil.MockLogger
}

func (s *ArtifactsTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	s.log = testutil.NewMockLogger()
	s.client = NewMinIOClientWithAPI(s.api, MinIOConfig{Bucket: "artifacts", Prefix: "/nightly/"}, s.log)
	s.client.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 5, 0, time.UTC) }
}

func (s *ArtifactsTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func (s *ArtifactsTestSuite) TestObjectKey() {
	s.Equal("nightly/reports/20260301T123005Z-report.json", s.client.ObjectKey(KindReport, "/tmp/out/report.json"))
}

func (s *ArtifactsTestSuite) TestContentTypeFor() {
	s.Equal("application/x-ndjson", ContentTypeFor("a.JSONL"))
	s.Equal("application/json", ContentTypeFor("a.json"))
	s.Equal("application/yaml", ContentTypeFor("cases.yml"))
	s.Equal("application/octet-stream", ContentTypeFor("a.bin"))
}

func (s *ArtifactsTestSuite) TestEnsureBucket_Creates() {
	s.api.On("BucketExists", mock.Anything, "artifacts").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, "artifacts", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

	s.NoError(s.client.EnsureBucket(context.Background()))
	s.True(s.log.HasMessage("info", "bucket created"))
}

func (s *ArtifactsTestSuite) TestEnsureBucket_Exists() {
	s.api.On("BucketExists", mock.Anything, "artifacts").Return(true, nil)
	s.NoError(s.client.EnsureBucket(context.Background()))
}

func (s *ArtifactsTestSuite) TestEnsureBucket_Error() {
	s.api.On("BucketExists", mock.Anything, "artifacts").Return(false, errors.New("denied"))
	err := s.client.EnsureBucket(context.Background())
	s.True(apperrors.IsCode(err, apperrors.ErrCodeStorageError))
}

func (s *ArtifactsTestSuite) TestUploadFile() {
	path := filepath.Join(s.T().TempDir(), "test_set.jsonl")
	body := `{"query":"q","gt":"I21"}` + "\n"
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o644))

	key := "nightly/test-sets/20260301T123005Z-test_set.jsonl"
	s.api.On("PutObject", mock.Anything, "artifacts", key, body, int64(len(body)),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.ContentType == "application/x-ndjson" && o.UserMetadata["cases"] == "1"
		})).Return(minio.UploadInfo{ETag: "e1", Size: int64(len(body))}, nil)

	res, err := s.client.UploadFile(context.Background(), KindTestSet, path, map[string]string{"cases": "1"})
	s.Require().NoError(err)
	s.Equal("artifacts", res.Bucket)
	s.Equal(key, res.ObjectKey)
	s.Equal("e1", res.ETag)
	s.True(s.log.HasMessage("info", "artifact uploaded"))
}

func (s *ArtifactsTestSuite) TestUploadFile_Missing() {
	_, err := s.client.UploadFile(context.Background(), KindTestSet, filepath.Join(s.T().TempDir(), "nope"), nil)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeFatalIO))
}

func (s *ArtifactsTestSuite) TestUploadBytes_Error() {
	s.api.On("PutObject", mock.Anything, "artifacts", mock.Anything, "{}", int64(2), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("quota"))

	_, err := s.client.UploadBytes(context.Background(), KindReport, "report.json", []byte("{}"), nil)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeStorageError))
}

func (s *ArtifactsTestSuite) TestExists() {
	s.api.On("StatObject", mock.Anything, "artifacts", "a", mock.Anything).Return(minio.ObjectInfo{Key: "a"}, nil)
	s.api.On("StatObject", mock.Anything, "artifacts", "b", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
	s.api.On("StatObject", mock.Anything, "artifacts", "c", mock.Anything).
		Return(minio.ObjectInfo{}, errors.New("timeout"))

	ok, err := s.client.Exists(context.Background(), "a")
	s.NoError(err)
	s.True(ok)

	ok, err = s.client.Exists(context.Background(), "b")
	s.NoError(err)
	s.False(ok)

	_, err = s.client.Exists(context.Background(), "c")
	s.Error(err)
}

func TestArtifactsSuite(t *testing.T) {
	suite.Run(t, new(ArtifactsTestSuite))
}

//Personal.AI order the ending
