package blob

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	sc "github.com/dmitrijs2005/daybook/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *sc.Config {
	return &sc.Config{
		S3Region:                "us-east-1",
		S3RootUser:              "minioadmin",
		S3RootPassword:          "minioadmin",
		S3BaseEndpoint:          "http://127.0.0.1:9000",
		S3Bucket:                "daybook",
		PublicBaseURL:           "https://journal.example/",
		PresignValidityDuration: 5 * time.Minute,
	}
}

func newStore(t *testing.T) *S3Store {
	t.Helper()
	s, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)
	return s
}

// Presigning is computed locally, so no server is needed.
func TestPresign(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	put, err := s.PresignPut(ctx, "u1/2024-01-15.jpg", "image/jpeg")
	require.NoError(t, err)
	u, err := url.Parse(put)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/daybook/u1/2024-01-15.jpg", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))

	get, err := s.PresignGet(ctx, "u1/2024-01-15_thumb.jpg")
	require.NoError(t, err)
	assert.Contains(t, get, "/daybook/u1/2024-01-15_thumb.jpg?")
}

func TestPresign_Errors(t *testing.T) {
	s := newStore(t)

	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() { presignPutObject, presignGetObject = origPut, origGet })

	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("put boom")
	}
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("get boom")
	}

	_, err := s.PresignPut(context.Background(), "k", "image/jpeg")
	require.ErrorContains(t, err, "put boom")
	_, err = s.PresignGet(context.Background(), "k")
	require.ErrorContains(t, err, "get boom")
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err := NewS3Store(context.Background(), testConfig())
	require.ErrorContains(t, err, "no config")
}

func TestDelete(t *testing.T) {
	s := newStore(t)

	orig := deleteObjects
	t.Cleanup(func() { deleteObjects = orig })

	var got []string
	deleteObjects = func(_ *s3.Client, _ context.Context, in *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
		assert.Equal(t, "daybook", aws.ToString(in.Bucket))
		for _, o := range in.Delete.Objects {
			got = append(got, aws.ToString(o.Key))
		}
		return &s3.DeleteObjectsOutput{Deleted: []types.DeletedObject{{Key: in.Delete.Objects[0].Key}}}, nil
	}

	n, err := s.Delete(context.Background(), []string{"u1/a.jpg", "u1/a_thumb.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"u1/a.jpg", "u1/a_thumb.jpg"}, got)

	n, err = s.Delete(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	deleteObjects = func(*s3.Client, context.Context, *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
		return nil, errors.New("unreachable")
	}
	_, err = s.Delete(context.Background(), []string{"x"})
	require.ErrorContains(t, err, "unreachable")
}

func TestPublicURL(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, "https://journal.example/media/u1/2024-01-15.jpg", s.PublicURL("u1/2024-01-15.jpg"))
}
