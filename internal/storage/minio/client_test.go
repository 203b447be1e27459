package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	putInfo minioLib.UploadInfo
	putErr  error
	putKey  string

	removeErr  error
	removedKey string
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, _ io.Reader, _ int64, _ minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putKey = key
	return f.putInfo, f.putErr
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, key string, _ minioLib.RemoveObjectOptions) error {
	f.removedKey = key
	return f.removeErr
}
func (f *fakeMinio) EndpointURL() string {
	return "http://localhost:9000"
}

func newTestClient(t *testing.T, api *fakeMinio) *Client {
	t.Helper()
	c, err := NewClientWithAPI(context.Background(), api, "media")
	require.NoError(t, err)
	return c
}

func TestNewClientWithAPI_CreatesMissingBucket(t *testing.T) {
	api := &fakeMinio{bucketExists: false}
	_ = newTestClient(t, api)
	assert.True(t, api.madeBucket)
}

func TestNewClientWithAPI_BucketCheckError(t *testing.T) {
	api := &fakeMinio{bucketExistsErr: errors.New("network down")}
	c, err := NewClientWithAPI(context.Background(), api, "media")
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestClient_Upload(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	c := newTestClient(t, api)

	url, err := c.Upload(context.Background(), "avatars/u1.png", "image/png", bytes.NewReader([]byte("png")), 3)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media/avatars/u1.png", url)
	assert.Equal(t, "avatars/u1.png", api.putKey)
}

func TestClient_Upload_Error(t *testing.T) {
	api := &fakeMinio{bucketExists: true, putErr: errors.New("quota exceeded")}
	c := newTestClient(t, api)

	url, err := c.Upload(context.Background(), "k", "image/png", bytes.NewReader(nil), 0)
	assert.Error(t, err)
	assert.Empty(t, url)
}

func TestClient_Delete(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	c := newTestClient(t, api)

	require.NoError(t, c.Delete(context.Background(), "old-key"))
	assert.Equal(t, "old-key", api.removedKey)
}

func TestClient_Delete_Error(t *testing.T) {
	api := &fakeMinio{bucketExists: true, removeErr: errors.New("access denied")}
	c := newTestClient(t, api)

	assert.Error(t, c.Delete(context.Background(), "k"))
}
