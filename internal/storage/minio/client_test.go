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

// fakeObjectAPI implements objectAPI for testing without network.
type fakeObjectAPI struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error

	putErr error

	getRC  io.ReadCloser
	getErr error

	removeErr error

	statErr error
}

func (f *fakeObjectAPI) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeObjectAPI) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	return f.makeBucketErr
}

func (f *fakeObjectAPI) PutObject(_ context.Context, _ string, _ string, _ io.Reader, _ int64, _ minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	return minioLib.UploadInfo{}, f.putErr
}

func (f *fakeObjectAPI) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}

func (f *fakeObjectAPI) RemoveObject(_ context.Context, _ string, _ string, _ minioLib.RemoveObjectOptions) error {
	return f.removeErr
}

func (f *fakeObjectAPI) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{}, f.statErr
}

func TestNewStore_BucketHandling(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		s, err := newStoreWithAPI(ctx, &fakeObjectAPI{bucketExists: true}, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", s.bucket)
	})

	t.Run("bucket created", func(t *testing.T) {
		s, err := newStoreWithAPI(ctx, &fakeObjectAPI{bucketExists: false}, "b")
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("existence check fails", func(t *testing.T) {
		_, err := newStoreWithAPI(ctx, &fakeObjectAPI{bucketExistsErr: errors.New("boom")}, "b")
		assert.Error(t, err)
	})

	t.Run("creation fails", func(t *testing.T) {
		_, err := newStoreWithAPI(ctx, &fakeObjectAPI{makeBucketErr: errors.New("fail")}, "b")
		assert.Error(t, err)
	})
}

func TestStore_Put(t *testing.T) {
	ctx := context.Background()

	s := &Store{api: &fakeObjectAPI{}, bucket: "b"}
	assert.NoError(t, s.Put(ctx, "dicoms/1", bytes.NewReader([]byte("data")), 4))

	s = &Store{api: &fakeObjectAPI{putErr: errors.New("put-fail")}, bucket: "b"}
	assert.Error(t, s.Put(ctx, "dicoms/1", bytes.NewReader([]byte("data")), 4))
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	s := &Store{api: &fakeObjectAPI{getRC: io.NopCloser(bytes.NewReader([]byte("abc")))}, bucket: "b"}
	rc, err := s.Get(ctx, "dicoms/1")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()

	s := &Store{api: &fakeObjectAPI{}, bucket: "b"}
	assert.NoError(t, s.Delete(ctx, "dicoms/1"))

	s = &Store{api: &fakeObjectAPI{removeErr: errors.New("denied")}, bucket: "b"}
	assert.Error(t, s.Delete(ctx, "dicoms/1"))
}

func TestStore_Exists(t *testing.T) {
	ctx := context.Background()

	s := &Store{api: &fakeObjectAPI{}, bucket: "b"}
	exists, err := s.Exists(ctx, "dicoms/1")
	require.NoError(t, err)
	assert.True(t, exists)

	s = &Store{api: &fakeObjectAPI{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}, bucket: "b"}
	exists, err = s.Exists(ctx, "dicoms/1")
	require.NoError(t, err)
	assert.False(t, exists)

	s = &Store{api: &fakeObjectAPI{statErr: errors.New("network")}, bucket: "b"}
	_, err = s.Exists(ctx, "dicoms/1")
	assert.Error(t, err)
}
