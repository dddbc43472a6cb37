package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolder(t *testing.T) {
	f, err := Folder("school-1", KindLogo)
	require.NoError(t, err)
	assert.Equal(t, "schools/school-1/logo", f)

	f, err = Folder("school-1", KindBoard)
	require.NoError(t, err)
	assert.Equal(t, "schools/school-1/board", f)

	_, err = Folder("school-1", "avatar")
	assert.Error(t, err)
}

func TestMissingCredentialsDisableStorage(t *testing.T) {
	svc, err := NewCloudinaryStorageService("", "key", "secret")
	require.NoError(t, err)
	_, err = svc.UploadImage(context.Background(), "logo.png", "schools/a/logo")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, svc.DeleteFile(context.Background(), "x"), ErrStorageDisabled)
}

func TestCloudinaryServiceConstructs(t *testing.T) {
	svc, err := NewCloudinaryStorageService("demo", "key", "secret")
	require.NoError(t, err)
	assert.IsType(t, &CloudinaryStorageService{}, svc)
}
