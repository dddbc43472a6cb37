package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorageDisabled is returned when no image backend is configured.
var ErrStorageDisabled = errors.New("image storage is not configured")

// Image kinds accepted by the admin upload endpoint.
const (
	KindLogo  = "logo"
	KindBoard = "board"
)

// UploadResult identifies a stored image.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// StorageService defines the interface for storage operations.
type StorageService interface {
	// UploadImage stores file (a local path or an io.Reader) under folder.
	UploadImage(ctx context.Context, file interface{}, folder string) (*UploadResult, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// Folder returns the destination folder for a school's image kind.
func Folder(schoolID, kind string) (string, error) {
	switch kind {
	case KindLogo, KindBoard:
		return fmt.Sprintf("schools/%s/%s", schoolID, kind), nil
	default:
		return "", fmt.Errorf("unknown image kind %q", kind)
	}
}

// DisabledStorage rejects every call with ErrStorageDisabled.
type DisabledStorage struct{}

func (DisabledStorage) UploadImage(context.Context, interface{}, string) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}

func (DisabledStorage) DeleteFile(context.Context, string) error {
	return ErrStorageDisabled
}
