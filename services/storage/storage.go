package storage

import (
	"context"
	"fmt"

	"chronoboard/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryStorageService implements StorageService on Cloudinary.
type CloudinaryStorageService struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorageService builds the Cloudinary client from credentials.
// Missing credentials yield DisabledStorage.
func NewCloudinaryStorageService(cloudName, apiKey, apiSecret string) (StorageService, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		utils.GetLogger().Warn("Cloudinary credentials not set, image uploads disabled")
		return DisabledStorage{}, nil
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	utils.GetLogger().Info("Cloudinary storage ready", zap.String("cloudName", cloudName))
	return &CloudinaryStorageService{cld: cld}, nil
}

func (s *CloudinaryStorageService) UploadImage(ctx context.Context, file interface{}, folder string) (*UploadResult, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("CloudinaryStorageService: failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("CloudinaryStorageService: upload rejected: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("CloudinaryStorageService: no public ID returned")
	}
	return &UploadResult{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (s *CloudinaryStorageService) DeleteFile(ctx context.Context, publicID string) error {
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: "image"})
	if err != nil {
		return fmt.Errorf("CloudinaryStorageService: failed to delete file: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("CloudinaryStorageService: delete rejected: %s", result.Error.Message)
	}
	return nil
}
