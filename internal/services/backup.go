package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// BackupFolder is the Cloudinary folder export archives are uploaded into
const BackupFolder = "journal-backups"

// BackupService uploads export archives to Cloudinary as raw files.
type BackupService struct {
	cld      *cloudinary.Cloudinary
	exporter *Exporter
	now      func() time.Time
}

func NewBackupService(cloudName, apiKey, apiSecret string, exporter *Exporter) (*BackupService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &BackupService{cld: cld, exporter: exporter, now: time.Now}, nil
}

// Backup builds the owner's archive and uploads it, returning the secure URL.
func (s *BackupService) Backup(ctx context.Context, owner models.Identity) (string, error) {
	archive, err := s.exporter.Archive(ctx, owner)
	if err != nil {
		return "", err
	}

	publicID := fmt.Sprintf("%s-%s.zip", owner.UserID, s.now().UTC().Format("20060102T150405Z"))
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(archive), uploader.UploadParams{
		Folder:       BackupFolder,
		PublicID:     publicID,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload to Cloudinary: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}
