package services

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageUploader tải ảnh lên và trả về URL công khai
type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (string, error)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, folder: folder}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder string) (string, error) {
	if folder == "" {
		folder = u.folder
	} else if u.folder != "" {
		folder = u.folder + "/" + folder
	}
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}
