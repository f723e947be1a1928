package imagehost

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MaxImageSize is the largest accepted upload, 32 MB.
const MaxImageSize = 32 << 20

var (
	ErrImageTooLarge        = errors.New("Image must be less than 32 MB.")
	ErrUnsupportedType      = errors.New("Only JPG, JPEG, PNG images are supported.")
	ErrMissingCloudinaryURL = errors.New("CLOUDINARY_URL is not configured")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// ValidateImage checks size and MIME type before any network call is
// made. A nil header (no image chosen) is valid.
func ValidateImage(header *multipart.FileHeader) error {
	if header == nil {
		return nil
	}
	if header.Size > MaxImageSize {
		return ErrImageTooLarge
	}
	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		return ErrUnsupportedType
	}
	return nil
}

// Uploader pushes validated images to Cloudinary and hands back their
// public URLs.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

// NewUploader builds a client from the configured cloudinary:// URL,
// falling back to the CLOUDINARY_URL environment variable.
func NewUploader(url string) (*Uploader, error) {
	if url == "" {
		url = os.Getenv("CLOUDINARY_URL")
	}
	if url == "" {
		return nil, ErrMissingCloudinaryURL
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &Uploader{cld: cld}, nil
}

func (u *Uploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		Transformation: "c_limit,w_800,h_800,q_auto",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
