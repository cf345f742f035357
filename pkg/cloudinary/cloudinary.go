package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client uploads patient avatars with delivery optimizations applied.
type Client interface {
	UploadAvatar(ctx context.Context, file io.Reader, publicID string) (url string, err error)
}

const (
	avatarFolder = "avatars"
	avatarEager  = "q_auto,f_auto,w_400,c_fill"
	AvatarWidth  = 400
)

var eagerAsyncFalse = false

// BuildAvatarURL returns a Cloudinary delivery URL with the avatar
// transformations for an existing public id.
func BuildAvatarURL(cloudName, publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill/%s",
		cloudName, AvatarWidth, publicID)
}

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

// UploadAvatar uploads the image with eager optimization (auto quality and
// format, square crop) and returns the optimized URL.
func (c *clientImpl) UploadAvatar(ctx context.Context, file io.Reader, publicID string) (string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     avatarFolder,
		PublicID:   publicID,
		Eager:      avatarEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	if len(result.Eager) > 0 {
		return result.Eager[0].SecureURL, nil
	}
	return BuildAvatarURL(c.cloudName, result.PublicID), nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}
