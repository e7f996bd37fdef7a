package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"algoarena/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadResult describes an object stored in the media store.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int64  `json:"size"`
}

// Client is the Cloudinary-backed media store client.
type Client struct {
	cld        *cloudinary.Cloudinary
	baseFolder string
}

// NewClient creates a media store client from configuration.
func NewClient(cfg config.MediaConfig) (*Client, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media store client: %w", err)
	}
	return &Client{cld: cld, baseFolder: cfg.BaseFolder}, nil
}

// Upload stores an image in the media store under baseFolder/folder.
// The object is durably stored remotely before Upload returns.
func (c *Client) Upload(ctx context.Context, data []byte, folder string) (*UploadResult, error) {
	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       path.Join(c.baseFolder, folder),
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	return &UploadResult{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Format:   resp.Format,
		Width:    resp.Width,
		Height:   resp.Height,
		Bytes:    int64(resp.Bytes),
	}, nil
}

// Delete removes an object from the media store by its public ID.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image %q: %w", publicID, err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("failed to delete image %q: %s", publicID, resp.Result)
	}
	return nil
}

// Delivery URLs carry the public ID after a version marker
// (".../upload/v123/folder/file.jpg") or, for unversioned URLs, directly
// after the upload marker.
var (
	versionedIDPattern = regexp.MustCompile(`/v\d+/(.+?)\.[^.]+$`)
	uploadIDPattern    = regexp.MustCompile(`/upload/(.+?)\.[^.]+$`)
)

// PublicIDFromURL derives the media store public ID from a delivery URL.
// It returns "" when the URL does not belong to the media store or does
// not match either pattern; callers treat that as a no-op rather than an
// error, because not every stored URL is guaranteed to be a media-store
// URL.
func PublicIDFromURL(url string) string {
	if url == "" || !strings.Contains(url, "cloudinary") {
		return ""
	}
	if m := versionedIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := uploadIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}
