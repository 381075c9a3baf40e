package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"sort"

	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	// ThumbnailWidth is the bounding width of gallery cell thumbnails.
	ThumbnailWidth = 240
	// ThumbnailHeight is the bounding height of gallery cell thumbnails.
	ThumbnailHeight = 180
)

var exifFields = []exif.FieldName{
	exif.DateTime, exif.Model, exif.Make, exif.ExposureTime, exif.FNumber, exif.ISOSpeedRatings, exif.FocalLength,
}

// ImageInfo holds metadata about a downloaded image.
type ImageInfo struct {
	Width    int
	Height   int
	Size     int64
	Format   string
	EXIFData map[string]string
}

// EXIFKeys returns the EXIF field names in a stable order.
func (i *ImageInfo) EXIFKeys() []string {
	keys := make([]string, 0, len(i.EXIFData))
	for k := range i.EXIFData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ImageService decodes assets fetched from the server.
type ImageService struct {
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// GetEXIF extracts a few common EXIF fields. Images without EXIF yield an
// empty map.
func (is *ImageService) GetEXIF(r io.Reader) map[string]string {
	result := make(map[string]string)
	x, err := exif.Decode(r)
	if err != nil {
		return result
	}
	for _, field := range exifFields {
		tag, err := x.Get(field)
		if err == nil && tag != nil {
			result[string(field)] = tag.String()
		}
	}
	return result
}

// Decode returns the metadata and decoded bitmap of an asset.
func (is *ImageService) Decode(data []byte) (*ImageInfo, image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	return &ImageInfo{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     int64(len(data)),
		Format:   format,
		EXIFData: is.GetEXIF(bytes.NewReader(data)),
	}, img, nil
}

// Thumbnail scales img down to fit within width x height, keeping its aspect ratio.
func (is *ImageService) Thumbnail(img image.Image, width, height uint) image.Image {
	return resize.Thumbnail(width, height, img, resize.Lanczos3)
}

// ThumbnailPNG decodes an asset and returns a PNG-encoded thumbnail of it.
func (is *ImageService) ThumbnailPNG(data []byte, width, height uint) ([]byte, error) {
	_, img, err := is.Decode(data)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, is.Thumbnail(img, width, height)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
