package device

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxPhotoSide bounds the longest side of a stored photo, in pixels.
	MaxPhotoSide = 1600
	// PhotoQuality is the JPEG quality of stored photos.
	PhotoQuality = 82
)

var ErrNotImage = errors.New("file is not a supported image")

// PhotoDataURL decodes a JPEG, PNG, GIF or WebP image, shrinks it so the
// longest side is at most MaxPhotoSide and returns it as a JPEG data URL.
func PhotoDataURL(r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, downscale(src, MaxPhotoSide), &jpeg.Options{Quality: PhotoQuality}); err != nil {
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func downscale(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= maxSide {
		return src
	}
	scale := float64(maxSide) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0,
		max(1, int(math.Round(float64(w)*scale))),
		max(1, int(math.Round(float64(h)*scale)))))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
