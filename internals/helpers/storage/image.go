package storage

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

/* =======================================================================
   WebP re-encode
======================================================================= */

type WebPOptions struct {
	MaxW        int
	MaxH        int
	Quality     float32
	TargetKB    int // 0 disables the size search
	MinQ        float32
	MaxQ        float32
	ToleranceKB int
}

var DefaultWebPOptions = WebPOptions{
	MaxW:        1600,
	MaxH:        1600,
	Quality:     80,
	MinQ:        45,
	MaxQ:        85,
	ToleranceKB: 8,
}

var ErrUnsupportedImage = fmt.Errorf("unsupported image format")

// DecodeImage sniffs the content and decodes jpeg, png, gif or webp, honoring EXIF orientation.
func DecodeImage(data []byte, filename string) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	ext := strings.ToLower(filepath.Ext(filename))

	if strings.Contains(ct, "webp") || ext == ".webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
	return img, nil
}

// downscale keeps the aspect ratio and never upsizes.
func downscale(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, q float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeWebP encodes once at Quality, or binary-searches the quality when TargetKB is set.
func EncodeWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	img = downscale(img, opt.MaxW, opt.MaxH)
	if opt.TargetKB <= 0 {
		q := opt.Quality
		if q <= 0 {
			q = 80
		}
		return encodeWebP(img, q)
	}

	target := (opt.TargetKB + max(opt.ToleranceKB, 0)) * 1024
	low, high := opt.MinQ, opt.MaxQ
	if low <= 0 {
		low = 45
	}
	if high <= 0 {
		high = 85
	}
	var best []byte
	for i := 0; i < 7; i++ {
		q := (low + high) / 2
		data, err := encodeWebP(img, q)
		if err != nil {
			return nil, err
		}
		if len(data) <= target {
			best = data
			low = q
		} else {
			high = q
		}
	}
	if best == nil {
		return encodeWebP(img, low)
	}
	return best, nil
}

// ConvertToWebP is the upload path for images: decode, shrink, re-encode.
func ConvertToWebP(data []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := DecodeImage(data, filename)
	if err != nil {
		return nil, err
	}
	return EncodeWebP(img, opt)
}

// Thumbnail crops to exactly w×h around the center.
func Thumbnail(data []byte, filename string, w, h int) ([]byte, error) {
	img, err := DecodeImage(data, filename)
	if err != nil {
		return nil, err
	}
	thumb := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
	return encodeWebP(thumb, 75)
}
