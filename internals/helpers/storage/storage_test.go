package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutGetDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)

	ctx := context.Background()
	obj, err := l.Put(ctx, "docs/a.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/docs/a.txt", obj.URL)
	assert.EqualValues(t, 5, obj.Size)

	rc, err := l.Get(ctx, "docs/a.txt")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(body))

	key, ok := KeyFromURL(l, obj.URL)
	require.True(t, ok)
	assert.Equal(t, "docs/a.txt", key)

	require.NoError(t, l.Delete(ctx, "docs/a.txt"))
	require.NoError(t, l.Delete(ctx, "docs/a.txt"))
}

func TestLocal_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "")
	require.NoError(t, err)

	p, err := l.path("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, dir))
}

func TestBuildKey(t *testing.T) {
	key := BuildKey("/academykit/", "images", "Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "academykit/images/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebP_Downscales(t *testing.T) {
	data := samplePNG(t, 400, 200)
	out, err := ConvertToWebP(data, "x.png", WebPOptions{MaxW: 100, MaxH: 100, Quality: 70})
	require.NoError(t, err)

	img, err := DecodeImage(out, "x.webp")
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestThumbnail(t *testing.T) {
	out, err := Thumbnail(samplePNG(t, 300, 300), "x.png", 64, 36)
	require.NoError(t, err)
	img, err := DecodeImage(out, "t.webp")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(64, 36), img.Bounds().Size())
}

func TestDecodeImage_Rejects(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"), "a.txt")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
