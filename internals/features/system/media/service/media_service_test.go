package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/storage"
)

func TestResolveKind(t *testing.T) {
	kind, err := ResolveKind("", "notes.PDF")
	require.NoError(t, err)
	assert.Equal(t, constants.MediaDocument, kind)

	kind, err = ResolveKind("Image", "photo.png")
	require.NoError(t, err)
	assert.Equal(t, constants.MediaImage, kind)

	_, err = ResolveKind("image", "talk.mp4")
	assert.Error(t, err)
	_, err = ResolveKind("", "archive.zip")
	assert.Error(t, err)
	_, err = ResolveKind("spreadsheet", "a.xlsx")
	assert.Error(t, err)
}

// fileHeader builds a real multipart header through a parsed form.
func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestUpload_ImageBecomesWebP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 5, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	local, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewMediaService(local, "test", 5)

	obj, err := svc.Upload(context.Background(), helper.CurrentUser{ID: uuid.New()}, fileHeader(t, "banner.png", buf.Bytes()), "image")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", obj.ContentType)
	assert.Contains(t, obj.Key, "test/images/")
	assert.True(t, len(obj.Key) > 5 && obj.Key[len(obj.Key)-5:] == ".webp")

	rc, err := local.Get(context.Background(), obj.Key)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(stored[:4]))
}

func TestUpload_RejectsOversized(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewMediaService(local, "", 1)

	big := make([]byte, 2<<20)
	_, err = svc.Upload(context.Background(), helper.CurrentUser{ID: uuid.New()}, fileHeader(t, "notes.txt", big), "")
	require.Error(t, err)
	assert.Equal(t, 422, helper.Classify(err).Status)
}
