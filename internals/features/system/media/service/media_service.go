package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/storage"
)

type MediaService struct {
	Storage  storage.Provider
	Prefix   string
	MaxBytes int64
	WebP     storage.WebPOptions
}

func NewMediaService(p storage.Provider, prefix string, maxUploadMB int) *MediaService {
	return &MediaService{Storage: p, Prefix: prefix, MaxBytes: int64(maxUploadMB) << 20, WebP: storage.DefaultWebPOptions}
}

// ResolveKind validates the requested media kind against the file extension.
// An empty kind is detected from the extension.
func ResolveKind(kind, filename string) (string, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = constants.DetectMediaType(filename)
		if kind == "" {
			return "", helper.ErrFieldValidation("file", "unsupported file type "+filepath.Ext(filename))
		}
		return kind, nil
	}
	switch kind {
	case constants.MediaImage, constants.MediaVideo, constants.MediaDocument, constants.MediaAudio:
	default:
		return "", helper.ErrFieldValidation("type", "type must be image, video, document or audio")
	}
	if !constants.IsAllowedExtension(kind, filename) {
		return "", helper.ErrFieldValidation("file", "extension "+filepath.Ext(filename)+" is not allowed for "+kind)
	}
	return kind, nil
}

// Upload stores one file. Images other than GIF are resized and re-encoded to WebP.
func (s *MediaService) Upload(ctx context.Context, actor helper.CurrentUser, fh *multipart.FileHeader, kind string) (*storage.Object, error) {
	if fh == nil {
		return nil, helper.ErrFieldValidation("file", "file is required")
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return nil, helper.ErrFieldValidation("file", "file is larger than the upload limit")
	}
	kind, err := ResolveKind(kind, fh.Filename)
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, helper.ErrBadRequest("cannot read uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, helper.ErrBadRequest("cannot read uploaded file")
	}

	name := fh.Filename
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if kind == constants.MediaImage && strings.ToLower(filepath.Ext(name)) != ".gif" {
		webp, err := storage.ConvertToWebP(data, name, s.WebP)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedImage) {
				return nil, helper.ErrFieldValidation("file", "file is not a readable image")
			}
			return nil, helper.ErrService("failed to convert image", err)
		}
		data, contentType = webp, "image/webp"
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
	}

	key := storage.BuildKey(s.Prefix, kind+"s", name)
	obj, err := s.Storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, helper.ErrUnavailable("storage is unavailable", err)
	}
	log.Debug().Str("key", obj.Key).Str("user_id", actor.ID.String()).Int64("size", obj.Size).Msg("[MEDIA] stored")
	return &obj, nil
}
