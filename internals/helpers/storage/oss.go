package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"academykit_backend/internals/configs"
)

// OSS stores objects in an Aliyun bucket.
type OSS struct {
	bucket     *oss.Bucket
	bucketName string
	endpoint   string
	publicBase string
}

func NewOSS(cfg configs.StorageConfig) (*OSS, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSAccessKey == "" || cfg.OSSSecretKey == "" || cfg.OSSBucket == "" {
		return nil, fmt.Errorf("storage: oss endpoint, access key, secret key and bucket are required")
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, errors.Wrap(err, "oss.New")
	}
	bkt, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, errors.Wrap(err, "client.Bucket")
	}

	if loc, err := client.GetBucketLocation(cfg.OSSBucket); err != nil {
		// Restricted keys may lack GetBucketLocation; uploads still work.
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			log.Warn().Str("bucket", cfg.OSSBucket).Msg("[OSS] skip location check: access denied")
		} else {
			return nil, errors.Wrap(err, "verify bucket")
		}
	} else {
		log.Info().Str("bucket", cfg.OSSBucket).Str("location", loc).Msg("[OSS] bucket ready")
	}

	return &OSS{
		bucket:     bkt,
		bucketName: cfg.OSSBucket,
		endpoint:   cfg.OSSEndpoint,
		publicBase: strings.TrimSuffix(cfg.OSSPublicBase, "/"),
	}, nil
}

func (o *OSS) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	opts := []oss.Option{oss.WithContext(ctx)}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := o.bucket.PutObject(key, r, opts...); err != nil {
		return Object{}, errors.Wrapf(err, "oss put %s", key)
	}
	return Object{Key: key, URL: o.URL(key), ContentType: contentType, Size: size}, nil
}

func (o *OSS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	body, err := o.bucket.GetObject(key, oss.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "oss get %s", key)
	}
	return body, nil
}

func (o *OSS) Delete(ctx context.Context, key string) error {
	if err := o.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return errors.Wrapf(err, "oss delete %s", key)
	}
	return nil
}

// URL prefers the configured CDN base, else the virtual-hosted bucket URL.
func (o *OSS) URL(key string) string {
	base := o.publicBase
	if base == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(o.endpoint, "https://"), "http://")
		base = "https://" + o.bucketName + "." + host
	}
	if key == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(key, "/")
}
