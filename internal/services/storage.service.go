package services

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"hseinspect/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

const photoKeyPrefix = "photos"

type StoredObject struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Storage holds uploaded photos under slash separated keys.
type Storage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]StoredObject, error)
	URL(key string) string
	// KeyFromURL reverses URL. ok is false for URLs this storage did not issue.
	KeyFromURL(rawURL string) (key string, ok bool)
}

// NewStorage picks OSS when a bucket is configured and the local upload
// directory otherwise.
func NewStorage(cfg config.Config) (Storage, error) {
	if cfg.OSSEnabled() {
		return NewOSSStorage(cfg)
	}
	return NewLocalStorage(cfg.UploadDir, cfg.UploadPublicURL), nil
}

type LocalStorage struct {
	dir       string
	publicURL string
	log       logger.Logger
}

func NewLocalStorage(dir, publicURL string) *LocalStorage {
	return &LocalStorage{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       logger.New("localStorage"),
	}
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) pathFor(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", s.log.Function("pathFor").Error("invalid storage key", "key", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *LocalStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	log := s.log.TraceFromContext(ctx).Function("Put")

	target, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return log.Err("failed to create upload directory", err, "key", key)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return log.Err("failed to write upload", err, "key", key)
	}
	return nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	log := s.log.TraceFromContext(ctx).Function("Delete")

	target, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return log.Err("failed to delete upload", err, "key", key)
	}
	return nil
}

func (s *LocalStorage) List(ctx context.Context, prefix string) ([]StoredObject, error) {
	log := s.log.TraceFromContext(ctx).Function("List")

	root := filepath.Join(s.dir, filepath.FromSlash(prefix))
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return []StoredObject{}, nil
	}

	var objects []StoredObject
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		objects = append(objects, StoredObject{
			Key:        filepath.ToSlash(rel),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, log.Err("failed to walk upload directory", err, "directory", root)
	}

	return objects, nil
}

func (s *LocalStorage) URL(key string) string {
	return s.publicURL + "/" + key
}

func (s *LocalStorage) KeyFromURL(rawURL string) (string, bool) {
	key, found := strings.CutPrefix(rawURL, s.publicURL+"/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}

type OSSStorage struct {
	bucket *oss.Bucket
	host   string
	log    logger.Logger
}

func NewOSSStorage(cfg config.Config) (*OSSStorage, error) {
	log := logger.New("ossStorage").Function("NewOSSStorage")

	endpoint := cfg.OSSEndpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return nil, log.Error("invalid OSS endpoint", "endpoint", cfg.OSSEndpoint)
	}

	client, err := oss.New(endpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, log.Err("failed to create OSS client", err)
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, log.Err("failed to open OSS bucket", err, "bucket", cfg.OSSBucket)
	}

	log.Info("using OSS photo storage", "bucket", cfg.OSSBucket)
	return &OSSStorage{
		bucket: bucket,
		host:   cfg.OSSBucket + "." + parsed.Host,
		log:    logger.New("ossStorage"),
	}, nil
}

func (s *OSSStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	log := s.log.TraceFromContext(ctx).Function("Put")

	if err := s.bucket.PutObject(key, bytes.NewReader(data),
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	); err != nil {
		return log.Err("failed to put object", err, "key", key)
	}
	return nil
}

func (s *OSSStorage) Delete(ctx context.Context, key string) error {
	log := s.log.TraceFromContext(ctx).Function("Delete")

	if err := s.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return log.Err("failed to delete object", err, "key", key)
	}
	return nil
}

func (s *OSSStorage) List(ctx context.Context, prefix string) ([]StoredObject, error) {
	log := s.log.TraceFromContext(ctx).Function("List")

	var objects []StoredObject
	marker := oss.Marker("")
	for {
		result, err := s.bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return nil, log.Err("failed to list objects", err, "prefix", prefix)
		}
		for _, object := range result.Objects {
			if object.Key == "" {
				continue
			}
			objects = append(objects, StoredObject{
				Key:        object.Key,
				Size:       object.Size,
				ModifiedAt: object.LastModified,
			})
		}
		if !result.IsTruncated {
			break
		}
		marker = oss.Marker(result.NextMarker)
	}

	return objects, nil
}

func (s *OSSStorage) URL(key string) string {
	return "https://" + s.host + "/" + key
}

func (s *OSSStorage) KeyFromURL(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host != s.host {
		return "", false
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	return key, key != ""
}
