package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/domain/screening"
)

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	// MaxBytes caps what Open will hand out; zero disables the cap.
	MaxBytes int64
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, eris.Wrap(err, "storage: minio client")
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, eris.Wrapf(err, "storage: check bucket %s", bucket)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, eris.Wrapf(err, "storage: make bucket %s", bucket)
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// UploadInput describes one recording coming from the caregiver.
type UploadInput struct {
	ParentID    string
	ChildID     string
	Category    screening.VideoCategory
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload stores the video and returns a reference pointing back at it.
func (s *Store) Upload(ctx context.Context, in UploadInput, now time.Time) (screening.VideoReference, error) {
	if !in.Category.Valid() {
		return screening.VideoReference{}, eris.Wrapf(screening.ErrInvalidVideo, "unknown category %q", in.Category)
	}
	if s.MaxBytes > 0 && in.Size > s.MaxBytes {
		return screening.VideoReference{}, eris.Wrapf(screening.ErrVideoTooLarge, "%d bytes", in.Size)
	}

	key := ObjectKey(in.ParentID, in.ChildID, in.Category, in.Filename, now)
	contentType := in.ContentType
	if contentType == "" {
		contentType = mimeFromName(in.Filename)
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, in.Body, in.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return screening.VideoReference{}, eris.Wrapf(err, "storage: put %s", key)
	}

	return screening.VideoReference{
		ID:         uuid.NewString(),
		Category:   in.Category,
		URL:        ObjectURL(s.bucketName, key),
		UploadedAt: now.UTC(),
	}, nil
}

// Owns reports whether the reference lives in this store's bucket.
func (s *Store) Owns(rawURL string) bool {
	bucket, _, ok := ParseObjectURL(rawURL)
	return ok && bucket == s.bucketName
}

// Open implements screening.VideoSource for objects in this bucket.
func (s *Store) Open(ctx context.Context, ref screening.VideoReference) (screening.Content, error) {
	bucket, key, ok := ParseObjectURL(ref.URL)
	if !ok || bucket != s.bucketName {
		return screening.Content{}, eris.Wrapf(screening.ErrInvalidVideo, "not an object in %s: %s", s.bucketName, ref.URL)
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return screening.Content{}, eris.Wrapf(err, "storage: get %s", key)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return screening.Content{}, eris.Wrapf(err, "storage: stat %s", key)
	}
	if s.MaxBytes > 0 && info.Size > s.MaxBytes {
		obj.Close()
		return screening.Content{}, eris.Wrapf(screening.ErrVideoTooLarge, "%s is %d bytes", key, info.Size)
	}
	mime := info.ContentType
	if mime == "" || mime == "application/octet-stream" {
		mime = mimeFromName(key)
	}
	return screening.Content{Body: obj, MIMEType: mime, Size: info.Size}, nil
}

const objectScheme = "minio"

// ObjectKey builds <parent>/<child>/<category>-<unix>.<ext>.
func ObjectKey(parentID, childID string, category screening.VideoCategory, filename string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = "mp4"
	}
	return fmt.Sprintf("%s/%s/%s-%d.%s", safeSegment(parentID), safeSegment(childID), category, now.Unix(), ext)
}

// ObjectURL is the stable reference persisted with a screening.
func ObjectURL(bucket, key string) string {
	return (&url.URL{Scheme: objectScheme, Host: bucket, Path: "/" + key}).String()
}

// ParseObjectURL splits minio://bucket/key.
func ParseObjectURL(rawURL string) (bucket, key string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != objectScheme || u.Host == "" {
		return "", "", false
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", false
	}
	return u.Host, key, true
}

func safeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
	if s == "" {
		return "unknown"
	}
	return s
}

// mimeType sederhana
func mimeFromName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".3gp":
		return "video/3gpp"
	default:
		return "video/mp4"
	}
}
