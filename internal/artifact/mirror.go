package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// Object metadata keys stored alongside mirrored slots.
const (
	metaURL          = "source-url"
	metaDownloadedAt = "downloaded-at"
	metaChecksum     = "checksum-sha256"
)

// objectAPI is the subset of the S3 client used by MirrorStore.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// MirrorConfig selects the bucket that mirrors the local slots.
type MirrorConfig struct {
	Bucket   string
	Region   string
	Prefix   string
	Endpoint string // S3-compatible endpoint; enables path-style addressing
}

// MirrorStore keeps slots locally and mirrors them to an S3 bucket, so a new
// machine can pull renderers it has never downloaded itself. A slot that is
// only in the bucket exists but is not local until materialized.
type MirrorStore struct {
	local  *FileStore
	client objectAPI
	bucket string
	prefix string
	log    *logrus.Logger
}

// NewS3Mirror builds a MirrorStore using the default AWS credential chain.
func NewS3Mirror(ctx context.Context, local *FileStore, cfg MirrorConfig, log *logrus.Logger) (*MirrorStore, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newMirror(local, client, cfg, log), nil
}

func newMirror(local *FileStore, client objectAPI, cfg MirrorConfig, log *logrus.Logger) *MirrorStore {
	if log == nil {
		log = logrus.New()
	}
	return &MirrorStore{
		local:  local,
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		log:    log,
	}
}

func (m *MirrorStore) key(name string) string {
	return path.Join(m.prefix, name, contentFile)
}

func (m *MirrorStore) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := m.local.Exists(ctx, name)
	if err != nil || ok {
		return ok, err
	}
	_, err = m.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.key(name)),
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("head %s: %w", name, err)
	}
	return true, nil
}

// Materialize downloads a remote-only slot into the local store.
func (m *MirrorStore) Materialize(ctx context.Context, name string) error {
	ok, err := m.local.Exists(ctx, name)
	if err != nil || ok {
		return err
	}

	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.key(name)),
	})
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	meta := Meta{URL: out.Metadata[metaURL]}
	if ts, err := time.Parse(time.RFC3339, out.Metadata[metaDownloadedAt]); err == nil {
		meta.DownloadedAt = ts
	}
	if sum := out.Metadata[metaChecksum]; sum != "" && sum != Checksum(data) {
		return fmt.Errorf("mirrored slot %s fails checksum", name)
	}

	m.log.WithField("slot", name).Debug("materialized slot from mirror")
	return m.local.Write(ctx, name, data, meta)
}

func (m *MirrorStore) Read(ctx context.Context, name string) ([]byte, Meta, error) {
	if err := m.Materialize(ctx, name); err != nil {
		return nil, Meta{}, err
	}
	return m.local.Read(ctx, name)
}

// Write stores the slot locally and then uploads it. Upload failures are
// logged; the local slot is authoritative.
func (m *MirrorStore) Write(ctx context.Context, name string, data []byte, meta Meta) error {
	if err := m.local.Write(ctx, name, data, meta); err != nil {
		return err
	}

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(m.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/yaml"),
		Metadata: map[string]string{
			metaURL:          meta.URL,
			metaDownloadedAt: meta.DownloadedAt.UTC().Format(time.RFC3339),
			metaChecksum:     Checksum(data),
		},
	})
	if err != nil {
		m.log.WithError(err).WithField("slot", name).Warn("mirror upload failed")
	}
	return nil
}

func (m *MirrorStore) List(ctx context.Context) ([]Meta, error) {
	return m.local.List(ctx)
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var (
		nf  *types.NotFound
		nsk *types.NoSuchKey
	)
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "NoSuchKey")
}
