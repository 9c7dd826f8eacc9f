// Package assets packages function source directories and publishes them,
// together with runbook documents, to S3 under content-addressed keys.
package assets

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// RunbookPrefix is the key prefix for runbook documents.
const RunbookPrefix = "runbooks/"

// digestMetadataKey carries the SHA-256 of an uploaded object.
const digestMetadataKey = "sha256"

// zipEpoch is the modification time written for every archive entry, so
// identical sources produce identical archives.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Function maps a function source directory to the template parameter
// that receives its code key.
type Function struct {
	Name      string
	Dir       string
	Parameter string
}

// CopilotFunctions are the handlers deployed by the copilot stack,
// relative to the functions directory.
var CopilotFunctions = []Function{
	{Name: "triager", Dir: "triager", Parameter: "TriagerCodeKey"},
	{Name: "approver", Dir: "approver", Parameter: "ApproverCodeKey"},
}

// ObjectStore is the subset of *s3.Client the publisher needs.
type ObjectStore interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the S3 client.
type S3Config struct {
	Region   string
	Endpoint string // Optional custom endpoint (LocalStack, MinIO)
}

// NewS3Client creates an S3 client from the default credential chain.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Archive is a packaged function directory.
type Archive struct {
	Data   []byte
	Digest string // hex SHA-256 of Data
	Files  int
}

// Package zips every regular file under dir. Entries are written in
// lexical order with a fixed timestamp. Hidden files and __pycache__
// directories are skipped.
func Package(dir string) (*Archive, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := 0

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && skipEntry(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		header := &zip.FileHeader{
			Name:     filepath.ToSlash(rel),
			Method:   zip.Deflate,
			Modified: zipEpoch,
		}
		header.SetMode(0644)

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("adding %s: %w", rel, err)
		}
		files++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	if files == 0 {
		return nil, fmt.Errorf("%s contains no files", dir)
	}

	data := buf.Bytes()
	return &Archive{Data: data, Digest: digest(data), Files: files}, nil
}

func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__"
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Publisher uploads objects to a single bucket.
type Publisher struct {
	store  ObjectStore
	bucket string
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a publisher. A nil logger discards progress output.
func NewPublisher(store ObjectStore, bucket, prefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{store: store, bucket: bucket, prefix: prefix, logger: logger}
}

// Upload is the outcome of publishing one object.
type Upload struct {
	Key     string
	Digest  string
	Skipped bool
}

// PublishArchive uploads a to <prefix><digest>.zip. The key is derived
// from the content, so an existing object is never rewritten.
func (p *Publisher) PublishArchive(ctx context.Context, a *Archive) (Upload, error) {
	key := p.prefix + a.Digest + ".zip"
	return p.put(ctx, key, a.Data, a.Digest, "application/zip")
}

// PublishFunctions packages and uploads each function under functionsDir
// and returns the template parameter overrides pointing at the uploads.
func (p *Publisher) PublishFunctions(ctx context.Context, functionsDir string, functions []Function) (map[string]string, error) {
	if p.bucket == "" {
		return nil, fmt.Errorf("no asset bucket configured")
	}

	overrides := map[string]string{"AssetBucket": p.bucket}
	for _, fn := range functions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		archive, err := Package(filepath.Join(functionsDir, fn.Dir))
		if err != nil {
			return nil, fmt.Errorf("packaging %s: %w", fn.Name, err)
		}
		upload, err := p.PublishArchive(ctx, archive)
		if err != nil {
			return nil, fmt.Errorf("publishing %s: %w", fn.Name, err)
		}
		p.logger.Info("published function", "function", fn.Name, "key", upload.Key, "files", archive.Files, "skipped", upload.Skipped)
		overrides[fn.Parameter] = upload.Key
	}
	return overrides, nil
}

// PublishRunbooks uploads every file under dir to runbooks/<relpath>.
// Objects whose stored digest matches the local file are skipped.
func (p *Publisher) PublishRunbooks(ctx context.Context, dir string) ([]Upload, error) {
	if p.bucket == "" {
		return nil, fmt.Errorf("no runbooks bucket configured")
	}

	var uploads []Upload
	err := filepath.WalkDir(dir, func(fp string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if fp != dir && skipEntry(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, fp)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(fp)
		if err != nil {
			return err
		}

		key := RunbookPrefix + filepath.ToSlash(rel)
		upload, err := p.put(ctx, key, data, digest(data), contentType(rel))
		if err != nil {
			return fmt.Errorf("publishing %s: %w", rel, err)
		}
		p.logger.Info("published runbook", "key", upload.Key, "skipped", upload.Skipped)
		uploads = append(uploads, upload)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uploads, nil
}

// put writes data under key unless an object with the same digest is
// already stored there.
func (p *Publisher) put(ctx context.Context, key string, data []byte, sum, ct string) (Upload, error) {
	head, err := p.store.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	switch {
	case err == nil:
		if head != nil && head.Metadata[digestMetadataKey] == sum {
			return Upload{Key: key, Digest: sum, Skipped: true}, nil
		}
	case ctx.Err() != nil:
		return Upload{}, fmt.Errorf("s3 head failed for %s: %w", key, ctx.Err())
	default:
		// Any failed HEAD still uploads. NotFound is the expected miss.
		var notFound *types.NotFound
		if !errors.As(err, &notFound) {
			p.logger.Debug("s3 head failed, uploading", "bucket", p.bucket, "key", key, "error", err)
		}
	}

	_, err = p.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ct),
		Metadata:    map[string]string{digestMetadataKey: sum},
	})
	if err != nil {
		return Upload{}, fmt.Errorf("s3 put failed for %s: %w", key, err)
	}
	return Upload{Key: key, Digest: sum}, nil
}

func contentType(name string) string {
	switch ext := path.Ext(filepath.ToSlash(name)); ext {
	case ".md":
		return "text/markdown"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}
