package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"mls-go/internal/model"
	"mls-go/internal/sync"
)

// S3Store keeps documents as markdown objects in an S3 bucket under an
// optional key prefix. Creation safety relies on conditional writes
// (If-None-Match: *); merge safety relies on the engine's per-identifier
// locks, as S3 offers no read-modify-write primitive.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Store creates a store over an existing S3 client.
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
	}
}

// Read returns the document at path, or sync.ErrNotFound.
func (s *S3Store) Read(ctx context.Context, path string) (*model.Document, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%s: %w", path, sync.ErrNotFound)
		}
		return nil, fmt.Errorf("getting %s: %w", path, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	props, body, err := parseDocument(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &model.Document{Path: path, Frontmatter: props, Body: body}, nil
}

// Create writes a new object guarded by If-None-Match so a concurrent or
// pre-existing document surfaces as sync.ErrExists instead of being
// overwritten.
func (s *S3Store) Create(ctx context.Context, path string, frontmatter model.Properties, body string) error {
	content, err := renderDocument(frontmatter, body)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(path)),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/markdown"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return fmt.Errorf("%s: %w", path, sync.ErrExists)
		}
		return fmt.Errorf("putting %s: %w", path, err)
	}
	return nil
}

// MutateFrontmatter merges props into the object's front matter. The
// read-merge-write sequence is safe because the engine serializes all
// mutations per identifier.
func (s *S3Store) MutateFrontmatter(ctx context.Context, path string, props model.Properties) error {
	doc, err := s.Read(ctx, path)
	if err != nil {
		return err
	}
	content, err := renderDocument(doc.Frontmatter.Merge(props), doc.Body)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(path)),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/markdown"),
	})
	if err != nil {
		return fmt.Errorf("putting %s: %w", path, err)
	}
	return nil
}

// QueryFolder lists the folder's markdown objects and reads their front
// matter. The delimiter keeps the listing non-recursive.
func (s *S3Store) QueryFolder(ctx context.Context, folder string) ([]model.DocumentInfo, error) {
	listPrefix := s.key(folder)
	if listPrefix != "" {
		listPrefix += "/"
	}

	var infos []model.DocumentInfo
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(listPrefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing folder %q: %w", folder, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".md") {
				continue
			}
			docPath := s.path(key)
			doc, err := s.Read(ctx, docPath)
			if err != nil {
				return nil, err
			}
			infos = append(infos, model.DocumentInfo{
				Path:  docPath,
				Title: docTitle(docPath),
				Props: propsToMap(doc.Frontmatter),
			})
		}
	}
	return infos, nil
}

// key maps a store path to an object key.
func (s *S3Store) key(path string) string {
	path = strings.Trim(path, "/")
	if s.prefix == "" {
		return path
	}
	if path == "" {
		return s.prefix
	}
	return s.prefix + "/" + path
}

// path maps an object key back to a store path.
func (s *S3Store) path(key string) string {
	if s.prefix == "" {
		return key
	}
	return strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
}

// Compile-time check that S3Store implements sync.DocumentStore
var _ sync.DocumentStore = (*S3Store)(nil)
