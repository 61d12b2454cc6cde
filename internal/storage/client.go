// Package storage uploads project images to an S3-compatible bucket and
// derives the public URLs stored on projects.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Uploaded objects are immutable, so browsers may cache them for an hour.
const cacheControl = "max-age=3600"

type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// objectAPI is the slice of the S3 client the storage layer uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, opts ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type Client struct {
	api        objectAPI
	bucket     string
	publicBase string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &StorageError{Op: "config", Err: err}
	}

	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := strings.TrimSuffix(opts.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = strings.TrimSuffix(opts.Endpoint, "/") + "/" + opts.Bucket
	}

	return &Client{
		api:        api,
		bucket:     opts.Bucket,
		publicBase: publicBase,
	}, nil
}

type File struct {
	Path        string
	ContentType string
	Body        io.Reader
}

// UploadResult is the per-file outcome of a batch upload. Entries are
// independent; a failed file never undoes its siblings.
type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
	Err  error  `json:"-"`
}

func (c *Client) UploadSingle(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(path),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return "", &StorageError{Op: "upload", Path: path, Err: err}
	}
	return c.PublicURL(path), nil
}

// UploadBatch uploads every file concurrently and reports one result per
// file, in input order.
func (c *Client) UploadBatch(ctx context.Context, files []File) []UploadResult {
	results := make([]UploadResult, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			url, err := c.UploadSingle(ctx, f.Path, f.ContentType, f.Body)
			results[i] = UploadResult{Path: f.Path, URL: url, Err: err}
		}(i, f)
	}
	wg.Wait()

	return results
}

func (c *Client) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(p)})
	}

	_, err := c.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(c.bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return &StorageError{Op: "remove", Err: err}
	}
	return nil
}

func (c *Client) PublicURL(path string) string {
	return c.publicBase + "/" + strings.TrimPrefix(path, "/")
}
