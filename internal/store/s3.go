package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader copies snapshot files to a bucket under latest/. Each run
// overwrites the previous object; past snapshots are not kept.
type Uploader struct {
	API    S3API
	Bucket string
	Prefix string
}

// LatestKey is where the current snapshot for file lives; Athena reads the
// directory part of it.
func (u *Uploader) LatestKey(file string) string {
	return path.Join(strings.Trim(u.Prefix, "/"), "latest", filepath.Base(file))
}

func (u *Uploader) PutSnapshot(ctx context.Context, file string) ([]string, error) {
	body, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	k := u.LatestKey(file)
	_, err = u.API.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(k),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return nil, fmt.Errorf("put s3://%s/%s: %w", u.Bucket, k, err)
	}
	return []string{k}, nil
}
