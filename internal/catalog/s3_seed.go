package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3GetObjectAPI is the slice of the S3 client used to fetch seeds.
type s3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ParseS3URI splits "s3://bucket/key". ok is false for other schemes.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(uri), "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// LoadS3 reads a seed catalog object. The key's extension selects the
// format as in LoadFile.
func LoadS3(ctx context.Context, client s3GetObjectAPI, bucket, key string) (*MemorySource, error) {
	if client == nil {
		return nil, errors.New("catalog: s3 client required")
	}
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("catalog: seed s3://%s/%s: %w", bucket, key, ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("catalog: fetch seed s3://%s/%s: %w: %v", bucket, key, ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read seed object: %w", err)
	}
	roots, err := DecodeSeed(data, path.Ext(key))
	if err != nil {
		return nil, err
	}
	return NewMemorySource(roots), nil
}
