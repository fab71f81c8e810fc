package aws

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const minMultipartSize = 12 << 20

// Put streams one object to S3. Larger bodies go through the multipart
// uploader, the part size stays above the S3 minimum
func (c *S3Client) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        c.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}

	var err error
	if size > minMultipartSize {
		u := manager.NewUploader(c.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = u.Upload(ctx, input)
	} else {
		_, err = c.C.PutObject(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3, %w", key, err)
	}

	return nil
}

// List returns the keys of every object stored under prefix
func (c *S3Client) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	p := s3.NewListObjectsV2Paginator(c.C, &s3.ListObjectsV2Input{
		Bucket: c.Bucket,
		Prefix: aws.String(prefix),
	})

	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %s, %w", prefix, err)
		}

		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}

	return keys, nil
}

// Get opens one object for reading. The caller owns the returned body
func (c *S3Client) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: c.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from S3, %w", key, err)
	}

	return out.Body, nil
}
