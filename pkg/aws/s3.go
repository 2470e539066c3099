package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignedUpload is a short-lived URL the browser PUTs an object to.
type PresignedUpload struct {
	URL     string
	Headers map[string]string
}

// Presigner generates presigned PUT URLs for a single bucket.
type Presigner struct {
	client *s3.PresignClient
	bucket string
}

func NewPresigner(cfg sdkaws.Config, bucket string) *Presigner {
	return &Presigner{
		client: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket: bucket,
	}
}

// PresignPut generates a presigned PUT URL for key with the given content type.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (*PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket:      sdkaws.String(p.bucket),
		Key:         sdkaws.String(key),
		ContentType: sdkaws.String(contentType),
	}

	presigned, err := p.client.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string, len(presigned.SignedHeader))
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return &PresignedUpload{URL: presigned.URL, Headers: headers}, nil
}
