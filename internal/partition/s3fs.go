package partition

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3FileSystem walks a table root stored as S3 object keys under a bucket.
// Grounded on the teacher's aws-sdk-go-v2 bootstrap for its CDC flusher
// (config.LoadDefaultConfig + s3.NewFromConfig), repointed at listing
// partition objects instead of uploading them.
type S3FileSystem struct {
	client *s3.Client
	bucket string
}

// NewS3FileSystem builds the S3-backed filesystem. accessKey/secretKey are
// optional; when both are empty the default AWS credential chain is used.
func NewS3FileSystem(ctx context.Context, region, endpoint, bucket, accessKey, secretKey string) (*S3FileSystem, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = endpoint != ""
	})
	return &S3FileSystem{client: client, bucket: bucket}, nil
}

func (f *S3FileSystem) Walk(ctx context.Context, root string) ([]RawFile, error) {
	prefix := strings.TrimSuffix(root, "/") + "/"
	var out []RawFile
	paginator := s3.NewListObjectsV2Paginator(f.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(f.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects under %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, prefix)
			relDir := path.Dir(rel)
			if relDir == "." {
				relDir = ""
			}
			var modTime = aws.ToTime(obj.LastModified)
			out = append(out, RawFile{
				Path:    "s3://" + f.bucket + "/" + key,
				RelDir:  relDir,
				Size:    aws.ToInt64(obj.Size),
				ModTime: modTime,
			})
		}
	}
	return out, nil
}
