package main

import (
	"context"

	router "github.com/abfhdays/intelligent-query-router"
	"github.com/abfhdays/intelligent-query-router/internal/partition"
)

// buildFileSystem returns the local disk walker unless -s3-bucket names a
// bucket, in which case partition discovery walks S3 object keys instead.
func buildFileSystem(ctx context.Context, flags *commonFlags) (router.FileSystem, error) {
	if flags.s3Bucket == "" {
		return partition.LocalFileSystem{}, nil
	}
	return partition.NewS3FileSystem(ctx, flags.s3Region, flags.s3Endpoint, flags.s3Bucket, flags.awsAccessKey, flags.awsSecretKey)
}
