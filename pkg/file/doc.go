// Package file provides read access to import files kept on the local
// filesystem or in AWS S3 and S3-compatible services.
//
// Both backends implement the Source interface:
//
//   - LocalSource reads files confined to a base directory.
//   - S3Source reads objects from a single bucket.
//
// Router picks a backend by location: "s3://bucket/key" goes to the S3 source
// registered for that bucket, anything else is treated as a local path.
//
// # Usage
//
//	local, err := file.NewLocalSource("/var/lib/winery/imports")
//	if err != nil {
//		return err
//	}
//	bucket, err := file.NewS3Source(ctx, file.S3Config{Bucket: "lab-exports", Region: "eu-west-1"})
//	if err != nil {
//		return err
//	}
//	router := file.NewRouter(local, bucket)
//
//	rc, err := router.Open(ctx, "s3://lab-exports/2024/tank-7.csv")
//	if err != nil {
//		return err
//	}
//	defer rc.Close()
//
// # Error Handling
//
// S3 errors are mapped to the package errors so callers do not depend on the
// AWS SDK:
//   - NoSuchKey -> ErrFileNotFound
//   - NoSuchBucket -> ErrBucketNotFound
//   - AccessDenied -> ErrAccessDenied
package file
