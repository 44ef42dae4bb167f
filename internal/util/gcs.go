package util

import "fmt"

// PublicGCSURL builds the canonical public URL for a bucket object. Private
// buckets should serve signed URLs instead.
func PublicGCSURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
