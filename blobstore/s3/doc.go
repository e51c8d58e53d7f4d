// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore,
// plus a DynamoDB-backed commit store for publishing Gram matrices from
// several writers at once.
//
// # Usage
//
//	store, err := s3.New(ctx, "corpora",
//	    s3.WithPrefix("spam/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	ds, err := arff.Load(ctx, store, "train.arff")
//
// Writes stream through the SDK upload manager, so large matrices are sent
// as multipart uploads. Small puts carry a CRC32C checksum.
package s3
