// Package minio provides a blobstore.BlobStore backed by MinIO or any
// S3-compatible server reachable through the MinIO client (Ceph, Garage,
// SeaweedFS). It needs no AWS SDK configuration, which suits air-gapped
// clusters that keep corpora on-prem.
//
//	store, err := minio.New("minio.local:9000", "corpora",
//	    minio.WithStaticCredentials("access", "secret"),
//	    minio.WithPrefix("spam/"),
//	)
//	ds, err := arff.Load(ctx, store, "train.arff")
package minio
