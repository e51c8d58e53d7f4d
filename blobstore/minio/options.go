package minio

import (
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type options struct {
	prefix string
	region string
	secure bool
	creds  *credentials.Credentials
}

// Option configures a Store.
type Option func(*options)

// WithPrefix sets the key prefix prepended to every blob name.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithRegion sets the bucket region.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithSecure enables TLS.
func WithSecure(secure bool) Option {
	return func(o *options) {
		o.secure = secure
	}
}

// WithStaticCredentials uses a fixed access key pair.
func WithStaticCredentials(accessKey, secretKey string) Option {
	return func(o *options) {
		o.creds = credentials.NewStaticV4(accessKey, secretKey, "")
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.creds == nil {
		o.creds = credentials.NewEnvMinio()
	}
	return o
}
