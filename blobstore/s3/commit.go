package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/strkernel/blobstore"
)

// CurrentName is the pointer blob that names the published Gram matrix.
const CurrentName = "CURRENT"

// ErrConcurrentModification is returned when another writer published the
// same version first.
var ErrConcurrentModification = errors.New("s3: concurrent modification detected")

// DDBClient is the subset of the DynamoDB API the commit store uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// DDBCommitStore stores blobs in S3 and keeps the CURRENT pointer in a
// DynamoDB table. Each publish writes a new version with a conditional put,
// so two writers never both believe they published the same version.
//
// Table schema: partition key base_uri (S), sort key version (N).
//
//	aws dynamodb create-table \
//	  --table-name strkernel-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	*Store
	ddb     DDBClient
	table   string
	baseURI string
}

// NewDDBCommitStore combines an S3 store with a DynamoDB commit table.
// baseURI partitions the table, typically "s3://bucket/prefix".
func NewDDBCommitStore(store *Store, ddb DDBClient, table, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{Store: store, ddb: ddb, table: table, baseURI: baseURI}
}

// NewWithDynamoDB builds both clients from the default AWS credential chain.
func NewWithDynamoDB(ctx context.Context, bucket, table string, opts ...Option) (*DDBCommitStore, error) {
	o := applyOptions(opts)
	cfg, err := loadConfig(ctx, o)
	if err != nil {
		return nil, err
	}
	store := NewStore(newClient(cfg, o), bucket, opts...)
	baseURI := "s3://" + bucket + "/" + o.prefix
	return NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg), table, baseURI), nil
}

// Open serves CURRENT from DynamoDB and everything else from S3.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name != CurrentName {
		return s.Store.Open(ctx, name)
	}
	version, target, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, blobstore.ErrNotFound
	}
	return &pointerBlob{data: []byte(target)}, nil
}

// Put commits CURRENT as a new version; other names go to S3.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name != CurrentName {
		return s.Store.Put(ctx, name, data)
	}
	version, _, err := s.latest(ctx)
	if err != nil {
		return err
	}
	return s.commit(ctx, version+1, string(data))
}

// Version returns the latest committed version, or 0 before the first publish.
func (s *DDBCommitStore) Version(ctx context.Context) (uint64, error) {
	v, _, err := s.latest(ctx)
	return v, err
}

func (s *DDBCommitStore) latest(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("s3: query commit table: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	vAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("s3: commit item has no numeric version")
	}
	pAttr, ok := item["target"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("s3: commit item has no target")
	}
	version, err := strconv.ParseUint(vAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("s3: parse commit version: %w", err)
	}
	return version, pAttr.Value, nil
}

func (s *DDBCommitStore) commit(ctx context.Context, version uint64, target string) error {
	_, err := s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"base_uri": &types.AttributeValueMemberS{Value: s.baseURI},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			"target":   &types.AttributeValueMemberS{Value: target},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("s3: commit version %d: %w", version, err)
	}
	return nil
}

type pointerBlob struct {
	data []byte
}

func (b *pointerBlob) Close() error { return nil }

func (b *pointerBlob) Size() int64 { return int64(len(b.data)) }

func (b *pointerBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *pointerBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= int64(len(b.data)) {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	end := min(off+length, int64(len(b.data)))
	return io.NopCloser(bytes.NewReader(b.data[off:end])), nil
}
