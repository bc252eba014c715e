package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestArchive(t *testing.T) {
	put := &fakePutter{}
	a := NewArchiver(put, "bucket", "weft/snapshots")
	snap := &Snapshot{
		Sequence:    7,
		Fingerprint: 0xabc,
		Fibers:      2,
		CapturedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Root:        &Node{ID: 1, Kind: "root", Type: "#root"},
	}

	key, err := a.Archive(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, "weft/snapshots/00000007-0000000000000abc.json", key)
	assert.Equal(t, "bucket", aws.ToString(put.input.Bucket))
	assert.Equal(t, key, aws.ToString(put.input.Key))
	assert.Equal(t, "application/json", aws.ToString(put.input.ContentType))
	assert.Equal(t, "2", put.input.Metadata["fibers"])
	assert.Equal(t, "2024-01-02T03:04:05Z", put.input.Metadata["captured-at"])

	var got Snapshot
	require.NoError(t, json.Unmarshal(put.body, &got))
	assert.Equal(t, snap.Fingerprint, got.Fingerprint)
	assert.Equal(t, "#root", got.Root.Type)
}

func TestArchiveErrors(t *testing.T) {
	boom := errors.New("denied")
	a := NewArchiver(&fakePutter{err: boom}, "bucket", "")

	_, err := a.Archive(context.Background(), &Snapshot{Sequence: 1})
	assert.ErrorIs(t, err, boom)

	_, err = a.Archive(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewS3ArchiverUsesEnvironment(t *testing.T) {
	env := map[string]string{"AWS_ACCESS_KEY_ID": "id", "AWS_SECRET_ACCESS_KEY": "secret"}
	a := NewS3Archiver(S3Options{
		Bucket:   "b",
		Prefix:   "p",
		Region:   "us-east-1",
		Endpoint: "http://127.0.0.1:9000",
	}, func(k string) string { return env[k] })

	client, ok := a.client.(*s3.Client)
	require.True(t, ok)
	opts := client.Options()
	assert.Equal(t, "us-east-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))

	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id", creds.AccessKeyID)
	assert.Equal(t, "p/00000001-0000000000000001.json", a.Key(&Snapshot{Sequence: 1, Fingerprint: 1}))
}
