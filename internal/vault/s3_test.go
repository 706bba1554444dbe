package vault

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 keeps objects in memory. Multipart calls are never reached for
// backups smaller than the uploader part size.
type fakeS3 struct {
	manager.UploadAPIClient

	mu         sync.Mutex
	objects    map[string][]byte
	headBucket error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucketPrefix := aws.ToString(in.Bucket) + "/"
	out := &s3.ListObjectsV2Output{}
	for k := range f.objects {
		key, ok := strings.CutPrefix(k, bucketPrefix)
		if ok && strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return out, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headBucket != nil {
		return nil, f.headBucket
	}
	return &s3.HeadBucketOutput{}, nil
}

func TestS3Vault_PutAndGetBackup(t *testing.T) {
	client := newFakeS3()
	v := newS3VaultWithClient("cloud", "seals-bucket", "/home/", client)

	data := `{"seals":[],"activeId":""}`
	if err := v.PutBackup("reading-seals-backup.json", strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("PutBackup() error = %v", err)
	}

	if _, ok := client.objects["seals-bucket/home/backups/reading-seals-backup.json"]; !ok {
		t.Errorf("object not stored under prefixed key; have %v", client.objects)
	}

	var buf bytes.Buffer
	if err := v.GetBackup("reading-seals-backup.json", &buf); err != nil {
		t.Fatalf("GetBackup() error = %v", err)
	}
	if buf.String() != data {
		t.Errorf("GetBackup() = %q, want %q", buf.String(), data)
	}
}

func TestS3Vault_PutBackup_SizeMismatch(t *testing.T) {
	v := newS3VaultWithClient("cloud", "b", "", newFakeS3())

	if err := v.PutBackup("b.json", strings.NewReader("hello"), 99); err == nil {
		t.Error("PutBackup() expected size mismatch error")
	}
}

func TestS3Vault_GetBackup_NotFound(t *testing.T) {
	v := newS3VaultWithClient("cloud", "b", "", newFakeS3())

	var buf bytes.Buffer
	err := v.GetBackup("missing.json", &buf)
	if err == nil || !strings.Contains(err.Error(), "backup not found") {
		t.Errorf("GetBackup() error = %v, want backup not found", err)
	}
}

func TestS3Vault_ListBackups(t *testing.T) {
	client := newFakeS3()
	v := newS3VaultWithClient("cloud", "b", "p", client)

	for _, n := range []string{"z.json", "a.json"} {
		v.PutBackup(n, strings.NewReader("{}"), 2)
	}
	client.objects["b/p/other/ignored.json"] = []byte("{}")
	client.objects["b/p/backups/nested/deep.json"] = []byte("{}")

	names, err := v.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if strings.Join(names, ",") != "a.json,z.json" {
		t.Errorf("ListBackups() = %v, want [a.json z.json]", names)
	}
}

func TestS3Vault_ValidateSetup(t *testing.T) {
	client := newFakeS3()
	v := newS3VaultWithClient("cloud", "b", "", client)

	if err := v.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}

	client.headBucket = errors.New("forbidden")
	if err := v.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error when bucket is unreachable")
	}
}
