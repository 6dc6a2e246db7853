package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira_task_bot/internal/model"
)

// fakeS3 keeps objects in memory and honours If-None-Match: *
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(params.Key)
	if aws.ToString(params.IfNoneMatch) == "*" {
		if _, ok := f.objects[key]; ok {
			return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}
		}
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(params.Key))
	f.deletes++
	return &s3.DeleteObjectOutput{}, nil
}

func newTestLocker(client S3API) *S3Locker {
	locker := NewS3Locker(client, "locks", time.Minute)
	locker.pollInterval = time.Millisecond
	return locker
}

func TestS3LockerAcquireRelease(t *testing.T) {
	fake := newFakeS3()
	locker := newTestLocker(fake)

	unlock, err := locker.Lock(context.Background(), "OPS/AWS")
	require.NoError(t, err)
	require.Contains(t, fake.objects, "locks/OPS/AWS.json")

	var record lockRecord
	require.NoError(t, json.Unmarshal(fake.objects["locks/OPS/AWS.json"], &record))
	assert.NotEmpty(t, record.Owner)

	unlock()
	assert.NotContains(t, fake.objects, "locks/OPS/AWS.json")
}

func TestS3LockerWaitsForHolder(t *testing.T) {
	fake := newFakeS3()
	locker := newTestLocker(fake)

	unlock, err := locker.Lock(context.Background(), "OPS/AWS")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		unlock2, err := locker.Lock(context.Background(), "OPS/AWS")
		if err == nil {
			unlock2()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestS3LockerTimeout(t *testing.T) {
	fake := newFakeS3()
	locker := newTestLocker(fake)

	_, err := locker.Lock(context.Background(), "OPS/AWS")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "OPS/AWS")
	require.Error(t, err)
	assert.True(t, goerr.HasTag(err, model.TagLockTimeout))
}

func TestS3LockerBreaksExpiredLock(t *testing.T) {
	fake := newFakeS3()
	stale, err := json.Marshal(lockRecord{Owner: "gone", ExpiresAt: time.Now().Add(-time.Second)})
	require.NoError(t, err)
	fake.objects["locks/OPS/AWS.json"] = stale

	locker := newTestLocker(fake)
	unlock, err := locker.Lock(context.Background(), "OPS/AWS")
	require.NoError(t, err)
	unlock()

	assert.Equal(t, 2, fake.deletes)
}

func TestS3LockerReleaseKeepsForeignLock(t *testing.T) {
	fake := newFakeS3()
	locker := newTestLocker(fake)

	unlock, err := locker.Lock(context.Background(), "OPS/AWS")
	require.NoError(t, err)

	// someone broke and re-took the lock
	foreign, err := json.Marshal(lockRecord{Owner: "other", ExpiresAt: time.Now().Add(time.Minute)})
	require.NoError(t, err)
	fake.objects["locks/OPS/AWS.json"] = foreign

	unlock()
	assert.Contains(t, fake.objects, "locks/OPS/AWS.json")
}

// vanishingS3 rejects the first put as if another holder existed, then finds nothing to read
type vanishingS3 struct {
	*fakeS3
	conflicts int
}

func (f *vanishingS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.conflicts > 0 {
		f.conflicts--
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed"}
	}
	return f.fakeS3.PutObject(ctx, params, optFns...)
}

func TestS3LockerRetriesWhenLockVanishes(t *testing.T) {
	fake := &vanishingS3{fakeS3: newFakeS3(), conflicts: 1}
	locker := newTestLocker(fake)

	unlock, err := locker.Lock(context.Background(), "OPS/GG")
	require.NoError(t, err)
	assert.Contains(t, fake.objects, "locks/OPS/GG.json")
	unlock()
}

func TestS3LockerReadMissing(t *testing.T) {
	locker := newTestLocker(newFakeS3())

	_, err := locker.read(context.Background(), "locks/OPS/GG.json")
	require.Error(t, err)
	assert.True(t, isErrorCode(err, "NoSuchKey"))

	goErr := goerr.Unwrap(err)
	require.NotNil(t, goErr)
	assert.Equal(t, "locks/OPS/GG.json", goErr.Values()["key"])
}
