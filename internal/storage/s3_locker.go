package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
)

const defaultPollInterval = 250 * time.Millisecond

// S3API is the subset of *s3.Client used by S3Locker
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Locker is a Locker shared by every instance that points at the same bucket.
// A lock is an object created with If-None-Match: *; a lock older than ttl is considered abandoned.
type S3Locker struct {
	client       S3API
	bucketName   string
	ttl          time.Duration
	pollInterval time.Duration
	now          func() time.Time
}

type lockRecord struct {
	Owner     string    `json:"owner"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewS3Locker creates a new S3Locker instance
func NewS3Locker(client S3API, bucketName string, ttl time.Duration) *S3Locker {
	return &S3Locker{
		client:       client,
		bucketName:   bucketName,
		ttl:          ttl,
		pollInterval: defaultPollInterval,
		now:          time.Now,
	}
}

// Lock polls until the lock object for key can be created or ctx is done
func (s *S3Locker) Lock(ctx context.Context, key string) (func(), error) {
	objectKey := s.getKey(key)
	owner := uuid.NewString()

	for {
		acquired, err := s.tryAcquire(ctx, objectKey, owner)
		if err != nil {
			return nil, err
		}
		if acquired {
			return func() { s.release(objectKey, owner) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "failed to acquire component lock",
				goerr.T(model.TagLockTimeout),
				goerr.V("key", objectKey))
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *S3Locker) tryAcquire(ctx context.Context, objectKey, owner string) (bool, error) {
	data, err := json.Marshal(lockRecord{Owner: owner, ExpiresAt: s.now().Add(s.ttl)})
	if err != nil {
		return false, goerr.Wrap(err, "failed to marshal lock record")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		IfNoneMatch: aws.String("*"),
	})
	if err == nil {
		return true, nil
	}
	if !isErrorCode(err, "PreconditionFailed", "ConditionalRequestConflict") {
		return false, goerr.Wrap(err, "failed to store lock in S3", goerr.V("key", objectKey))
	}

	// held by someone else; break it when it has expired
	current, err := s.read(ctx, objectKey)
	if err != nil {
		if isErrorCode(err, "NoSuchKey") {
			return false, nil
		}
		return false, err
	}
	if s.now().Before(current.ExpiresAt) {
		return false, nil
	}

	logger.GetLogger().Warn("breaking expired component lock",
		zap.String("key", objectKey),
		zap.String("owner", current.Owner),
		zap.Time("expires_at", current.ExpiresAt))
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}); err != nil {
		return false, goerr.Wrap(err, "failed to delete expired lock", goerr.V("key", objectKey))
	}
	return false, nil
}

func (s *S3Locker) read(ctx context.Context, objectKey string) (*lockRecord, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get lock from S3", goerr.V("key", objectKey))
	}
	defer result.Body.Close()

	var record lockRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode lock record", goerr.V("key", objectKey))
	}
	return &record, nil
}

// release deletes the lock unless it was broken and taken over in the meantime
func (s *S3Locker) release(objectKey, owner string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	current, err := s.read(ctx, objectKey)
	if err != nil {
		logger.GetLogger().Warn("failed to read lock on release", zap.String("key", objectKey), zap.Error(err))
		return
	}
	if current.Owner != owner {
		logger.GetLogger().Warn("lock taken over before release", zap.String("key", objectKey))
		return
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}); err != nil {
		logger.GetLogger().Error("failed to release lock", zap.String("key", objectKey), zap.Error(err))
	}
}

// getKey generates the S3 key for a lock
func (s *S3Locker) getKey(key string) string {
	return fmt.Sprintf("locks/%s.json", key)
}

func isErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
