package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Transcript is the archived form of one criterion round trip.
type Transcript struct {
	ChatSessionID uuid.UUID `json:"chat_session_id"`
	RunID         uuid.UUID `json:"run_id"`
	CriterionID   int       `json:"criterion_id"`
	SystemPrompt  string    `json:"system_prompt"`
	Prompt        string    `json:"prompt"`
	Answer        string    `json:"answer"`
	RecordedAt    time.Time `json:"recorded_at"`
}

type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioStore{client: client, bucket: bucket}, nil
}

// TranscriptKey lays transcripts out per chat session, then per run.
func TranscriptKey(t Transcript) string {
	return fmt.Sprintf("%s/%s/criterion-%02d.json", t.ChatSessionID, t.RunID, t.CriterionID)
}

func (m *MinioStore) PutTranscript(ctx context.Context, t Transcript) (string, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	objectKey := TranscriptKey(t)
	_, err = m.client.PutObject(ctx, m.bucket, objectKey, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

// Ping checks the transcript bucket is reachable.
func (m *MinioStore) Ping(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}
