package flush

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func Test_S3_Start_EmptyDir_CompletesWithoutUploads(t *testing.T) {
	dir := t.TempDir()
	f := NewS3(s3.New(s3.Options{Region: "us-east-1"}), "test-bucket")

	if err := f.Start(context.Background(), dir); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func Test_S3_Start_RejectsConcurrentStart(t *testing.T) {
	dir := t.TempDir()
	f := NewS3(s3.New(s3.Options{Region: "us-east-1"}), "test-bucket")

	if err := f.Start(context.Background(), dir); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := f.Start(context.Background(), dir); err == nil {
		t.Errorf("expected second Start to fail while a transfer is in progress")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = f.Wait(ctx)
}

func Test_S3_Test_NoTransferInProgress(t *testing.T) {
	f := NewS3(s3.New(s3.Options{Region: "us-east-1"}), "test-bucket")
	done, err := f.Test(context.Background())
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if !done {
		t.Errorf("expected done=true when no transfer has started")
	}
}

func Test_S3_Stop_CancelsAndWaits(t *testing.T) {
	dir := t.TempDir()
	f := NewS3(s3.New(s3.Options{Region: "us-east-1"}), "test-bucket")

	if err := f.Start(context.Background(), dir); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
