package flush

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	retry "github.com/sethvargo/go-retry"

	"github.com/sharedcode/scrred"
)

// S3Config mirrors the teacher's aws_s3.Config shape: enough to connect
// to a real AWS endpoint or an S3-compatible one (e.g. MinIO) for
// testing.
type S3Config struct {
	HostEndpointURL string
	Region          string
	Bucket          string
	Username        string
	Password        string
}

// NewS3Client builds an s3.Client from config, grounded on the teacher's
// aws_s3.Connect.
func NewS3Client(config S3Config) *s3.Client {
	return s3.NewFromConfig(aws.Config{Region: config.Region}, func(o *s3.Options) {
		if config.HostEndpointURL != "" {
			o.BaseEndpoint = aws.String(config.HostEndpointURL)
		}
		if config.Username != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(config.Username, config.Password, "")
		}
	})
}

// S3 is a Flush implementation that uploads a directory's files to an S3
// bucket via the s3 manager's parallel uploader.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// NewS3 returns an S3 Flush uploading to bucket via client.
func NewS3(client *s3.Client, bucket string) *S3 {
	return &S3{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
	}
}

// Start implements Flush. It walks dir and uploads every regular file
// found under a key equal to its path relative to dir, concurrently in
// a background goroutine.
func (s *S3) Start(ctx context.Context, dir string) error {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return fmt.Errorf("flush: transfer already in progress")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan error, 1)
	done := s.done
	s.mu.Unlock()

	go func() {
		done <- s.uploadDir(runCtx, dir)
	}()
	return nil
}

func (s *S3) uploadDir(ctx context.Context, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		// A retried attempt re-opens the file: the s3 manager's uploader
		// partially reads Body on a failed attempt, so a stale handle can't
		// be rewound and passed to retry's next try.
		return scrred.Retry(ctx, func(ctx context.Context) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(rel),
				Body:   f,
			})
			if err != nil && scrred.ShouldRetry(err) {
				return retry.RetryableError(err)
			}
			return err
		}, nil)
	})
}

// Test implements Flush.
func (s *S3) Test(ctx context.Context) (bool, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return true, nil
	}
	select {
	case err := <-done:
		s.clear()
		return true, err
	default:
		return false, nil
	}
}

// Wait implements Flush.
func (s *S3) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case err := <-done:
		s.clear()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop implements Flush. Called only from teardown.
func (s *S3) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return s.Wait(ctx)
}

func (s *S3) clear() {
	s.mu.Lock()
	s.done = nil
	s.cancel = nil
	s.mu.Unlock()
}
