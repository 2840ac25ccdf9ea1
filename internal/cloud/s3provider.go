package cloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
)

// Object keys inside the bucket. The sync blob lives under a fixed key so
// every upload atomically replaces the previous one; backups get one key
// each with the timestamp encoded in the name.
const (
	dataObjectKey   = "daybook/data"
	backupKeyPrefix = "daybook/backups/"

	// backupStampLayout orders lexicographically, so the key itself sorts
	// by time.
	backupStampLayout = "20060102T150405.000000000"
)

// S3Config holds the object storage settings. BaseEndpoint is for
// S3-compatible backends such as MinIO; leave it empty for AWS proper.
type S3Config struct {
	Region       string
	Bucket       string
	BaseEndpoint string
	RootUser     string
	RootPassword string
}

// s3API is the slice of the S3 client the provider calls, split out so
// tests can substitute a fake.
type s3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Provider stores the sync blob and backups as objects in one bucket.
// There is no account to sign in to beyond the bucket credentials, so
// SignIn verifies the bucket is reachable with them.
type S3Provider struct {
	cfg    S3Config
	log    logging.Logger
	client s3API
	authed bool
}

var _ Provider = (*S3Provider)(nil)

func NewS3Provider(cfg S3Config, log logging.Logger) *S3Provider {
	return &S3Provider{cfg: cfg, log: log}
}

// Initialize builds the S3 client from static credentials and the optional
// endpoint override.
func (p *S3Provider) Initialize(ctx context.Context) error {
	if p.cfg.Bucket == "" {
		return fmt.Errorf("s3 bucket is not configured")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(p.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.cfg.RootUser,
			p.cfg.RootPassword,
			"",
		)))
	if err != nil {
		return fmt.Errorf("failed to load aws config: %w", err)
	}

	p.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return nil
}

// SignIn checks the bucket is reachable with the configured credentials.
func (p *S3Provider) SignIn(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("s3 provider is not initialized")
	}
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.cfg.Bucket)})
	if err != nil {
		return fmt.Errorf("%w: bucket %q is not accessible: %v", common.ErrorUnauthorized, p.cfg.Bucket, err)
	}
	p.authed = true
	return nil
}

func (p *S3Provider) SignOut(ctx context.Context) error {
	p.authed = false
	return nil
}

func (p *S3Provider) IsAuthenticated() bool {
	return p.authed
}

func (p *S3Provider) SaveData(ctx context.Context, data []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(dataObjectKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to put sync object: %w", err)
	}
	return nil
}

func (p *S3Provider) LoadData(ctx context.Context) ([]byte, error) {
	data, err := p.getObject(ctx, dataObjectKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (p *S3Provider) SaveBackup(ctx context.Context, data []byte, ts time.Time) error {
	key := backupKeyPrefix + ts.UTC().Format(backupStampLayout) + "-" + uuid.NewString()
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to put backup object: %w", err)
	}
	return nil
}

func (p *S3Provider) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	var out []BackupInfo

	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(p.cfg.Bucket),
		Prefix: aws.String(backupKeyPrefix),
	}
	for {
		page, err := p.client.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			ts, ok := backupStampFromKey(key)
			if !ok {
				continue
			}
			info := BackupInfo{ID: key, Timestamp: ts}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			out = append(out, info)
		}
		if page.IsTruncated == nil || !*page.IsTruncated {
			break
		}
		in.ContinuationToken = page.NextContinuationToken
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (p *S3Provider) LoadBackup(ctx context.Context, id string) ([]byte, error) {
	if !strings.HasPrefix(id, backupKeyPrefix) {
		return nil, common.ErrBackupNotFound
	}
	data, err := p.getObject(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrBackupNotFound
	}
	return data, err
}

func (p *S3Provider) DeleteBackup(ctx context.Context, id string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	return nil
}

func (p *S3Provider) CleanupOldBackups(ctx context.Context, maxCount int) error {
	list, err := p.ListBackups(ctx)
	if err != nil {
		return err
	}
	if len(list) <= maxCount {
		return nil
	}
	for _, b := range list[maxCount:] {
		if err := p.DeleteBackup(ctx, b.ID); err != nil {
			return err
		}
		p.log.Debug(ctx, "pruned old backup", "id", b.ID)
	}
	return nil
}

func (p *S3Provider) getObject(ctx context.Context, key string) ([]byte, error) {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get object %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}
	return data, nil
}

// backupStampFromKey recovers the timestamp encoded in a backup key.
func backupStampFromKey(key string) (time.Time, bool) {
	name := path.Base(key)
	if len(name) < len(backupStampLayout) {
		return time.Time{}, false
	}
	ts, err := time.Parse(backupStampLayout, name[:len(backupStampLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
