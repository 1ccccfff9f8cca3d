// Package vault stores backup archives off-box in an S3-compatible bucket.
// Transfers go through short-lived presigned URLs.
package vault

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/cryptox"
	sc "github.com/dmitrijs2005/cargodesk/internal/server/config"
	"github.com/dmitrijs2005/cargodesk/internal/netx"
	"github.com/google/uuid"
)

// PresignExpiry is the lifetime of every presigned URL issued by the vault.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadToURL     = netx.UploadToS3PresignedURL
	downloadFromURL = netx.DownloadFromS3PresignedURL
)

type Vault struct {
	config *sc.Config
}

func New(config *sc.Config) *Vault {
	return &Vault{config: config}
}

// ArchiveKey returns the object key for an archive exported at t.
func ArchiveKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("backups/%d/%02d/%02d/%s-backup-%s-%s.zip",
		t.Year(), t.Month(), t.Day(), common.AppName, t.Format("2006-01-02"), uuid.New())
}

func (v *Vault) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(v.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			v.config.S3RootUser,
			v.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(v.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignPut returns a URL that accepts a PUT of the object at key.
func (v *Vault) PresignPut(ctx context.Context, key string) (string, error) {
	presignClient, err := v.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := v.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(netx.ArchiveContentType),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// PresignGet returns a URL that serves the object at key.
func (v *Vault) PresignGet(ctx context.Context, key string) (string, error) {
	presignClient, err := v.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := v.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Upload stores archive under a fresh key derived from exportedAt and
// returns that key. With a passphrase configured the archive is sealed
// first.
func (v *Vault) Upload(ctx context.Context, archive []byte, exportedAt time.Time) (string, error) {
	key := ArchiveKey(exportedAt)

	if v.config.VaultPassphrase != "" {
		sealed, err := cryptox.Seal(archive, []byte(v.config.VaultPassphrase))
		if err != nil {
			return "", fmt.Errorf("seal archive: %w", err)
		}
		archive = sealed
	}

	url, err := v.PresignPut(ctx, key)
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	if err := uploadToURL(ctx, url, archive); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// Download fetches the archive stored at key, refusing bodies larger than
// maxSize.
func (v *Vault) Download(ctx context.Context, key string, maxSize int64) ([]byte, error) {
	key = strings.TrimPrefix(key, "/")

	url, err := v.PresignGet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}
	data, err := downloadFromURL(ctx, url, maxSize)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}

	if !cryptox.IsSealed(data) {
		return data, nil
	}
	if v.config.VaultPassphrase == "" {
		return nil, fmt.Errorf("%s is sealed and no vault passphrase is configured", key)
	}
	plain, err := cryptox.Open(data, []byte(v.config.VaultPassphrase))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return plain, nil
}
