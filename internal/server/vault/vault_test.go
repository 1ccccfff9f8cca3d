package vault

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/cargodesk/internal/cryptox"
	sc "github.com/dmitrijs2005/cargodesk/internal/server/config"
)

func newVault() *Vault {
	return New(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "backups",
	})
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	origUp, origDown := uploadToURL, downloadFromURL
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNewS3, origNewPre
		presignPutObject, presignGetObject = origPut, origGet
		uploadToURL, downloadFromURL = origUp, origDown
	})
}

func stubClients(t *testing.T) {
	t.Helper()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func Test_getPresignClient_SuccessAndError(t *testing.T) {
	restoreSeams(t)
	v := newVault()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		if c == nil {
			t.Fatalf("nil client passed to presign")
		}
		return &s3.PresignClient{}
	}

	pc, err := v.getPresignClient(context.Background())
	if err != nil || pc == nil {
		t.Fatalf("getPresignClient = %v, %v", pc, err)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("BaseEndpoint not applied: %v", opts.BaseEndpoint)
	}
	if !opts.UsePathStyle {
		t.Fatalf("path-style addressing expected for S3-compatible endpoints")
	}

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	if _, err := v.getPresignClient(context.Background()); err == nil || err.Error() != "load-fail" {
		t.Fatalf("expected load-fail, got %v", err)
	}
}

func TestPresignPutAndGet(t *testing.T) {
	restoreSeams(t)
	stubClients(t)
	v := newVault()

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if *in.Bucket != "backups" || *in.Key != "k1" {
			t.Fatalf("unexpected input: %s/%s", *in.Bucket, *in.Key)
		}
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		if po.Expires != PresignExpiry {
			t.Fatalf("expires = %v", po.Expires)
		}
		return &v4.PresignedHTTPRequest{URL: "http://put/k1"}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://get/" + *in.Key}, nil
	}

	put, err := v.PresignPut(context.Background(), "k1")
	if err != nil || put != "http://put/k1" {
		t.Fatalf("PresignPut = %q, %v", put, err)
	}
	get, err := v.PresignGet(context.Background(), "k2")
	if err != nil || get != "http://get/k2" {
		t.Fatalf("PresignGet = %q, %v", get, err)
	}
}

func TestUpload(t *testing.T) {
	restoreSeams(t)
	stubClients(t)
	v := newVault()

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://minio/backups/" + url.PathEscape(*in.Key)}, nil
	}

	var gotURL string
	var gotBody []byte
	uploadToURL = func(ctx context.Context, u string, data []byte) error {
		gotURL, gotBody = u, data
		return nil
	}

	at := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	key, err := v.Upload(context.Background(), []byte("zip"), at)
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if !regexp.MustCompile(`^backups/2025/03/09/cargodesk-backup-2025-03-09-[0-9a-f-]{36}\.zip$`).MatchString(key) {
		t.Fatalf("unexpected key %q", key)
	}
	if !strings.HasPrefix(gotURL, "http://minio/backups/") || string(gotBody) != "zip" {
		t.Fatalf("unexpected upload %q %q", gotURL, gotBody)
	}

	uploadToURL = func(ctx context.Context, u string, data []byte) error { return errors.New("403") }
	if _, err := v.Upload(context.Background(), []byte("zip"), at); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestDownload(t *testing.T) {
	restoreSeams(t)
	stubClients(t)
	v := newVault()

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if *in.Key != "backups/a.zip" {
			t.Fatalf("leading slash must be trimmed, got %q", *in.Key)
		}
		return &v4.PresignedHTTPRequest{URL: "http://get"}, nil
	}
	downloadFromURL = func(ctx context.Context, u string, limit int64) ([]byte, error) {
		if limit != 10 {
			t.Fatalf("limit = %d", limit)
		}
		return []byte("zip"), nil
	}

	data, err := v.Download(context.Background(), "/backups/a.zip", 10)
	if err != nil || string(data) != "zip" {
		t.Fatalf("Download = %q, %v", data, err)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-fail")
	}
	if _, err := v.Download(context.Background(), "k", 10); err == nil || !strings.Contains(err.Error(), "presign-fail") {
		t.Fatalf("expected presign-fail, got %v", err)
	}
}

func TestUploadDownload_Sealed(t *testing.T) {
	restoreSeams(t)
	stubClients(t)
	v := newVault()
	v.config.VaultPassphrase = "vault-pass"

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://put"}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://get"}, nil
	}

	var stored []byte
	uploadToURL = func(ctx context.Context, u string, data []byte) error {
		stored = data
		return nil
	}
	downloadFromURL = func(ctx context.Context, u string, limit int64) ([]byte, error) {
		return stored, nil
	}

	_, err := v.Upload(context.Background(), []byte("PK-archive"), time.Now())
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if !cryptox.IsSealed(stored) {
		t.Fatal("archive should be sealed before upload")
	}

	got, err := v.Download(context.Background(), "k", 1<<20)
	if err != nil || string(got) != "PK-archive" {
		t.Fatalf("Download = %q, %v", got, err)
	}

	v.config.VaultPassphrase = ""
	if _, err := v.Download(context.Background(), "k", 1<<20); err == nil {
		t.Fatal("sealed archive without passphrase must fail")
	}

	v.config.VaultPassphrase = "other"
	if _, err := v.Download(context.Background(), "k", 1<<20); !errors.Is(err, cryptox.ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}
}
