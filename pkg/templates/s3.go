package templates

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/tooltip/internal/errors"
)

// S3API is the subset of *s3.Client used by LoadS3.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region          string
	Endpoint        string // optional, for S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	UsePathStyle    bool
}

// NewS3Client builds a client with static credentials.
//
//	client := templates.NewS3Client(templates.S3Options{
//	    Region:          "eu-west-1",
//	    AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
//	    SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
func NewS3Client(opts S3Options) *s3.Client {
	creds := aws.Credentials{
		AccessKeyID:     opts.AccessKeyID,
		SecretAccessKey: opts.SecretAccessKey,
		SessionToken:    opts.SessionToken,
		Source:          "tooltip-static",
	}
	return s3.New(s3.Options{
		Region: opts.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		)),
		BaseEndpoint: nonEmpty(opts.Endpoint),
		UsePathStyle: opts.UsePathStyle,
	})
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

// LoadS3 registers every object under prefix in bucket as a template. The
// template name is the key with the prefix and extension removed, so
// "templates/card.html" under prefix "templates/" registers "card".
func (s *Store) LoadS3(ctx context.Context, client S3API, bucket, prefix string) ([]string, error) {
	var names []string

	pages := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return names, errors.New(errors.CodeTemplateLoad).
				WithDetailf("listing s3://%s/%s", bucket, prefix).
				Wrap(err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			body, err := getObject(ctx, client, bucket, key)
			if err != nil {
				return names, errors.New(errors.CodeTemplateLoad).
					WithDetailf("reading s3://%s/%s", bucket, key).
					Wrap(err)
			}
			name := strings.TrimPrefix(key, prefix)
			name = strings.TrimSuffix(name, path.Ext(name))
			s.Register(name, body)
			names = append(names, name)
		}
	}
	return names, nil
}

func getObject(ctx context.Context, client S3API, bucket, key string) (string, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
