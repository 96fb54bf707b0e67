package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	imageutil "floatbook_backend/pkg/utils/image"
	"floatbook_backend/pkg/utils/validation"
)

var s3Client *s3.Client

func bucketName() string {
	if b := os.Getenv("AWS_BUCKET_NAME"); b != "" {
		return b
	}
	return "floatbook-assets"
}

func region() string {
	if r := os.Getenv("AWS_REGION"); r != "" {
		return r
	}
	return "eu-central-1"
}

func InitStorage() error {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region()),
	}

	// Static credentials when provided, otherwise the default chain.
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
	return nil
}

// UploadCompanyLogo validates and re-encodes the uploaded logo, stores it
// under logos/<companyID>/ and returns the public URL.
func UploadCompanyLogo(file *multipart.FileHeader, companyID uint) (string, error) {
	if s3Client == nil {
		return "", fmt.Errorf("storage is not initialized")
	}

	if err := validation.ValidateImage(file); err != nil {
		return "", err
	}

	buf, contentType, err := imageutil.ProcessImage(file)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("logos/%d/%s%s", companyID, uuid.New().String(), ext)

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName()),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload logo: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName(), region(), key), nil
}
