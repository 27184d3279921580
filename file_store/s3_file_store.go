package file_store

import (
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

// S3AudioStore uploads audio blobs into an S3 bucket. Used in production
// where local disk does not survive a redeploy.
type S3AudioStore struct {
	bucket   string
	region   string
	uploader *s3manager.Uploader
}

func NewS3AudioStore(bucket string, region string) (*S3AudioStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to create aws session")
	}

	return &S3AudioStore{
		bucket:   bucket,
		region:   region,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (s *S3AudioStore) Store(fileName string, body io.Reader) (string, error) {
	key := generateKey(fileName)

	_, err := s.uploader.Upload(&s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", errors.Wrap(err, "fail to upload audio file")
	}
	return key, nil
}

func (s *S3AudioStore) GetUrlFromKey(key string) string {
	return "https://" + s.bucket + ".s3." + s.region + ".amazonaws.com/" + key
}

// CleanUp is a no-op: the bucket outlives the process.
func (s *S3AudioStore) CleanUp() {}
