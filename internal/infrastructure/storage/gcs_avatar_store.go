package storage

import (
	"context"
	"io"
	"path"
	"strconv"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/user-management-service/pkg/helpers"
)

// AvatarStore uploads avatar images into a GCS bucket under avatars/<userID>/.
type AvatarStore struct {
	Client *gcs.Client
	Bucket string

	newName func() string
}

func NewAvatarStore(client *gcs.Client, bucket string) *AvatarStore {
	return &AvatarStore{Client: client, Bucket: bucket, newName: uuid.NewString}
}

func (s *AvatarStore) Upload(ctx context.Context, userID int64, r io.Reader, filename, contentType string) (string, error) {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, s.objectPath(userID, filename), contentType, r)
}

func (s *AvatarStore) objectPath(userID int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("avatars", strconv.FormatInt(userID, 10), s.newName()+ext)
}
