package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dogworld/backend/pkg/apperrors"
	awspkg "github.com/dogworld/backend/pkg/aws"
	"github.com/dogworld/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakePresigner struct {
	key    string
	expiry time.Duration
}

func (f *fakePresigner) PresignPut(_ context.Context, key, contentType string, expiry time.Duration) (*awspkg.PresignedUpload, error) {
	f.key, f.expiry = key, expiry
	return &awspkg.PresignedUpload{URL: "https://bucket.s3.amazonaws.com/" + key + "?sig", Headers: map[string]string{"Content-Type": contentType}}, nil
}

func TestUploadService_Presign(t *testing.T) {
	presigner := &fakePresigner{}
	svc := services.NewUploadService(presigner, "https://cdn.dogworld.test/", zap.NewNop())
	user := primitive.NewObjectID()

	resp, err := svc.Presign(context.Background(), user, &services.PresignRequest{
		Kind:        "dog",
		Filename:    "../my puppy.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "dog/"+user.Hex()+"/"))
	assert.True(t, strings.HasSuffix(resp.Key, "-my_puppy.png"))
	assert.Equal(t, "https://cdn.dogworld.test/"+resp.Key, resp.PublicURL)
	assert.Equal(t, 15*time.Minute, presigner.expiry)
	assert.Equal(t, 900, resp.ExpiresIn)
}

func TestUploadService_RejectsBadInput(t *testing.T) {
	svc := services.NewUploadService(&fakePresigner{}, "https://cdn.dogworld.test", zap.NewNop())

	_, err := svc.Presign(context.Background(), primitive.NewObjectID(), &services.PresignRequest{
		Kind: "dog", Filename: "a.gif", ContentType: "image/gif",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Presign(context.Background(), primitive.NewObjectID(), &services.PresignRequest{
		Kind: "avatar", Filename: "a.png", ContentType: "image/png",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUploadService_Unconfigured(t *testing.T) {
	svc := services.NewUploadService(nil, "", zap.NewNop())
	_, err := svc.Presign(context.Background(), primitive.NewObjectID(), &services.PresignRequest{
		Kind: "dog", Filename: "a.png", ContentType: "image/png",
	})
	require.Error(t, err)
	assert.Equal(t, 503, apperrors.From(err).Code)
}
