package services

import (
	"context"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/dogworld/backend/pkg/apperrors"
	awspkg "github.com/dogworld/backend/pkg/aws"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const uploadURLExpiry = 15 * time.Minute

var (
	uploadKinds = map[string]bool{"dog": true, "product": true, "post": true}

	imageContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}

	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

type PresignRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=dog product post"`
	Filename    string `json:"filename" validate:"required,max=200"`
	ContentType string `json:"contentType" validate:"required"`
}

type PresignResponse struct {
	UploadURL string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers,omitempty"`
	Key       string            `json:"key"`
	PublicURL string            `json:"publicUrl"`
	ExpiresIn int               `json:"expiresIn"`
}

// ObjectPresigner is satisfied by *aws.Presigner.
type ObjectPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (*awspkg.PresignedUpload, error)
}

type UploadService interface {
	Presign(ctx context.Context, userID primitive.ObjectID, req *PresignRequest) (*PresignResponse, error)
}

type uploadService struct {
	presigner     ObjectPresigner
	publicBaseURL string
	logger        *zap.Logger
}

// NewUploadService returns a service that rejects every request when presigner is nil.
func NewUploadService(presigner ObjectPresigner, publicBaseURL string, logger *zap.Logger) UploadService {
	return &uploadService{presigner: presigner, publicBaseURL: strings.TrimRight(publicBaseURL, "/"), logger: logger}
}

func (s *uploadService) Presign(ctx context.Context, userID primitive.ObjectID, req *PresignRequest) (*PresignResponse, error) {
	if s.presigner == nil {
		return nil, apperrors.New(http.StatusServiceUnavailable, apperrors.KindInternal, "Image uploads are not configured", nil)
	}
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if !uploadKinds[req.Kind] {
		return nil, apperrors.Validation("kind must be one of: dog, product, post")
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if !imageContentTypes[contentType] {
		return nil, apperrors.Validation("Only image files are allowed (jpeg, jpg, png, webp)")
	}

	name := unsafeFilenameChars.ReplaceAllString(path.Base(req.Filename), "_")
	key := path.Join(req.Kind, userID.Hex(), uuid.NewString()+"-"+name)

	presigned, err := s.presigner.PresignPut(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, apperrors.Internal("Failed to prepare upload", err)
	}
	s.logger.Info("Upload presigned", zap.String("key", key), zap.String("user_id", userID.Hex()))

	return &PresignResponse{
		UploadURL: presigned.URL,
		Headers:   presigned.Headers,
		Key:       key,
		PublicURL: s.publicBaseURL + "/" + key,
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}
