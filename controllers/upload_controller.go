package controllers

import (
	"net/http"

	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

// UploadController hands out presigned S3 URLs for direct image uploads.
type UploadController struct {
	uploadService services.UploadService
}

func NewUploadController(uploadService services.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// Presign handles POST /api/uploads/presign.
func (uc *UploadController) Presign(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req services.PresignRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := uc.uploadService.Presign(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
