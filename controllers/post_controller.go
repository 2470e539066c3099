package controllers

import (
	"net/http"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

type PostController struct {
	postService services.PostService
}

func NewPostController(postService services.PostService) *PostController {
	return &PostController{postService: postService}
}

// ListPosts handles GET /api/posts?page&limit&sort.
func (pc *PostController) ListPosts(c *gin.Context) {
	page, limit := parsePaginationParams(c, services.DefaultPostLimit, services.MaxPostLimit)
	result, err := pc.postService.List(c.Request.Context(), page, limit, c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (pc *PostController) CreatePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := pc.postService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

func (pc *PostController) ToggleLike(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := pc.postService.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (pc *PostController) Comment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := pc.postService.Comment(c.Request.Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added", "comment": comment})
}

func (pc *PostController) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	posts, err := pc.postService.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := pc.postService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
