package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Post struct {
	ID          primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	PostID      string               `json:"postId" bson:"postId"`
	UserID      primitive.ObjectID   `json:"userId" bson:"userId"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Images      []string             `json:"images" bson:"images"`
	DogBreed    string               `json:"dogBreed,omitempty" bson:"dogBreed,omitempty"`
	DogAge      string               `json:"dogAge,omitempty" bson:"dogAge,omitempty"`
	Tags        []string             `json:"tags" bson:"tags"`
	Likes       []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments    []Comment            `json:"comments" bson:"comments"`
	IsActive    bool                 `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
}

// CreatePostRequest accepts tags either as a JSON list or a comma separated string.
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Images      []string `json:"images"`
	DogBreed    string   `json:"dogBreed"`
	DogAge      string   `json:"dogAge"`
	Tags        TagList  `json:"tags"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// Post feed sort keys.
const (
	PostSortNewest  = "newest"
	PostSortOldest  = "oldest"
	PostSortPopular = "popular"
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type PostPage struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}
