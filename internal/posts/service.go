package posts

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"voice-of-rajkot/internal/models"
	"voice-of-rajkot/internal/posts/db"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotAuthor    = errors.New("post does not belong to requester")
	ErrInvalidPost  = errors.New("heading and content are required")
)

type DBLayer interface {
	CreatePost(post models.Post) error
	GetPostByID(id string) (*models.Post, error)
	UpdatePost(post models.Post) error
	UpdateLikes(post models.Post) error
	DeletePost(id string) error
	ListPosts() ([]models.Post, error)
	ListPostsByAuthor(authorID string) ([]models.Post, error)
}

type PostPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type PostService struct {
	DB        DBLayer
	Kafka     PostPublisher
	PostTopic string
}

func NewPostService(dbLayer DBLayer, kafka PostPublisher, postTopic string) *PostService {
	return &PostService{DB: dbLayer, Kafka: kafka, PostTopic: postTopic}
}

// CreatePost persists a new performer post and streams it to Kafka.
func (s *PostService) CreatePost(authorID string, req models.PostRequest) (*models.Post, error) {
	if req.Heading == "" || req.Content == "" {
		return nil, ErrInvalidPost
	}

	post := models.Post{
		ID:        uuid.NewString(),
		Heading:   req.Heading,
		Content:   req.Content,
		Tags:      req.Tags,
		AuthorID:  authorID,
		Likes:     []string{},
		CreatedAt: time.Now(),
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := s.DB.CreatePost(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if s.Kafka != nil {
		if msgBytes, err := json.Marshal(post); err == nil {
			if err := s.Kafka.Publish(s.PostTopic, post.ID, msgBytes); err != nil {
				fmt.Printf("Kafka publish error (post created): %v\n", err)
			}
		}
	}

	return &post, nil
}

func (s *PostService) GetPost(id string) (*models.Post, error) {
	post, err := s.DB.GetPostByID(id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post %s: %w", id, err)
	}
	return post, nil
}

func (s *PostService) ListPosts() ([]models.Post, error) {
	return s.DB.ListPosts()
}

func (s *PostService) ListPostsByAuthor(authorID string) ([]models.Post, error) {
	return s.DB.ListPostsByAuthor(authorID)
}

// ListPostsByTag filters in memory; tags are small JSON lists per post.
func (s *PostService) ListPostsByTag(tag string) ([]models.Post, error) {
	all, err := s.DB.ListPosts()
	if err != nil {
		return nil, err
	}
	matched := []models.Post{}
	for _, post := range all {
		for _, t := range post.Tags {
			if t == tag {
				matched = append(matched, post)
				break
			}
		}
	}
	return matched, nil
}

// UpdatePost is restricted to the author.
func (s *PostService) UpdatePost(requesterID, id string, req models.PostRequest) (*models.Post, error) {
	if req.Heading == "" || req.Content == "" {
		return nil, ErrInvalidPost
	}

	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requesterID {
		return nil, ErrNotAuthor
	}

	post.Heading = req.Heading
	post.Content = req.Content
	post.Tags = req.Tags
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.UpdatedAt = time.Now()

	if err := s.DB.UpdatePost(*post); err != nil {
		return nil, fmt.Errorf("failed to update post %s: %w", id, err)
	}
	return post, nil
}

// DeletePost is restricted to the author.
func (s *PostService) DeletePost(requesterID, id string) error {
	post, err := s.GetPost(id)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return ErrNotAuthor
	}

	if err := s.DB.DeletePost(id); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

// ToggleLike adds the requester to the likes list, or removes them if
// already present. Two consecutive calls restore the original state.
func (s *PostService) ToggleLike(requesterID, id string) (*models.Post, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}

	if post.LikedBy(requesterID) {
		likes := make([]string, 0, len(post.Likes))
		for _, uid := range post.Likes {
			if uid != requesterID {
				likes = append(likes, uid)
			}
		}
		post.Likes = likes
	} else {
		post.Likes = append(post.Likes, requesterID)
	}

	if err := s.DB.UpdateLikes(*post); err != nil {
		return nil, fmt.Errorf("failed to update likes on post %s: %w", id, err)
	}
	return post, nil
}
