package posts_test

import (
	"database/sql"
	"errors"
	"testing"

	"voice-of-rajkot/internal/models"
	"voice-of-rajkot/internal/posts"
)

// Mock implementations for testing

type MockPostDB struct {
	posts        map[string]*models.Post
	shouldFailOn string
	errorMsg     string
}

func NewMockPostDB() *MockPostDB {
	return &MockPostDB{posts: make(map[string]*models.Post)}
}

func (m *MockPostDB) CreatePost(post models.Post) error {
	if m.shouldFailOn == "CreatePost" {
		return errors.New(m.errorMsg)
	}
	m.posts[post.ID] = &post
	return nil
}

func (m *MockPostDB) GetPostByID(id string) (*models.Post, error) {
	if m.shouldFailOn == "GetPostByID" {
		return nil, errors.New(m.errorMsg)
	}
	post, exists := m.posts[id]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return post, nil
}

func (m *MockPostDB) UpdatePost(post models.Post) error {
	if m.shouldFailOn == "UpdatePost" {
		return errors.New(m.errorMsg)
	}
	stored, exists := m.posts[post.ID]
	if !exists {
		return sql.ErrNoRows
	}
	*stored = post
	return nil
}

func (m *MockPostDB) UpdateLikes(post models.Post) error {
	if m.shouldFailOn == "UpdateLikes" {
		return errors.New(m.errorMsg)
	}
	stored, exists := m.posts[post.ID]
	if !exists {
		return sql.ErrNoRows
	}
	stored.Likes = post.Likes
	return nil
}

func (m *MockPostDB) DeletePost(id string) error {
	if m.shouldFailOn == "DeletePost" {
		return errors.New(m.errorMsg)
	}
	if _, exists := m.posts[id]; !exists {
		return sql.ErrNoRows
	}
	delete(m.posts, id)
	return nil
}

func (m *MockPostDB) ListPosts() ([]models.Post, error) {
	if m.shouldFailOn == "ListPosts" {
		return nil, errors.New(m.errorMsg)
	}
	out := []models.Post{}
	for _, p := range m.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (m *MockPostDB) ListPostsByAuthor(authorID string) ([]models.Post, error) {
	if m.shouldFailOn == "ListPostsByAuthor" {
		return nil, errors.New(m.errorMsg)
	}
	out := []models.Post{}
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type MockPublisher struct {
	messages     map[string][]string
	shouldFailOn string
	errorMsg     string
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{messages: make(map[string][]string)}
}

func (m *MockPublisher) Publish(topic string, key string, value []byte) error {
	if m.shouldFailOn == "Publish" {
		return errors.New(m.errorMsg)
	}
	m.messages[topic] = append(m.messages[topic], string(value))
	return nil
}

func TestCreatePost(t *testing.T) {
	db := NewMockPostDB()
	publisher := NewMockPublisher()
	service := posts.NewPostService(db, publisher, "vor.posts.created")

	post, err := service.CreatePost("performer-1", models.PostRequest{
		Heading: "Open mic this Friday",
		Content: "Join us at The Comedy Factory, 7pm onwards.",
		Tags:    []string{"comedy", "open-mic"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if post.AuthorID != "performer-1" {
		t.Errorf("Expected author performer-1, got %s", post.AuthorID)
	}
	if post.Likes == nil || len(post.Likes) != 0 {
		t.Errorf("Expected empty non-nil likes, got %v", post.Likes)
	}
	if len(publisher.messages["vor.posts.created"]) != 1 {
		t.Errorf("Expected post streamed to Kafka, got %v", publisher.messages)
	}

	if _, err := service.CreatePost("performer-1", models.PostRequest{Heading: "", Content: "x"}); !errors.Is(err, posts.ErrInvalidPost) {
		t.Errorf("Expected ErrInvalidPost, got %v", err)
	}

	// A nil publisher must not break posting.
	quiet := posts.NewPostService(db, nil, "vor.posts.created")
	if _, err := quiet.CreatePost("performer-1", models.PostRequest{Heading: "h", Content: "c"}); err != nil {
		t.Errorf("Expected post creation without Kafka to succeed, got %v", err)
	}
}

func TestToggleLike(t *testing.T) {
	db := NewMockPostDB()
	service := posts.NewPostService(db, nil, "vor.posts.created")

	post, err := service.CreatePost("performer-1", models.PostRequest{Heading: "h", Content: "c"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	liked, err := service.ToggleLike("user-1", post.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !liked.LikedBy("user-1") || len(liked.Likes) != 1 {
		t.Errorf("Expected user-1 in likes, got %v", liked.Likes)
	}

	// Toggling again removes the like.
	unliked, err := service.ToggleLike("user-1", post.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if unliked.LikedBy("user-1") || len(unliked.Likes) != 0 {
		t.Errorf("Expected like removed, got %v", unliked.Likes)
	}

	// Likes from different users accumulate.
	_, _ = service.ToggleLike("user-1", post.ID)
	final, err := service.ToggleLike("user-2", post.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(final.Likes) != 2 {
		t.Errorf("Expected 2 likes, got %v", final.Likes)
	}

	if _, err := service.ToggleLike("user-1", "missing"); !errors.Is(err, posts.ErrPostNotFound) {
		t.Errorf("Expected ErrPostNotFound, got %v", err)
	}
}

func TestUpdateAndDeletePostAuthorOnly(t *testing.T) {
	db := NewMockPostDB()
	service := posts.NewPostService(db, nil, "vor.posts.created")

	post, err := service.CreatePost("performer-1", models.PostRequest{Heading: "h", Content: "c"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := service.UpdatePost("someone-else", post.ID, models.PostRequest{Heading: "x", Content: "y"}); !errors.Is(err, posts.ErrNotAuthor) {
		t.Errorf("Expected ErrNotAuthor, got %v", err)
	}
	if db.posts[post.ID].Heading != "h" {
		t.Error("Expected post unchanged after refused update")
	}

	updated, err := service.UpdatePost("performer-1", post.ID, models.PostRequest{Heading: "new", Content: "body"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Heading != "new" {
		t.Errorf("Expected updated heading, got %s", updated.Heading)
	}

	if err := service.DeletePost("someone-else", post.ID); !errors.Is(err, posts.ErrNotAuthor) {
		t.Errorf("Expected ErrNotAuthor, got %v", err)
	}
	if err := service.DeletePost("performer-1", post.ID); err != nil {
		t.Fatalf("Expected delete to succeed, got %v", err)
	}
	if _, exists := db.posts[post.ID]; exists {
		t.Error("Expected post removed")
	}
}

func TestListPostsByTag(t *testing.T) {
	db := NewMockPostDB()
	service := posts.NewPostService(db, nil, "vor.posts.created")

	_, _ = service.CreatePost("performer-1", models.PostRequest{Heading: "a", Content: "x", Tags: []string{"comedy"}})
	_, _ = service.CreatePost("performer-1", models.PostRequest{Heading: "b", Content: "y", Tags: []string{"comedy", "poetry"}})
	_, _ = service.CreatePost("performer-2", models.PostRequest{Heading: "c", Content: "z", Tags: []string{"music"}})

	comedy, err := service.ListPostsByTag("comedy")
	if err != nil {
		t.Fatalf("ListPostsByTag failed: %v", err)
	}
	if len(comedy) != 2 {
		t.Errorf("Expected 2 comedy posts, got %d", len(comedy))
	}

	none, err := service.ListPostsByTag("dance")
	if err != nil {
		t.Fatalf("ListPostsByTag failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no dance posts, got %d", len(none))
	}
}
