package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"voice-of-rajkot/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreatePost → insert new post
func (d *DB) CreatePost(post models.Post) error {
	_, err := d.Bun.NewInsert().Model(&post).Exec(context.Background())
	return err
}

// GetPostByID → fetch one post by its ID
func (d *DB) GetPostByID(id string) (*models.Post, error) {
	var post models.Post
	err := d.Bun.NewSelect().
		Model(&post).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost → update content fields
func (d *DB) UpdatePost(post models.Post) error {
	_, err := d.Bun.NewUpdate().
		Model(&post).
		Column("heading", "content", "tags", "updated_at").
		Where("id = ?", post.ID).
		Exec(context.Background())
	return err
}

// UpdateLikes → replace the likes list after a toggle
func (d *DB) UpdateLikes(post models.Post) error {
	_, err := d.Bun.NewUpdate().
		Model(&post).
		Column("likes").
		Where("id = ?", post.ID).
		Exec(context.Background())
	return err
}

// DeletePost → remove a post by ID
func (d *DB) DeletePost(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Post)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// ListPosts → all posts, newest first
func (d *DB) ListPosts() ([]models.Post, error) {
	var posts []models.Post
	err := d.Bun.NewSelect().
		Model(&posts).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// ListPostsByAuthor → posts by one author, newest first
func (d *DB) ListPostsByAuthor(authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := d.Bun.NewSelect().
		Model(&posts).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// IsNotFound reports whether an error is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
