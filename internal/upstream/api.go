// Package upstream simulates a third-party user/post/comment API with
// network-like latency.
package upstream

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"k8s.io/utils/clock"
)

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type Comment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

type API interface {
	GetUser(ctx context.Context, id int) (User, error)
	GetUserPosts(ctx context.Context, userID int) ([]Post, error)
	GetComments(ctx context.Context, postID int) ([]Comment, error)
}

const (
	postsPerUser    = 5
	commentsPerPost = 3
)

// Mock отвечает сгенерированными данными после случайной задержки.
type Mock struct {
	minLatency time.Duration
	maxLatency time.Duration
	clock      clock.Clock
}

type MockOption func(*Mock)

// WithLatency sets the uniform latency range. Zero disables the delay.
func WithLatency(minLatency, maxLatency time.Duration) MockOption {
	return func(m *Mock) {
		m.minLatency = minLatency
		m.maxLatency = max(minLatency, maxLatency)
	}
}

func WithClock(clk clock.Clock) MockOption {
	return func(m *Mock) { m.clock = clk }
}

func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		minLatency: 500 * time.Millisecond,
		maxLatency: 1500 * time.Millisecond,
		clock:      clock.RealClock{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mock) GetUser(ctx context.Context, id int) (User, error) {
	if err := m.delay(ctx); err != nil {
		return User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return User{
		ID:    id,
		Name:  fmt.Sprintf("User %d", id),
		Email: fmt.Sprintf("user%d@example.com", id),
	}, nil
}

func (m *Mock) GetUserPosts(ctx context.Context, userID int) ([]Post, error) {
	if err := m.delay(ctx); err != nil {
		return nil, fmt.Errorf("get posts of user %d: %w", userID, err)
	}
	posts := make([]Post, postsPerUser)
	for i := range posts {
		posts[i] = Post{
			ID:     userID*100 + i,
			UserID: userID,
			Title:  fmt.Sprintf("Post %d by User %d", i+1, userID),
			Body:   fmt.Sprintf("Content of post %d", i+1),
		}
	}
	return posts, nil
}

func (m *Mock) GetComments(ctx context.Context, postID int) ([]Comment, error) {
	if err := m.delay(ctx); err != nil {
		return nil, fmt.Errorf("get comments of post %d: %w", postID, err)
	}
	comments := make([]Comment, commentsPerPost)
	for i := range comments {
		comments[i] = Comment{
			ID:     postID*10 + i,
			PostID: postID,
			Name:   fmt.Sprintf("Commenter %d", i+1),
			Email:  fmt.Sprintf("commenter%d@example.com", i+1),
			Body:   fmt.Sprintf("Comment %d on post %d", i+1, postID),
		}
	}
	return comments, nil
}

func (m *Mock) delay(ctx context.Context) error {
	d := m.minLatency
	if spread := m.maxLatency - m.minLatency; spread > 0 {
		d += rand.N(spread)
	}
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-m.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
