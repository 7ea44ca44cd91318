package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/BuzzLyutic/todo-api/internal/upstream"
	"github.com/BuzzLyutic/todo-api/internal/worker"
)

const (
	DefaultBatchCount = 5
	MaxBatchCount     = 20

	userDataParallelRequests = 3

	OpUserData = "Failed to fetch external data"
	OpBatch    = "Failed to fetch batch data"
)

type UserData struct {
	User              upstream.User      `json:"user"`
	Posts             []upstream.Post    `json:"posts"`
	FirstPostComments []upstream.Comment `json:"firstPostComments"`
}

type UserDataMeta struct {
	FetchTime          string `json:"fetchTime"`
	ParallelRequests   int    `json:"parallelRequests"`
	SequentialRequests int    `json:"sequentialRequests"`
}

type UserDataResult struct {
	Data UserData     `json:"data"`
	Meta UserDataMeta `json:"meta"`
}

type UserPostCount struct {
	UserID    int `json:"userId"`
	PostCount int `json:"postCount"`
}

type BatchData struct {
	Users       []upstream.User `json:"users"`
	PostsCount  int             `json:"postsCount"`
	PostsByUser []UserPostCount `json:"postsByUser"`
}

type BatchMeta struct {
	TotalRequests int    `json:"totalRequests"`
	FetchTime     string `json:"fetchTime"`
	Efficiency    string `json:"efficiency"`
}

type BatchResult struct {
	Data BatchData `json:"data"`
	Meta BatchMeta `json:"meta"`
}

// ExternalService собирает данные из upstream API в две параллельные стадии.
type ExternalService struct {
	api     upstream.API
	pool    *worker.Pool
	clock   clock.PassiveClock
	logger  *zap.Logger
	metrics MetricsCollector
}

type ExternalOption func(*ExternalService)

func WithClock(clk clock.PassiveClock) ExternalOption {
	return func(s *ExternalService) { s.clock = clk }
}

func WithMetrics(m MetricsCollector) ExternalOption {
	return func(s *ExternalService) { s.metrics = m }
}

func NewExternalService(api upstream.API, pool *worker.Pool, logger *zap.Logger, opts ...ExternalOption) *ExternalService {
	s := &ExternalService{
		api:     api,
		pool:    pool,
		clock:   clock.RealClock{},
		logger:  logger,
		metrics: disabledMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseUserID accepts only integer IDs.
func ParseUserID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalidInput("Invalid user ID")
	}
	return id, nil
}

// ParseBatchCount falls back to DefaultBatchCount for unparsable or zero
// input and rejects negative counts and counts above MaxBatchCount.
func ParseBatchCount(raw string) (int, error) {
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count == 0 {
		count = DefaultBatchCount
	}
	if count < 0 {
		return 0, invalidInput("Count must be a positive integer")
	}
	if count > MaxBatchCount {
		return 0, invalidInput(fmt.Sprintf("Maximum %d requests allowed", MaxBatchCount))
	}
	return count, nil
}

// UserData fetches a user, their posts and a details record in parallel,
// then the comments of the first post if there is one.
func (s *ExternalService) UserData(ctx context.Context, rawUserID string) (UserDataResult, error) {
	userID, err := ParseUserID(rawUserID)
	if err != nil {
		return UserDataResult{}, err
	}

	start := s.clock.Now()
	res, err := s.fetchUserData(ctx, userID)
	elapsed := s.clock.Since(start)
	s.metrics.ObserveFetch("user_data", elapsed, err)

	if err != nil {
		s.logger.Warn("external fetch failed", zap.Int("user_id", userID), zap.Duration("took", elapsed), zap.Error(err))
		return UserDataResult{}, &UpstreamError{Op: OpUserData, Err: err}
	}

	res.Meta.FetchTime = formatFetchTime(elapsed.Milliseconds())
	s.logger.Info("external user data fetched",
		zap.Int("user_id", userID),
		zap.Duration("took", elapsed),
		zap.Int("sequential_requests", res.Meta.SequentialRequests),
	)
	return res, nil
}

func (s *ExternalService) fetchUserData(ctx context.Context, userID int) (UserDataResult, error) {
	var (
		user  upstream.User
		posts []upstream.Post
	)

	stageA := s.pool.Group(ctx, "user-data")
	stageA.Spawn("user", func(ctx context.Context) (err error) {
		user, err = s.api.GetUser(ctx, userID)
		return err
	})
	stageA.Spawn("posts", func(ctx context.Context) (err error) {
		posts, err = s.api.GetUserPosts(ctx, userID)
		return err
	})
	stageA.Spawn("details", func(ctx context.Context) error {
		_, err := s.api.GetUser(ctx, userID)
		return err
	})
	if err := stageA.Wait(); err != nil {
		return UserDataResult{}, err
	}

	comments := []upstream.Comment{}
	sequential := 0
	if len(posts) > 0 {
		var err error
		comments, err = s.api.GetComments(ctx, posts[0].ID)
		if err != nil {
			return UserDataResult{}, fmt.Errorf("comments: %w", err)
		}
		sequential = 1
	}

	return UserDataResult{
		Data: UserData{
			User:              user,
			Posts:             posts,
			FirstPostComments: comments,
		},
		Meta: UserDataMeta{
			ParallelRequests:   userDataParallelRequests,
			SequentialRequests: sequential,
		},
	}, nil
}

// Batch fetches count users in parallel, then each user's posts in parallel.
func (s *ExternalService) Batch(ctx context.Context, rawCount string) (BatchResult, error) {
	count, err := ParseBatchCount(rawCount)
	if err != nil {
		return BatchResult{}, err
	}

	start := s.clock.Now()
	res, err := s.fetchBatch(ctx, count)
	elapsed := s.clock.Since(start)
	s.metrics.ObserveFetch("batch", elapsed, err)

	if err != nil {
		s.logger.Warn("external batch failed", zap.Int("count", count), zap.Duration("took", elapsed), zap.Error(err))
		return BatchResult{}, &UpstreamError{Op: OpBatch, Err: err}
	}

	res.Meta.FetchTime = formatFetchTime(elapsed.Milliseconds())
	s.logger.Info("external batch fetched",
		zap.Int("count", count),
		zap.Int("posts", res.Data.PostsCount),
		zap.Duration("took", elapsed),
	)
	return res, nil
}

func (s *ExternalService) fetchBatch(ctx context.Context, count int) (BatchResult, error) {
	users, err := worker.Gather(ctx, s.pool, "users", count, func(ctx context.Context, i int) (upstream.User, error) {
		return s.api.GetUser(ctx, i+1)
	})
	if err != nil {
		return BatchResult{}, err
	}

	allPosts, err := worker.Gather(ctx, s.pool, "posts", len(users), func(ctx context.Context, i int) ([]upstream.Post, error) {
		return s.api.GetUserPosts(ctx, users[i].ID)
	})
	if err != nil {
		return BatchResult{}, err
	}

	data := BatchData{
		Users:       users,
		PostsByUser: make([]UserPostCount, len(users)),
	}
	for i, posts := range allPosts {
		data.PostsCount += len(posts)
		data.PostsByUser[i] = UserPostCount{UserID: users[i].ID, PostCount: len(posts)}
	}

	return BatchResult{
		Data: data,
		Meta: BatchMeta{
			TotalRequests: count * 2,
			Efficiency:    "Parallel fan-out per stage",
		},
	}, nil
}

func formatFetchTime(ms int64) string {
	return strconv.FormatInt(ms, 10) + "ms"
}
