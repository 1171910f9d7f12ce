// Package seed fills a database with demo users, profiles, posts, connections
// and engagement. Everything that touches a counter goes through the
// repositories, so a seeded database passes the counter audit.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"linksphere/internal/middleware"
	"linksphere/internal/models"
	"linksphere/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password of every seeded account.
const DefaultPassword = "password123"

// Options controls the size and shape of a seed run.
type Options struct {
	NumUsers           int
	PostsPerUser       int
	ConnectionsPerUser int
	// EngagementPercent is the chance, 0-100, that a user likes a post they
	// did not write. Saves happen at half that rate.
	EngagementPercent int
	CommentsPerPost   int
	SkipBcrypt        bool
	// RandomSeed makes a run reproducible. Zero picks a random seed.
	RandomSeed int64
}

// DefaultOptions is a small network suitable for local development.
func DefaultOptions() Options {
	return Options{
		NumUsers:           20,
		PostsPerUser:       3,
		ConnectionsPerUser: 4,
		EngagementPercent:  30,
		CommentsPerPost:    2,
	}
}

// Result counts what a seed run created.
type Result struct {
	Users       int
	Posts       int
	Connections int
	Likes       int
	Saves       int
	Comments    int
}

// Factory builds and persists demo entities.
type Factory struct {
	db       *gorm.DB
	opts     Options
	faker    *gofakeit.Faker
	password string

	profiles    repository.ProfileRepository
	posts       repository.PostRepository
	connections repository.ConnectionRepository
	engagement  repository.EngagementRepository
	comments    repository.CommentRepository
}

func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	faker := gofakeit.New(opts.RandomSeed)

	password := DefaultPassword
	if !opts.SkipBcrypt {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		password = string(hashed)
	}

	return &Factory{
		db:          db,
		opts:        opts,
		faker:       faker,
		password:    password,
		profiles:    repository.NewProfileRepository(db),
		posts:       repository.NewPostRepository(db),
		connections: repository.NewConnectionRepository(db),
		engagement:  repository.NewEngagementRepository(db),
		comments:    repository.NewCommentRepository(db),
	}, nil
}

// CreateUser persists a user with a unique username derived from n. Overrides
// run before the insert.
func (f *Factory) CreateUser(ctx context.Context, n int, overrides ...func(*models.User)) (*models.User, error) {
	base := strings.ToLower(f.faker.Username())
	if len(base) > 40 {
		base = base[:40]
	}
	username := fmt.Sprintf("%s%d", base, n)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: f.password,
		Role:     models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}

// CreateProfile writes a generated profile for user.
func (f *Factory) CreateProfile(ctx context.Context, user *models.User) (*models.Profile, error) {
	return f.profiles.Upsert(ctx, &models.Profile{
		UserID:         user.ID,
		Headline:       truncate(fmt.Sprintf("%s at %s", f.faker.JobTitle(), f.faker.Company()), models.MaxHeadlineLength),
		About:          truncate(f.faker.Paragraph(1, 3, 10, " "), models.MaxAboutLength),
		Skills:         truncate(strings.Join([]string{f.faker.Word(), f.faker.Word(), f.faker.Word()}, ", "), models.MaxSkillsLength),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", user.Username),
		Experience:     f.faker.JobTitle(),
		Location:       f.faker.City(),
		ContactInfo:    f.faker.Phone(),
	})
}

// BuildPost returns an unsaved post by author. Roughly two in five carry an
// image.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	post := &models.Post{
		UserID:      author.ID,
		Description: truncate(f.faker.Sentence(f.faker.Number(6, 20)), models.MaxDescriptionLength),
		MediaURLs:   []string{},
		MediaTypes:  []string{},
	}
	if f.faker.Number(1, 5) <= 2 {
		post.MediaURLs = []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())}
		post.MediaTypes = []string{"image"}
	}
	return post
}

// Run seeds a full network: users with profiles, their posts, a ring of
// connections, then likes, saves and comments from other users.
func (f *Factory) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	users := make([]*models.User, 0, f.opts.NumUsers)
	for i := 0; i < f.opts.NumUsers; i++ {
		user, err := f.CreateUser(ctx, i)
		if err != nil {
			return nil, err
		}
		if _, err := f.CreateProfile(ctx, user); err != nil {
			return nil, fmt.Errorf("create profile for %s: %w", user.Username, err)
		}
		users = append(users, user)
	}
	res.Users = len(users)

	posts := make([]*models.Post, 0, len(users)*f.opts.PostsPerUser)
	for _, user := range users {
		for j := 0; j < f.opts.PostsPerUser; j++ {
			post := f.BuildPost(user)
			if err := f.posts.Create(ctx, post); err != nil {
				return nil, fmt.Errorf("create post: %w", err)
			}
			posts = append(posts, post)
		}
	}
	res.Posts = len(posts)

	for i, user := range users {
		for k := 1; k <= f.opts.ConnectionsPerUser && k < len(users); k++ {
			peer := users[(i+k)%len(users)]
			created, err := f.connections.Connect(ctx, user.ID, peer.ID)
			if err != nil {
				return nil, fmt.Errorf("connect %d and %d: %w", user.ID, peer.ID, err)
			}
			if created {
				res.Connections++
			}
		}
	}

	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID {
				continue
			}
			if f.roll(f.opts.EngagementPercent) {
				if _, err := f.engagement.Activate(ctx, models.EngagementLike, post.ID, user.ID); err != nil {
					return nil, fmt.Errorf("like post %d: %w", post.ID, err)
				}
				res.Likes++
			}
			if f.roll(f.opts.EngagementPercent / 2) {
				if _, err := f.engagement.Activate(ctx, models.EngagementSave, post.ID, user.ID); err != nil {
					return nil, fmt.Errorf("save post %d: %w", post.ID, err)
				}
				res.Saves++
			}
		}

		for c := 0; c < f.opts.CommentsPerPost && len(users) > 0; c++ {
			commenter := users[f.faker.Number(0, len(users)-1)]
			content := truncate(f.faker.Sentence(f.faker.Number(3, 12)), models.MaxCommentLength)
			if _, err := f.comments.Add(ctx, post.ID, commenter.ID, content); err != nil {
				return nil, fmt.Errorf("comment on post %d: %w", post.ID, err)
			}
			res.Comments++
		}
	}

	return res, nil
}

// Seed runs a Factory with opts against db.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	middleware.Logger.InfoContext(ctx, "seeding database",
		slog.Int("users", opts.NumUsers),
		slog.Int("posts_per_user", opts.PostsPerUser),
	)

	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	res, err := f.Run(ctx)
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "seeding completed",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("connections", res.Connections),
		slog.Int("likes", res.Likes),
		slog.Int("saves", res.Saves),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}

func (f *Factory) roll(percent int) bool {
	if percent <= 0 {
		return false
	}
	return f.faker.Number(1, 100) <= percent
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
