package services

import (
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/photogram/backend/internal/models"
	"github.com/photogram/backend/internal/queue"
	"github.com/photogram/backend/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Story{},
		&models.StoryView{},
		&models.Notification{},
	))
	return db
}

// fakeEnqueuer stands in for the work queue; flipping fail simulates an
// unreachable broker.
type fakeEnqueuer struct {
	fail     bool
	payloads []queue.NotificationPayload
}

func (f *fakeEnqueuer) EnqueueNotification(p queue.NotificationPayload) error {
	if f.fail {
		return errors.New("queue unreachable")
	}
	f.payloads = append(f.payloads, p)
	return nil
}

// fakeBlob records deletions instead of touching disk.
type fakeBlob struct {
	failDelete bool
	deleted    []string
}

func (f *fakeBlob) Store(file *multipart.FileHeader, allowed []string, maxSize int64, folder string) (string, error) {
	return "stored.jpg", nil
}

func (f *fakeBlob) Delete(filename, folder string) error {
	if f.failDelete {
		return errors.New("blob store unavailable")
	}
	f.deleted = append(f.deleted, folder+"/"+filename)
	return nil
}

// testEnv wires every service over one in-memory database. The queue is
// down by default so notifications land in the database where tests can see
// them.
type testEnv struct {
	db            *gorm.DB
	users         repositories.UserRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	likes         repositories.LikeRepository
	follows       repositories.FollowRepository
	stories       repositories.StoryRepository
	notifications repositories.NotificationRepository

	enqueuer *fakeEnqueuer
	blob     *fakeBlob

	notifier       *Notifier
	graph          *SocialGraphService
	commentService *CommentService
	likeService    *LikeService
	storyService   *StoryService
	cleaner        *CleanupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	env := &testEnv{
		db:            db,
		users:         repositories.NewPostgresUserRepository(db),
		posts:         repositories.NewPostgresPostRepository(db),
		comments:      repositories.NewPostgresCommentRepository(db),
		likes:         repositories.NewPostgresLikeRepository(db),
		follows:       repositories.NewPostgresFollowRepository(db),
		stories:       repositories.NewPostgresStoryRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		enqueuer:      &fakeEnqueuer{fail: true},
		blob:          &fakeBlob{},
	}
	env.notifier = NewNotifier(env.enqueuer, env.notifications)
	env.graph = NewSocialGraphService(env.follows, env.users, env.notifier)
	env.commentService = NewCommentService(env.comments, env.posts, env.users, env.graph, env.notifier)
	env.likeService = NewLikeService(env.likes, env.posts, env.users, env.follows, env.graph, env.notifier)
	env.storyService = NewStoryService(env.stories, env.follows, env.graph, env.blob, 5*1024*1024, 24*time.Hour)
	env.cleaner = NewCleanupService(env.stories, env.notifications, env.blob)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", IsActive: true}
	require.NoError(t, e.users.CreateUser(user))
	require.NoError(t, e.users.CreateProfile(&models.Profile{UserID: user.ID}))
	return user
}

func (e *testEnv) createPost(t *testing.T, owner *models.User) *models.Post {
	t.Helper()
	post := &models.Post{UserID: owner.ID, Caption: "a post", Image: "img.jpg", IsPublished: true}
	require.NoError(t, e.posts.CreatePost(post, nil))
	return post
}
