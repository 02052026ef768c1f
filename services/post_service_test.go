package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinpost-api/models"
	"pinpost-api/storage"
	"pinpost-api/utils"
)

// fakeStore records calls and can be told to fail. Safe for use from the
// upload goroutine.
type fakeStore struct {
	mu            sync.Mutex
	folders       []string
	uploaded      []string
	folderErr     error
	uploadErr     error
	uploadPartial int           // with uploadErr set, how many files succeed first
	gate          chan struct{} // when set, CreateFolder waits for it
}

func (f *fakeStore) CreateFolder(ctx context.Context, name string) (*storage.Folder, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.folderErr != nil {
		return nil, f.folderErr
	}
	f.folders = append(f.folders, name)
	return &storage.Folder{ID: "folder-" + name, Name: name}, nil
}

func (f *fakeStore) UploadMany(ctx context.Context, uploads []storage.Upload, folderID string) ([]*storage.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(uploads)
	if f.uploadErr != nil {
		n = f.uploadPartial
	}
	files := make([]*storage.File, 0, n)
	for i := 0; i < n; i++ {
		_, _ = io.ReadAll(uploads[i].Content)
		f.uploaded = append(f.uploaded, uploads[i].Name)
		files = append(files, &storage.File{
			ID:          fmt.Sprintf("file-%d", i),
			Name:        uploads[i].Name,
			WebViewLink: fmt.Sprintf("https://store.example/%s", uploads[i].Name),
		})
	}
	if f.uploadErr != nil {
		return files, f.uploadErr
	}
	return files, nil
}

func (f *fakeStore) Delete(ctx context.Context, fileID string) error { return nil }

func newPostFixture(t *testing.T) (*PostService, *fakeStore, *models.User, *models.Position) {
	t.Helper()
	db := newTestDB(t)
	store := &fakeStore{}
	svc := NewPostService(db, store, NewUserService(db), NewPositionService(db))
	author := seedUser(t, db, "author@example.com")
	position := seedPosition(t, db, "harbour")
	return svc, store, author, position
}

func drain(t *testing.T, svc *PostService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	svc.DrainUploads(ctx)
}

func TestPostCreateRequiresExistingAuthor(t *testing.T) {
	svc, _, _, position := newPostFixture(t)

	tx := svc.db.Begin()
	_, err := svc.Create(CreatePostInput{
		Content:    "hello",
		LocationID: position.ID,
		Visibility: models.VisibilityPublic,
		AuthorID:   uuid.NewString(),
	}, nil, tx)
	tx.Rollback()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "author not found")

	var count int64
	require.NoError(t, svc.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostCreateRequiresExistingLocation(t *testing.T) {
	svc, _, author, _ := newPostFixture(t)

	tx := svc.db.Begin()
	_, err := svc.Create(CreatePostInput{
		Content:    "hello",
		LocationID: uuid.NewString(),
		Visibility: models.VisibilityPublic,
		AuthorID:   author.ID,
	}, nil, tx)
	tx.Rollback()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "location not found")
}

func TestPostCreateRejectsUnknownVisibility(t *testing.T) {
	svc, _, author, position := newPostFixture(t)

	tx := svc.db.Begin()
	_, err := svc.Create(CreatePostInput{
		Content:    "hello",
		LocationID: position.ID,
		Visibility: "everyone",
		AuthorID:   author.ID,
	}, nil, tx)
	tx.Rollback()

	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostCreateUploadsMediaInOrder(t *testing.T) {
	svc, store, author, position := newPostFixture(t)

	files := []MediaFile{
		{Name: "sunset.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
		{Name: "clip.mp4", ContentType: "video/mp4", Data: []byte("mp4")},
	}

	tx := svc.db.Begin()
	post, err := svc.Create(CreatePostInput{
		Content:    "two files",
		LocationID: position.ID,
		Visibility: models.VisibilityPublic,
		AuthorID:   author.ID,
	}, files, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)

	drain(t, svc)

	// One remote folder, named after the post.
	require.Len(t, store.folders, 1)
	assert.Equal(t, post.ID, store.folders[0])
	assert.Equal(t, []string{"sunset.jpg", "clip.mp4"}, store.uploaded)

	var medias []models.Media
	require.NoError(t, svc.db.Where("post_id = ?", post.ID).Order("display_order ASC").Find(&medias).Error)
	require.Len(t, medias, 2)
	assert.Equal(t, models.MediaTypeImage, medias[0].Type)
	assert.Equal(t, 0, medias[0].Order)
	assert.Equal(t, models.MediaTypeVideo, medias[1].Type)
	assert.Equal(t, 1, medias[1].Order)
	assert.Equal(t, position.ID, medias[0].LocationID)
	assert.Equal(t, models.MediaOwnerPost, medias[0].OwnerType)
	assert.NotEmpty(t, medias[0].URL)
}

func TestPostCreateSkipsUnsupportedFilesKeepingOrder(t *testing.T) {
	svc, store, author, position := newPostFixture(t)

	files := []MediaFile{
		{Name: "a.png", ContentType: "image/png", Data: []byte("png")},
		{Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
		{Name: "b.webm", ContentType: "video/webm", Data: []byte("webm")},
	}

	tx := svc.db.Begin()
	post, err := svc.Create(CreatePostInput{
		Content:    "mixed batch",
		LocationID: position.ID,
		Visibility: models.VisibilityPublic,
		AuthorID:   author.ID,
	}, files, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)

	drain(t, svc)

	assert.Equal(t, []string{"a.png", "b.webm"}, store.uploaded)

	var medias []models.Media
	require.NoError(t, svc.db.Where("post_id = ?", post.ID).Order("display_order ASC").Find(&medias).Error)
	require.Len(t, medias, 2)
	// The skipped file keeps its slot: the surviving files retain their
	// original batch positions.
	assert.Equal(t, 0, medias[0].Order)
	assert.Equal(t, 2, medias[1].Order)
}

func TestPostCreateSurvivesStorageFailure(t *testing.T) {
	svc, store, author, position := newPostFixture(t)
	store.folderErr = errors.New("remote store is down")

	files := []MediaFile{
		{Name: "a.png", ContentType: "image/png", Data: []byte("png")},
	}

	tx := svc.db.Begin()
	post, err := svc.Create(CreatePostInput{
		Content:    "store is down",
		LocationID: position.ID,
		Visibility: models.VisibilityPublic,
		AuthorID:   author.ID,
	}, files, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)

	drain(t, svc)

	// The post survives, only the media batch is lost.
	var reloaded models.Post
	require.NoError(t, svc.db.First(&reloaded, "id = ?", post.ID).Error)

	var count int64
	require.NoError(t, svc.db.Model(&models.Media{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostCreateRecordsPartialUploads(t *testing.T) {
	svc, store, author, position := newPostFixture(t)
	store.uploadErr = errors.New("quota exceeded")
	store.uploadPartial = 1

	files := []MediaFile{
		{Name: "first.png", ContentType: "image/png", Data: []byte("one")},
		{Name: "second.png", ContentType: "image/png", Data: []byte("two")},
	}

	tx := svc.db.Begin()
	post, err := svc.Create(CreatePostInput{
		Content:    "partial",
		LocationID: position.ID,
		Visibility: models.VisibilityPublic,
		AuthorID:   author.ID,
	}, files, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)

	drain(t, svc)

	var medias []models.Media
	require.NoError(t, svc.db.Where("post_id = ?", post.ID).Find(&medias).Error)
	require.Len(t, medias, 1)
	assert.Equal(t, 0, medias[0].Order)
}

func TestMediaCommitDropsStaleCachedResponses(t *testing.T) {
	mr := miniredis.RunT(t)
	utils.SetRedisForTesting(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	svc, store, author, position := newPostFixture(t)
	store.gate = make(chan struct{})

	files := []MediaFile{
		{Name: "a.png", ContentType: "image/png", Data: []byte("png")},
	}

	tx := svc.db.Begin()
	post, err := svc.Create(CreatePostInput{
		Content:    "cached before media",
		LocationID: position.ID,
		Visibility: models.VisibilityPublic,
		AuthorID:   author.ID,
	}, files, tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)

	// Responses assembled while the upload is still in flight carry no media.
	utils.CacheSetBytes("cache:post:"+post.ID, []byte(`{"medias":[]}`), 0)
	utils.CacheSetBytes("cache:posts:list:page=1:limit=10", []byte(`{}`), 0)
	utils.CacheSetBytes("cache:position:"+position.ID, []byte(`{}`), 0)

	close(store.gate)
	drain(t, svc)

	assert.False(t, mr.Exists("cache:post:"+post.ID))
	assert.False(t, mr.Exists("cache:posts:list:page=1:limit=10"))
	assert.False(t, mr.Exists("cache:position:"+position.ID))
}

func TestPostGetByIDMissing(t *testing.T) {
	svc, _, _, _ := newPostFixture(t)

	_, err := svc.GetByID(uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostPagination(t *testing.T) {
	svc, _, author, position := newPostFixture(t)

	for i := 0; i < 25; i++ {
		post := models.Post{
			Content:    fmt.Sprintf("post %d", i),
			AuthorID:   author.ID,
			Visibility: models.VisibilityPublic,
			LocationID: position.ID,
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, svc.db.Create(&post).Error)
	}

	page, err := svc.GetAll(2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
	assert.Equal(t, int64(25), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPage)

	last, err := svc.GetAll(3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Data, 5)

	// Newest first.
	first, err := svc.GetAll(1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, first.Data)
	assert.Equal(t, "post 24", first.Data[0].Content)
}

func TestPostsByPositionFiltersAndPages(t *testing.T) {
	svc, _, author, position := newPostFixture(t)
	other := seedPosition(t, svc.db, "elsewhere")

	for i := 0; i < 3; i++ {
		seedPost(t, svc.db, author.ID, position.ID)
	}
	seedPost(t, svc.db, author.ID, other.ID)

	page, err := svc.GetByPositionID(position.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Data, 3)
	assert.Equal(t, int64(3), page.Pagination.Total)
	for _, p := range page.Data {
		assert.Equal(t, position.ID, p.LocationID)
	}
}
