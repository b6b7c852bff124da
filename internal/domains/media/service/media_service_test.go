package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-gallery-backend/internal/config"
	"media-gallery-backend/internal/domains/media/model"
	"media-gallery-backend/internal/infrastructure/storage"
	"media-gallery-backend/internal/shared/mimetype"
)

// ────────────────────────────────────────────────────────────────
// In-memory fakes
// ────────────────────────────────────────────────────────────────

type fakeRepo struct {
	mu     sync.Mutex
	items  map[int64]model.MediaItem
	slugs  map[string]int64
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items: make(map[int64]model.MediaItem),
		slugs: make(map[string]int64),
	}
}

func (r *fakeRepo) Create(_ context.Context, item *model.MediaItem) (*model.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.slugs[item.Slug]; taken {
		return nil, model.ErrSlugTaken
	}

	r.nextID++
	stored := *item
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt

	r.items[stored.ID] = stored
	r.slugs[stored.Slug] = stored.ID
	return &stored, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*model.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, model.ErrMediaNotFound
	}
	return &item, nil
}

func (r *fakeRepo) GetBySlug(_ context.Context, slug string) (*model.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.slugs[slug]
	if !ok {
		return nil, model.ErrMediaNotFound
	}
	item := r.items[id]
	return &item, nil
}

func (r *fakeRepo) List(_ context.Context, filter model.ListFilter) ([]model.MediaItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []model.MediaItem
	for _, item := range r.items {
		if filter.Search == "" || strings.Contains(strings.ToLower(item.Title), strings.ToLower(filter.Search)) {
			items = append(items, item)
		}
	}
	return items, int64(len(items)), nil
}

func (r *fakeRepo) Update(_ context.Context, item *model.MediaItem) (*model.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return nil, model.ErrMediaNotFound
	}

	stored := *item
	stored.Slug = existing.Slug // slug is immutable
	stored.UpdatedAt = time.Now()
	r.items[stored.ID] = stored
	return &stored, nil
}

func (r *fakeRepo) SetThumbnail(_ context.Context, id int64, thumbKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return model.ErrMediaNotFound
	}
	item.ThumbnailKey = &thumbKey
	r.items[id] = item
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return model.ErrMediaNotFound
	}
	delete(r.slugs, item.Slug)
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) ListBlobKeys(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var keys []string
	for _, item := range r.items {
		keys = append(keys, item.BlobKey)
		if item.ThumbnailKey != nil {
			keys = append(keys, *item.ThumbnailKey)
		}
	}
	return keys, nil
}

type fakeObject struct {
	data     []byte
	modified time.Time
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]fakeObject)}
}

func (s *fakeStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = fakeObject{data: data, modified: time.Now()}
	return nil
}

func (s *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *fakeStorage) GetRange(_ context.Context, key string, start, end int64) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	if end >= int64(len(obj.data)) {
		end = int64(len(obj.data)) - 1
	}
	return io.NopCloser(bytes.NewReader(obj.data[start : end+1])), nil
}

func (s *fakeStorage) Stat(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	return int64(len(obj.data)), nil
}

func (s *fakeStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var infos []storage.ObjectInfo
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{
				Key:          key,
				Size:         int64(len(obj.data)),
				LastModified: obj.modified,
			})
		}
	}
	return infos, nil
}

func (s *fakeStorage) backdate(key string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := s.objects[key]
	obj.modified = obj.modified.Add(-d)
	s.objects[key] = obj
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func (e *fakeEnqueuer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

// ────────────────────────────────────────────────────────────────
// Test harness
// ────────────────────────────────────────────────────────────────

type harness struct {
	repo    *fakeRepo
	storage *fakeStorage
	tasks   *fakeEnqueuer
	svc     Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	repo := newFakeRepo()
	store := newFakeStorage()
	tasks := &fakeEnqueuer{}

	cfg := config.MediaConfig{
		ThumbnailMaxPx:  480,
		ThumbnailJPEGQ:  80,
		SlugMaxAttempts: 5,
		MaxUploadBytes:  10 * 1024 * 1024,
	}

	svc := NewMediaService(
		repo,
		store,
		storage.NewThumbnailer(cfg.ThumbnailMaxPx, cfg.ThumbnailJPEGQ),
		tasks,
		mimetype.ByExtension,
		cfg,
	)

	return &harness{repo: repo, storage: store, tasks: tasks, svc: svc}
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 50, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func uploadFile(name string, data []byte) UploadFile {
	return UploadFile{
		Name:   name,
		Size:   int64(len(data)),
		Reader: bytes.NewReader(data),
	}
}

// ────────────────────────────────────────────────────────────────
// Upload
// ────────────────────────────────────────────────────────────────

func TestUploadHappyPath(t *testing.T) {
	h := newHarness(t)
	data := pngBytes(t, 10, 10)

	item, err := h.svc.Upload(context.Background(),
		model.UploadRequest{Title: "Holiday Photos", Description: "beach"},
		uploadFile("beach.png", data),
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, "holiday-photos", item.Slug)
	assert.Equal(t, mimetype.TypeImage, item.MediaType)
	assert.True(t, strings.HasPrefix(item.BlobKey, "uploads/anon/beach-"))
	assert.True(t, strings.HasSuffix(item.BlobKey, ".png"))
	assert.Nil(t, item.ThumbnailKey)

	// Blob is stored.
	size, err := h.storage.Stat(context.Background(), item.BlobKey)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), size)

	// Thumbnail task enqueued post-commit.
	assert.Equal(t, 1, h.tasks.count())
}

func TestUploadOwnerNamespacesBlobPath(t *testing.T) {
	h := newHarness(t)
	owner := uuid.New()

	item, err := h.svc.Upload(context.Background(),
		model.UploadRequest{Title: "Mine"},
		uploadFile("pic.jpg", []byte("fake-jpeg")),
		&owner,
	)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(item.BlobKey, fmt.Sprintf("uploads/%s/pic-", owner)))
	require.NotNil(t, item.OwnerID)
	assert.Equal(t, owner, *item.OwnerID)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Upload(context.Background(),
		model.UploadRequest{Title: "Nasty"},
		uploadFile("malware.exe", []byte("mz")),
		nil,
	)
	require.ErrorIs(t, err, model.ErrInvalidExtension)

	// Nothing persisted, nothing stored, nothing enqueued.
	items, _, _ := h.repo.List(context.Background(), model.ListFilter{})
	assert.Empty(t, items)
	objects, _ := h.storage.List(context.Background(), "")
	assert.Empty(t, objects)
	assert.Zero(t, h.tasks.count())
}

func TestUploadRequiresTitle(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Upload(context.Background(),
		model.UploadRequest{},
		uploadFile("a.png", []byte("x")),
		nil,
	)
	assert.Error(t, err)
}

func TestUploadRequiresFile(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Upload(context.Background(),
		model.UploadRequest{Title: "No file"},
		UploadFile{},
		nil,
	)
	assert.ErrorIs(t, err, model.ErrMissingFile)
}

func TestUploadNonImageSkipsThumbnail(t *testing.T) {
	h := newHarness(t)

	item, err := h.svc.Upload(context.Background(),
		model.UploadRequest{Title: "A Song"},
		uploadFile("song.mp3", []byte("id3...")),
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, mimetype.TypeAudio, item.MediaType)
	assert.Zero(t, h.tasks.count())
}

func TestSameFilenameUploadsKeepDistinctBlobs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.svc.Upload(ctx,
		model.UploadRequest{Title: "First Track"},
		uploadFile("track.mp3", []byte("first-payload")),
		nil,
	)
	require.NoError(t, err)

	second, err := h.svc.Upload(ctx,
		model.UploadRequest{Title: "Second Track"},
		uploadFile("track.mp3", []byte("second-payload")),
		nil,
	)
	require.NoError(t, err)

	// Each item owns its blob exclusively; a shared key would make the
	// second Put overwrite the first item's content.
	require.NotEqual(t, first.BlobKey, second.BlobKey)
	assert.Equal(t, []byte("first-payload"), readBlob(t, h.storage, first.BlobKey))
	assert.Equal(t, []byte("second-payload"), readBlob(t, h.storage, second.BlobKey))
}

func TestUpdateReplacementNeverTouchesOtherItems(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	victim, err := h.svc.Upload(ctx,
		model.UploadRequest{Title: "Victim"},
		uploadFile("track.mp3", []byte("victim-payload")),
		nil,
	)
	require.NoError(t, err)

	other, err := h.svc.Upload(ctx,
		model.UploadRequest{Title: "Other"},
		uploadFile("other.mp3", []byte("other-payload")),
		nil,
	)
	require.NoError(t, err)

	// Replace the second item's file reusing the first item's filename.
	replacement := uploadFile("track.mp3", []byte("replacement-payload"))
	updated, err := h.svc.Update(ctx, other.ID, model.UpdateRequest{}, &replacement)
	require.NoError(t, err)

	require.NotEqual(t, victim.BlobKey, updated.BlobKey)
	assert.Equal(t, []byte("victim-payload"), readBlob(t, h.storage, victim.BlobKey))
	assert.Equal(t, []byte("replacement-payload"), readBlob(t, h.storage, updated.BlobKey))
}

func readBlob(t *testing.T, store *fakeStorage, key string) []byte {
	t.Helper()

	reader, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	return data
}

// ────────────────────────────────────────────────────────────────
// Slug allocation
// ────────────────────────────────────────────────────────────────

func TestSlugCollisionWalksNumericSuffixes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Report"}, uploadFile("a.png", []byte("1")), nil)
	require.NoError(t, err)
	assert.Equal(t, "report", first.Slug)

	second, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Report"}, uploadFile("b.png", []byte("2")), nil)
	require.NoError(t, err)
	assert.Equal(t, "report-2", second.Slug)

	third, err := h.svc.Upload(ctx, model.UploadRequest{Title: "report"}, uploadFile("c.png", []byte("3")), nil)
	require.NoError(t, err)
	assert.Equal(t, "report-3", third.Slug)
}

func TestSlugEmptyTitleFallsBack(t *testing.T) {
	h := newHarness(t)

	item, err := h.svc.Upload(context.Background(),
		model.UploadRequest{Title: "???"},
		uploadFile("x.png", []byte("1")),
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, "media", item.Slug)
}

func TestSlugExhaustionSurfacesConflictAndCleansBlob(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Budget is 5; occupy the base and all retry candidates.
	for _, slug := range []string{"busy", "busy-2", "busy-3", "busy-4", "busy-5"} {
		_, err := h.repo.Create(ctx, &model.MediaItem{Title: "Busy", Slug: slug, BlobKey: "uploads/anon/seed-" + slug})
		require.NoError(t, err)
	}

	_, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Busy"}, uploadFile("late.png", []byte("z")), nil)
	require.ErrorIs(t, err, model.ErrSlugExhausted)

	// The orphaned blob from the failed upload was cleaned up.
	leftovers, err := h.storage.List(ctx, "uploads/anon/late")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestConcurrentAllocationsYieldDistinctSlugs(t *testing.T) {
	h := newHarness(t)
	// Enough budget for every contender.
	cfg := config.MediaConfig{ThumbnailMaxPx: 480, ThumbnailJPEGQ: 80, SlugMaxAttempts: 64, MaxUploadBytes: 1 << 20}
	h.svc = NewMediaService(h.repo, h.storage, storage.NewThumbnailer(480, 80), h.tasks, mimetype.ByExtension, cfg)

	const n = 32
	var wg sync.WaitGroup
	slugs := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, err := h.svc.Upload(context.Background(),
				model.UploadRequest{Title: "Same Title"},
				uploadFile(fmt.Sprintf("f%d.mp3", i), []byte("data")),
				nil,
			)
			if assert.NoError(t, err) {
				slugs <- item.Slug
			}
		}(i)
	}
	wg.Wait()
	close(slugs)

	seen := make(map[string]bool)
	for slug := range slugs {
		assert.False(t, seen[slug], "duplicate slug %s", slug)
		seen[slug] = true
	}
	assert.Len(t, seen, n)
}

// ────────────────────────────────────────────────────────────────
// Thumbnail processing
// ────────────────────────────────────────────────────────────────

func TestProcessThumbnailStoresBoundedPreview(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.svc.Upload(ctx,
		model.UploadRequest{Title: "Big Picture"},
		uploadFile("big.png", pngBytes(t, 960, 600)),
		nil,
	)
	require.NoError(t, err)

	require.NoError(t, h.svc.ProcessThumbnail(ctx, item.ID))

	stored, err := h.repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ThumbnailKey)
	assert.Equal(t, model.ThumbKey(stored.BlobKey), *stored.ThumbnailKey)
	assert.True(t, strings.HasPrefix(*stored.ThumbnailKey, "uploads/anon/thumbs/big-"))
	assert.True(t, strings.HasSuffix(*stored.ThumbnailKey, ".jpg"))

	reader, err := h.storage.Get(ctx, *stored.ThumbnailKey)
	require.NoError(t, err)
	defer reader.Close()

	cfg, format, err := image.DecodeConfig(reader)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, cfg.Width, 480)
	assert.LessOrEqual(t, cfg.Height, 480)
}

func TestProcessThumbnailFailureLeavesItemIntact(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Allowed extension, but the content is not decodable.
	item, err := h.svc.Upload(ctx,
		model.UploadRequest{Title: "Broken"},
		uploadFile("broken.png", []byte("not really a png")),
		nil,
	)
	require.NoError(t, err)

	// Swallowed: reported as success so the task is not retried.
	require.NoError(t, h.svc.ProcessThumbnail(ctx, item.ID))

	stored, err := h.repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ThumbnailKey)
}

func TestProcessThumbnailSkipsNonImage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Tune"}, uploadFile("tune.ogg", []byte("OggS")), nil)
	require.NoError(t, err)

	require.NoError(t, h.svc.ProcessThumbnail(ctx, item.ID))

	stored, _ := h.repo.GetByID(ctx, item.ID)
	assert.Nil(t, stored.ThumbnailKey)
}

func TestProcessThumbnailToleratesDeletedItem(t *testing.T) {
	h := newHarness(t)
	assert.NoError(t, h.svc.ProcessThumbnail(context.Background(), 9999))
}

// ────────────────────────────────────────────────────────────────
// Update / Delete
// ────────────────────────────────────────────────────────────────

func TestUpdatePreservesSlugAndReclassifies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Mixed"}, uploadFile("photo.png", pngBytes(t, 8, 8)), nil)
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessThumbnail(ctx, item.ID))
	originalSlug := item.Slug

	// Replace the image with an audio file.
	replacement := uploadFile("voice.wav", []byte("RIFF"))
	updated, err := h.svc.Update(ctx, item.ID, model.UpdateRequest{}, &replacement)
	require.NoError(t, err)

	assert.Equal(t, originalSlug, updated.Slug)
	assert.Equal(t, mimetype.TypeAudio, updated.MediaType)
	assert.Nil(t, updated.ThumbnailKey, "stale preview must be dropped with the old file")
}

func TestUpdateTitleDoesNotChangeSlug(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Before"}, uploadFile("a.mp4", []byte("x")), nil)
	require.NoError(t, err)

	newTitle := "After Something Completely Different"
	updated, err := h.svc.Update(ctx, item.ID, model.UpdateRequest{Title: &newTitle}, nil)
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, "before", updated.Slug)
}

func TestUpdateReplacementImageEnqueuesThumbnail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Clip"}, uploadFile("clip.mp4", []byte("x")), nil)
	require.NoError(t, err)
	require.Zero(t, h.tasks.count())

	replacement := uploadFile("frame.png", pngBytes(t, 4, 4))
	updated, err := h.svc.Update(ctx, item.ID, model.UpdateRequest{}, &replacement)
	require.NoError(t, err)

	assert.Equal(t, mimetype.TypeImage, updated.MediaType)
	assert.Equal(t, 1, h.tasks.count())
}

func TestUpdateMissingItem(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Update(context.Background(), 404, model.UpdateRequest{}, nil)
	assert.ErrorIs(t, err, model.ErrMediaNotFound)
}

func TestDeleteRemovesFromLookups(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Gone Soon"}, uploadFile("g.webm", []byte("x")), nil)
	require.NoError(t, err)

	require.NoError(t, h.svc.Delete(ctx, item.ID))

	_, err = h.svc.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, model.ErrMediaNotFound)
	_, err = h.svc.GetBySlug(ctx, item.Slug)
	assert.ErrorIs(t, err, model.ErrMediaNotFound)
}

func TestDeleteMissingItemIsNotFound(t *testing.T) {
	h := newHarness(t)
	err := h.svc.Delete(context.Background(), 12345)
	assert.ErrorIs(t, err, model.ErrMediaNotFound)
}

// ────────────────────────────────────────────────────────────────
// Orphan sweep
// ────────────────────────────────────────────────────────────────

func TestSweepOrphansRemovesOnlyAgedUnreferencedObjects(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.svc.Upload(ctx, model.UploadRequest{Title: "Keeper"}, uploadFile("keep.mp3", []byte("k")), nil)
	require.NoError(t, err)

	// An orphan old enough to reclaim, and a fresh one still in flight.
	require.NoError(t, h.storage.Put(ctx, "uploads/anon/old-orphan.mp4", bytes.NewReader([]byte("o")), 1, "video/mp4"))
	h.storage.backdate("uploads/anon/old-orphan.mp4", 2*time.Hour)
	require.NoError(t, h.storage.Put(ctx, "uploads/anon/fresh-orphan.mp4", bytes.NewReader([]byte("f")), 1, "video/mp4"))

	removed, err := h.svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = h.storage.Stat(ctx, item.BlobKey)
	assert.NoError(t, err, "referenced blob must survive")
	_, err = h.storage.Stat(ctx, "uploads/anon/fresh-orphan.mp4")
	assert.NoError(t, err, "objects inside the grace period must survive")
	_, err = h.storage.Stat(ctx, "uploads/anon/old-orphan.mp4")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}
