package media

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/client/internal/apperr"
	"marketplace/client/internal/media/validator"
	"marketplace/client/internal/models"
	"marketplace/client/internal/reactive"
)

type fakeAPI struct {
	list      []models.Media
	uploadErr error
	deleteErr error
	release   map[string]chan struct{}
	uploads   atomic.Int32
}

func (f *fakeAPI) ListMedia(_ context.Context, productID string) ([]models.Media, error) {
	out := make([]models.Media, 0, len(f.list))
	for _, m := range f.list {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeAPI) UploadMedia(_ context.Context, file models.File, productID string) (models.Media, error) {
	f.uploads.Add(1)
	if ch, ok := f.release[file.Name]; ok {
		<-ch
	}
	if f.uploadErr != nil {
		return models.Media{}, f.uploadErr
	}
	return models.Media{ID: "m-" + file.Name, ProductID: productID, ContentType: file.ContentType, OriginalFilename: file.Name, FileSize: file.Size}, nil
}

func (f *fakeAPI) DeleteMedia(context.Context, string) error {
	return f.deleteErr
}

func png(name string, size int64) models.File {
	return models.File{Name: name, ContentType: "image/png", Size: size}
}

func mediaIDs(list []models.Media) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.ID
	}
	return out
}

func TestLoadForProductSwitchesContext(t *testing.T) {
	api := &fakeAPI{list: []models.Media{
		{ID: "m1", ProductID: "p1"},
		{ID: "m2", ProductID: "p1"},
		{ID: "m3", ProductID: "p2"},
	}}
	s := New(api, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := s.LoadForProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", s.ProductID().Get())
	assert.Equal(t, []string{"m1", "m2"}, mediaIDs(s.Media().Get()))

	_, err = s.LoadForProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "p2", s.ProductID().Get())
	assert.Equal(t, []string{"m3"}, mediaIDs(s.Media().Get()))
}

func TestUploadValidatesBeforeNetwork(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, validator.Default(), zerolog.Nop())

	_, err := s.Upload(context.Background(), models.File{Name: "big.jpg", ContentType: "image/jpeg", Size: 3 << 20}, "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrFileTooLarge)

	_, err = s.Upload(context.Background(), models.File{Name: "a.txt", ContentType: "text/plain", Size: 1 << 20}, "p1")
	assert.ErrorIs(t, err, apperr.ErrUnsupportedType)

	assert.Equal(t, int32(0), api.uploads.Load())
	assert.False(t, s.Uploading().Get())
}

func TestUploadAppendsAndClearsFlag(t *testing.T) {
	api := &fakeAPI{list: []models.Media{{ID: "m1", ProductID: "p1"}}}
	s := New(api, nil, zerolog.Nop())
	ctx := context.Background()
	_, err := s.LoadForProduct(ctx, "p1")
	require.NoError(t, err)

	var flags []bool
	s.Uploading().Subscribe(func(v bool) { flags = append(flags, v) })

	m, err := s.Upload(ctx, png("cat.png", 500<<10), "p1")
	require.NoError(t, err)
	assert.Equal(t, "m-cat.png", m.ID)
	assert.Equal(t, []string{"m1", "m-cat.png"}, mediaIDs(s.Media().Get()))
	assert.Equal(t, []bool{true, false}, flags)
}

func TestUploadFailureClearsFlag(t *testing.T) {
	api := &fakeAPI{uploadErr: errors.New("bad gateway")}
	s := New(api, nil, zerolog.Nop())

	_, err := s.Upload(context.Background(), png("cat.png", 10), "p1")
	require.Error(t, err)
	assert.False(t, s.Uploading().Get())
	assert.Empty(t, s.Media().Get())
}

func TestUploadForOtherProductNotCached(t *testing.T) {
	api := &fakeAPI{list: []models.Media{{ID: "m1", ProductID: "p1"}}}
	s := New(api, nil, zerolog.Nop())
	_, err := s.LoadForProduct(context.Background(), "p1")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), png("dog.png", 10), "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, mediaIDs(s.Media().Get()))
}

func TestConcurrentUploadsBothLand(t *testing.T) {
	api := &fakeAPI{release: map[string]chan struct{}{
		"one.png": make(chan struct{}),
		"two.png": make(chan struct{}),
	}}
	s := New(api, nil, zerolog.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, name := range []string{"one.png", "two.png"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := s.Upload(ctx, png(name, 100), "p1")
			assert.NoError(t, err)
		}(name)
	}

	require.Eventually(t, func() bool { return api.uploads.Load() == 2 }, time.Second, time.Millisecond)
	assert.True(t, s.Uploading().Get())

	close(api.release["two.png"])
	require.Eventually(t, func() bool { return len(s.Media().Get()) == 1 }, time.Second, time.Millisecond)
	assert.True(t, s.Uploading().Get(), "one upload still pending")
	assert.Equal(t, []string{"m-two.png"}, mediaIDs(s.Media().Get()))

	close(api.release["one.png"])
	wg.Wait()

	assert.False(t, s.Uploading().Get())
	assert.ElementsMatch(t, []string{"m-one.png", "m-two.png"}, mediaIDs(s.Media().Get()))
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{list: []models.Media{{ID: "m1", ProductID: "p1"}, {ID: "m2", ProductID: "p1"}}}
	s := New(api, nil, zerolog.Nop())
	ctx := context.Background()
	_, err := s.LoadForProduct(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "m1"))
	assert.Equal(t, []string{"m2"}, mediaIDs(s.Media().Get()))

	api.deleteErr = errors.New("forbidden")
	require.Error(t, s.Delete(ctx, "m2"))
	assert.Equal(t, []string{"m2"}, mediaIDs(s.Media().Get()))
}

func TestReset(t *testing.T) {
	api := &fakeAPI{list: []models.Media{{ID: "m1", ProductID: "p1"}}}
	s := New(api, nil, zerolog.Nop())
	_, err := s.LoadForProduct(context.Background(), "p1")
	require.NoError(t, err)

	s.Reset()
	assert.Empty(t, s.Media().Get())
	assert.Equal(t, "", s.ProductID().Get())
}

func TestValidatePredicateAgrees(t *testing.T) {
	s := New(&fakeAPI{}, nil, zerolog.Nop())
	for _, f := range []models.File{png("ok.png", 500<<10), png("big.png", 3<<20), {Name: "x.txt", ContentType: "text/plain", Size: 10}} {
		assert.Equal(t, s.Validate(f) == nil, s.IsValid(f), f.Name)
	}
}

func TestUploadWithoutContextAdoptsProduct(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := s.Upload(ctx, png("a.png", 10), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", s.ProductID().Get())

	_, err = s.Upload(ctx, png("b.png", 10), "p2")
	require.NoError(t, err)
	assert.Equal(t, "p1", s.ProductID().Get())
	assert.Equal(t, []string{"m-a.png"}, mediaIDs(s.Media().Get()))
	for _, m := range s.Media().Get() {
		assert.Equal(t, "p1", m.ProductID)
	}
}

func TestLateUploadAfterSwitchIsDropped(t *testing.T) {
	api := &fakeAPI{
		list:    []models.Media{{ID: "m1", ProductID: "p1"}, {ID: "m9", ProductID: "p2"}},
		release: map[string]chan struct{}{"slow.png": make(chan struct{})},
	}
	s := New(api, nil, zerolog.Nop())
	ctx := context.Background()
	_, err := s.LoadForProduct(ctx, "p1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Upload(ctx, png("slow.png", 10), "p1")
		done <- err
	}()
	require.Eventually(t, func() bool { return api.uploads.Load() == 1 }, time.Second, time.Millisecond)

	_, err = s.LoadForProduct(ctx, "p2")
	require.NoError(t, err)
	close(api.release["slow.png"])
	require.NoError(t, <-done)

	assert.Equal(t, "p2", s.ProductID().Get())
	assert.Equal(t, []string{"m9"}, mediaIDs(s.Media().Get()))
	assert.False(t, s.Uploading().Get())
}

func TestSwitchPublishesProductAndMediaTogether(t *testing.T) {
	api := &fakeAPI{list: []models.Media{{ID: "m1", ProductID: "p1"}, {ID: "m9", ProductID: "p2"}}}
	s := New(api, nil, zerolog.Nop())
	ctx := context.Background()
	_, err := s.LoadForProduct(ctx, "p1")
	require.NoError(t, err)

	var seen []string
	s.Media().Subscribe(func(list []models.Media) {
		for _, m := range list {
			seen = append(seen, s.ProductID().Get()+"/"+m.ProductID)
		}
	})
	_, err = s.LoadForProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2/p2"}, seen)
}

func TestViewsAreReadOnly(t *testing.T) {
	s := New(&fakeAPI{}, nil, zerolog.Nop())
	_, writable := s.Media().(*reactive.Signal[[]models.Media])
	assert.False(t, writable)
	_, writable = s.ProductID().(*reactive.Signal[string])
	assert.False(t, writable)
}
