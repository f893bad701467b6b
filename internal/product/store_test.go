package product

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/client/internal/models"
	"marketplace/client/internal/reactive"
)

type fakeAPI struct {
	list     []models.Product
	listErr  error
	writeErr error
	next     models.Product
	calls    []string
	onList   func()
}

func (f *fakeAPI) ListProducts(context.Context) ([]models.Product, error) {
	f.calls = append(f.calls, "list")
	if f.onList != nil {
		f.onList()
	}
	return f.list, f.listErr
}

func (f *fakeAPI) GetProduct(_ context.Context, id string) (models.Product, error) {
	f.calls = append(f.calls, "get:"+id)
	return models.Product{ID: id, Name: "fresh"}, nil
}

func (f *fakeAPI) ListProductsByUser(_ context.Context, userID string) ([]models.Product, error) {
	f.calls = append(f.calls, "owner:"+userID)
	return []models.Product{{ID: "z", UserID: userID}}, nil
}

func (f *fakeAPI) SearchProducts(_ context.Context, name string) ([]models.Product, error) {
	f.calls = append(f.calls, "search:"+name)
	return []models.Product{{ID: "s", Name: name}}, nil
}

func (f *fakeAPI) CreateProduct(context.Context, models.ProductRequest) (models.Product, error) {
	return f.next, f.writeErr
}

func (f *fakeAPI) UpdateProduct(context.Context, string, models.ProductRequest) (models.Product, error) {
	return f.next, f.writeErr
}

func (f *fakeAPI) DeleteProduct(context.Context, string) error {
	return f.writeErr
}

func product(id, name string) models.Product {
	return models.Product{ID: id, Name: name, Price: decimal.NewFromInt(10), Quantity: 1, UserID: "u1"}
}

func seeded(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	api.list = []models.Product{product("a", "A"), product("b", "B")}
	s := New(api, zerolog.Nop())
	_, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	return s
}

func ids(list []models.Product) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestLoadAllTogglesLoading(t *testing.T) {
	api := &fakeAPI{list: []models.Product{product("a", "A")}}
	s := New(api, zerolog.Nop())

	var during bool
	api.onList = func() { during = s.Loading().Get() }
	var transitions []bool
	s.Loading().Subscribe(func(v bool) { transitions = append(transitions, v) })

	list, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.True(t, during)
	assert.False(t, s.Loading().Get())
	assert.Equal(t, []bool{true, false}, transitions)
	assert.Equal(t, []string{"a"}, ids(list))
	assert.Equal(t, []string{"a"}, ids(s.Products().Get()))
}

func TestLoadAllFailureKeepsCacheAndClearsLoading(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)
	api.listErr = errors.New("down")

	_, err := s.LoadAll(context.Background())
	require.Error(t, err)
	assert.False(t, s.Loading().Get())
	assert.Equal(t, []string{"a", "b"}, ids(s.Products().Get()))
}

func TestLoadAllDropsDuplicateIDs(t *testing.T) {
	api := &fakeAPI{list: []models.Product{product("a", "A"), product("b", "B"), product("a", "A2")}}
	s := New(api, zerolog.Nop())
	_, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	got := s.Products().Get()
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "A2", got[0].Name)
}

func TestCreateAppends(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)
	api.next = product("c", "C")

	var notified [][]string
	s.Products().Subscribe(func(v []models.Product) { notified = append(notified, ids(v)) })

	_, err := s.Create(context.Background(), models.ProductRequest{Name: "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Products().Get()))
	assert.Equal(t, [][]string{{"a", "b", "c"}}, notified)
}

func TestCreateFailureLeavesCache(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)
	api.writeErr = errors.New("rejected")

	_, err := s.Create(context.Background(), models.ProductRequest{})
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(s.Products().Get()))
}

func TestCreateExistingIDReplaces(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)
	api.next = product("b", "B2")
	_, err := s.Create(context.Background(), models.ProductRequest{})
	require.NoError(t, err)
	got := s.Products().Get()
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "B2", got[1].Name)
}

func TestUpdateInPlace(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)
	api.next = product("a", "A prime")

	_, err := s.Update(context.Background(), "a", models.ProductRequest{Name: "A prime"})
	require.NoError(t, err)
	got := s.Products().Get()
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "A prime", got[0].Name)
	assert.Equal(t, "B", got[1].Name)

	api.writeErr = errors.New("nope")
	_, err = s.Update(context.Background(), "a", models.ProductRequest{})
	require.Error(t, err)
	assert.Equal(t, "A prime", s.Products().Get()[0].Name)
}

func TestUpdateLastWriteWins(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)

	api.next = product("a", "first")
	_, err := s.Update(context.Background(), "a", models.ProductRequest{})
	require.NoError(t, err)
	api.next = product("a", "second")
	_, err = s.Update(context.Background(), "a", models.ProductRequest{})
	require.NoError(t, err)

	assert.Equal(t, "second", s.Products().Get()[0].Name)
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)
	snapshot := s.Products().Get()

	require.NoError(t, s.Delete(context.Background(), "a"))
	assert.Equal(t, []string{"b"}, ids(s.Products().Get()))
	assert.Equal(t, []string{"a", "b"}, ids(snapshot), "earlier snapshots are not mutated")

	api.writeErr = errors.New("forbidden")
	require.Error(t, s.Delete(context.Background(), "b"))
	assert.Equal(t, []string{"b"}, ids(s.Products().Get()))
}

func TestReadsDoNotTouchCache(t *testing.T) {
	api := &fakeAPI{}
	s := seeded(t, api)
	ctx := context.Background()

	p, err := s.GetOne(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "fresh", p.Name)

	_, err = s.GetByOwner(ctx, "u9")
	require.NoError(t, err)
	_, err = s.Search(ctx, "lamp")
	require.NoError(t, err)

	got := s.Products().Get()
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, []string{"list", "get:a", "owner:u9", "search:lamp"}, api.calls)
}

func TestProductsViewIsReadOnly(t *testing.T) {
	s := New(&fakeAPI{}, zerolog.Nop())
	_, writable := s.Products().(*reactive.Signal[[]models.Product])
	assert.False(t, writable)
}
