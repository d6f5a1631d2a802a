package gallery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
	"github.com/alexisbeaulieu97/picgrid/internal/events"
	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

const waitTimeout = 2 * time.Second

type fakeCatalog struct {
	mu      sync.Mutex
	pages   map[int][]domain.Image
	errs    map[int]error
	gates   map[int]chan struct{}
	calls   []int
	started chan int
}

func newFakeCatalog(pages map[int][]domain.Image) *fakeCatalog {
	return &fakeCatalog{
		pages:   pages,
		errs:    make(map[int]error),
		gates:   make(map[int]chan struct{}),
		started: make(chan int, 16),
	}
}

func (f *fakeCatalog) FetchPage(ctx context.Context, page, _ int) ([]domain.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	gate := f.gates[page]
	f.mu.Unlock()

	select {
	case f.started <- page:
	default:
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[page]; err != nil {
		return nil, err
	}
	out := make([]domain.Image, len(f.pages[page]))
	copy(out, f.pages[page])
	return out, nil
}

func (f *fakeCatalog) gate(page int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[page] = ch
	return ch
}

func (f *fakeCatalog) setErr(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[page] = err
}

func (f *fakeCatalog) callLog() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func (f *fakeCatalog) drainStarted() {
	for {
		select {
		case <-f.started:
		default:
			return
		}
	}
}

func waitStarted(t *testing.T, f *fakeCatalog, page int) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, page, got)
	case <-time.After(waitTimeout):
		t.Fatalf("fetch of page %d never started", page)
	}
}

type fakeFavorites struct {
	mu          sync.Mutex
	set         domain.FavoriteSet
	loadErr     error
	saveErr     error
	saves       int
	loadGate    chan struct{}
	loadStarted chan struct{}
}

func (f *fakeFavorites) Load(ctx context.Context) (domain.FavoriteSet, error) {
	f.mu.Lock()
	gate := f.loadGate
	started := f.loadStarted
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return domain.FavoriteSet{}, f.loadErr
	}
	return f.set, nil
}

func (f *fakeFavorites) Save(_ context.Context, set domain.FavoriteSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.set = set
	return nil
}

func (f *fakeFavorites) stored() domain.FavoriteSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}

func images(ids ...string) []domain.Image {
	out := make([]domain.Image, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Image{ID: domain.ImageID(id), Author: "author " + id})
	}
	return out
}

func ids(imgs []domain.Image) []string {
	out := make([]string, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, img.ID.String())
	}
	return out
}

func newController(catalog *fakeCatalog, store *fakeFavorites) *Controller {
	return New(catalog, store, Options{PageSize: 3})
}

func TestInitializeLoadsFavoritesAndFirstPage(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1", "2", "3")})
	store := &fakeFavorites{set: domain.NewFavoriteSet(images("99")...)}
	ctrl := newController(catalog, store)

	require.NoError(t, ctrl.Initialize(context.Background()))

	state := ctrl.Snapshot()
	assert.Equal(t, 1, state.Cursor)
	assert.Equal(t, []string{"1", "2", "3"}, ids(state.Collection))
	assert.True(t, state.Favorites.Has("99"))
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)
	assert.NoError(t, state.PersistErr)
	assert.Zero(t, store.saves)
}

func TestInitializeFetchFailure(t *testing.T) {
	catalog := newFakeCatalog(nil)
	catalog.setErr(1, apperrors.NewFetchError(1, 500, errors.New("boom")))
	ctrl := newController(catalog, &fakeFavorites{})

	err := ctrl.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsFetchFailure(err))

	state := ctrl.Snapshot()
	assert.Empty(t, state.Collection)
	assert.False(t, state.Loading)
	assert.True(t, apperrors.IsFetchFailure(state.Err))
}

func TestInitializeWithCorruptFavorites(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1")})
	store := &fakeFavorites{loadErr: apperrors.NewPersistenceError("favorites", "decode", errors.New("bad json"))}
	ctrl := newController(catalog, store)

	require.NoError(t, ctrl.Initialize(context.Background()))

	state := ctrl.Snapshot()
	assert.Equal(t, 0, state.Favorites.Len())
	assert.True(t, apperrors.IsPersistenceFailure(state.PersistErr))
	assert.Equal(t, []string{"1"}, ids(state.Collection))
}

func TestLoadPageMergesWithoutDuplicates(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{
		1: images("1", "2"),
		2: images("2", "3"),
	})
	ctrl := newController(catalog, &fakeFavorites{})

	require.NoError(t, ctrl.LoadPage(context.Background(), 1))
	require.NoError(t, ctrl.LoadPage(context.Background(), 2))

	assert.Equal(t, []string{"1", "2", "3"}, ids(ctrl.Snapshot().Collection))
}

func TestLoadPageOneReplacesCollection(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{
		1: images("1", "1", "2"),
		2: images("3"),
	})
	ctrl := newController(catalog, &fakeFavorites{})

	require.NoError(t, ctrl.LoadPage(context.Background(), 2))
	require.NoError(t, ctrl.LoadPage(context.Background(), 1))

	assert.Equal(t, []string{"1", "2"}, ids(ctrl.Snapshot().Collection))
}

func TestLoadPageRejectsInvalidPage(t *testing.T) {
	catalog := newFakeCatalog(nil)
	ctrl := newController(catalog, &fakeFavorites{})

	err := ctrl.LoadPage(context.Background(), 0)
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, catalog.callLog())
}

func TestLoadPageNoDuplicatesForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pages := make(map[int][]domain.Image)
	for p := 1; p <= 6; p++ {
		var pageIDs []string
		for i := 0; i < 5; i++ {
			pageIDs = append(pageIDs, fmt.Sprint(rng.Intn(12)))
		}
		pages[p] = images(pageIDs...)
	}
	catalog := newFakeCatalog(pages)
	ctrl := newController(catalog, &fakeFavorites{})

	for i := 0; i < 40; i++ {
		before := ids(ctrl.Snapshot().Collection)
		page := rng.Intn(6) + 1
		require.NoError(t, ctrl.LoadPage(context.Background(), page))

		after := ids(ctrl.Snapshot().Collection)
		seen := make(map[string]bool)
		for _, id := range after {
			require.False(t, seen[id], "duplicate id %s after page %d", id, page)
			seen[id] = true
		}
		if page != 1 {
			require.GreaterOrEqual(t, len(after), len(before))
			assert.Equal(t, before, after[:len(before)], "paging must only append")
		}
	}
}

func TestLoadMoreAdvancesCursorAndAppends(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{
		1: images("1", "2"),
		2: images("3", "4"),
		3: images("5"),
	})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))

	fetched, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, fetched)
	fetched, err = ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, fetched)

	state := ctrl.Snapshot()
	assert.Equal(t, 3, state.Cursor)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(state.Collection))
	assert.Equal(t, []int{1, 2, 3}, catalog.callLog())
}

func TestLoadMoreSuppressedByFilters(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1", "2", "3")})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))

	ctrl.SetFavoritesOnly(true)
	fetched, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, fetched)

	ctrl.SetFavoritesOnly(false)
	ctrl.SetSearchTerm("1")
	fetched, err = ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, fetched)

	assert.Equal(t, []int{1}, catalog.callLog())
	assert.Equal(t, 1, ctrl.Snapshot().Cursor)
	assert.False(t, ctrl.Snapshot().CanLoadMore())
}

func TestLoadMoreSuppressedWhileLoading(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{
		1: images("1"),
		2: images("2"),
	})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))
	catalog.drainStarted()

	gate := catalog.gate(2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ctrl.LoadMore(context.Background())
	}()
	waitStarted(t, catalog, 2)

	assert.True(t, ctrl.Snapshot().Loading)
	fetched, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, fetched)

	close(gate)
	<-done

	state := ctrl.Snapshot()
	assert.False(t, state.Loading)
	assert.Equal(t, 2, state.Cursor)
	assert.Equal(t, []int{1, 2}, catalog.callLog())
}

func TestLoadMoreFailureKeepsCursorForRetry(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{
		1: images("1", "2"),
		2: images("3"),
	})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))

	catalog.setErr(2, apperrors.NewFetchError(2, 503, errors.New("unavailable")))
	fetched, err := ctrl.LoadMore(context.Background())
	assert.True(t, fetched)
	require.Error(t, err)

	state := ctrl.Snapshot()
	assert.Equal(t, 1, state.Cursor)
	assert.Equal(t, []string{"1", "2"}, ids(state.Collection))
	assert.False(t, state.Loading)
	assert.Error(t, state.Err)

	catalog.setErr(2, nil)
	_, err = ctrl.LoadMore(context.Background())
	require.NoError(t, err)

	state = ctrl.Snapshot()
	assert.Equal(t, 2, state.Cursor)
	assert.NoError(t, state.Err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(state.Collection))
	assert.Equal(t, []int{1, 2, 2}, catalog.callLog())
}

func TestLoadMoreStopsAfterEmptyPage(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1")})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))

	fetched, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.True(t, ctrl.Snapshot().Exhausted)

	fetched, err = ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, []int{1, 2}, catalog.callLog())

	require.NoError(t, ctrl.Reset(context.Background()))
	assert.False(t, ctrl.Snapshot().Exhausted)
}

func TestResetClearsStateUntilFirstPageResolves(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{
		1: images("1", "2"),
		2: images("3"),
	})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))
	_, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	catalog.drainStarted()

	gate := catalog.gate(1)
	done := make(chan error, 1)
	go func() { done <- ctrl.Reset(context.Background()) }()
	waitStarted(t, catalog, 1)

	state := ctrl.Snapshot()
	assert.Equal(t, 1, state.Cursor)
	assert.Empty(t, state.Collection)
	assert.True(t, state.Loading)
	assert.NoError(t, state.Err)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"1", "2"}, ids(ctrl.Snapshot().Collection))
}

func TestResetDiscardsPageFetchedBeforeIt(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{
		1: images("1"),
		2: images("2"),
	})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))
	catalog.drainStarted()

	gate := catalog.gate(2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ctrl.LoadMore(context.Background())
	}()
	waitStarted(t, catalog, 2)

	require.NoError(t, ctrl.Reset(context.Background()))
	close(gate)
	<-done

	state := ctrl.Snapshot()
	assert.Equal(t, 1, state.Cursor)
	assert.Equal(t, []string{"1"}, ids(state.Collection))
	assert.False(t, state.Loading)
}

func TestToggleFavoriteTwiceRestoresSet(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1", "2", "3")})
	store := &fakeFavorites{set: domain.NewFavoriteSet(images("7")...)}
	ctrl := newController(catalog, store)
	require.NoError(t, ctrl.Initialize(context.Background()))
	original := ctrl.Snapshot().Favorites

	img := images("2")[0]
	require.NoError(t, ctrl.ToggleFavorite(context.Background(), img))
	assert.True(t, ctrl.IsFavorite("2"))
	assert.True(t, store.stored().Has("2"))

	require.NoError(t, ctrl.ToggleFavorite(context.Background(), img))
	assert.False(t, ctrl.IsFavorite("2"))
	assert.True(t, original.Equal(ctrl.Snapshot().Favorites))
	assert.True(t, original.Equal(store.stored()))
	assert.Equal(t, 2, store.saves)
}

func TestToggleFavoriteLeavesCollectionUntouched(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1", "2")})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))

	require.NoError(t, ctrl.ToggleFavorite(context.Background(), domain.Image{ID: "50", Author: "elsewhere"}))

	state := ctrl.Snapshot()
	assert.Equal(t, []string{"1", "2"}, ids(state.Collection))
	assert.True(t, state.Favorites.Has("50"))
}

func TestToggleFavoritePersistFailureIsNonFatal(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1")})
	store := &fakeFavorites{}
	ctrl := newController(catalog, store)
	require.NoError(t, ctrl.Initialize(context.Background()))

	store.mu.Lock()
	store.saveErr = apperrors.NewPersistenceError("favorites", "write", errors.New("quota exceeded"))
	store.mu.Unlock()

	err := ctrl.ToggleFavorite(context.Background(), images("1")[0])
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistenceFailure(err))

	state := ctrl.Snapshot()
	assert.True(t, state.Favorites.Has("1"))
	assert.True(t, apperrors.IsPersistenceFailure(state.PersistErr))
}

func TestToggleDuringFavoritesLoadIsReplayed(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1", "2")})
	store := &fakeFavorites{
		set:         domain.NewFavoriteSet(images("9")...),
		loadGate:    make(chan struct{}),
		loadStarted: make(chan struct{}),
	}
	ctrl := newController(catalog, store)

	done := make(chan error, 1)
	go func() { done <- ctrl.Initialize(context.Background()) }()

	select {
	case <-store.loadStarted:
	case <-time.After(waitTimeout):
		t.Fatal("favorites load never started")
	}

	require.NoError(t, ctrl.ToggleFavorite(context.Background(), images("2")[0]))
	assert.True(t, ctrl.IsFavorite("2"))
	assert.Zero(t, store.saves)

	close(store.loadGate)
	require.NoError(t, <-done)

	favorites := ctrl.Snapshot().Favorites
	assert.Equal(t, []domain.ImageID{"9", "2"}, favorites.IDs())
	assert.True(t, favorites.Equal(store.stored()))
	assert.Equal(t, 1, store.saves)
}

func TestToggleDuringFavoritesLoadKeepsStoredFavorite(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("9", "10")})
	store := &fakeFavorites{
		set:         domain.NewFavoriteSet(images("9")...),
		loadGate:    make(chan struct{}),
		loadStarted: make(chan struct{}),
	}
	ctrl := newController(catalog, store)

	done := make(chan error, 1)
	go func() { done <- ctrl.Initialize(context.Background()) }()

	select {
	case <-store.loadStarted:
	case <-time.After(waitTimeout):
		t.Fatal("favorites load never started")
	}

	// The set shown before the load completes is empty, so this is an add.
	assert.False(t, ctrl.IsFavorite("9"))
	require.NoError(t, ctrl.ToggleFavorite(context.Background(), images("9")[0]))
	assert.True(t, ctrl.IsFavorite("9"))

	close(store.loadGate)
	require.NoError(t, <-done)

	assert.True(t, ctrl.IsFavorite("9"))
	assert.True(t, store.stored().Has("9"))
	assert.Zero(t, store.saves, "nothing changed relative to the stored set")
}

func TestRepeatedTogglesDuringFavoritesLoadReplayLastIntent(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1", "2")})
	store := &fakeFavorites{
		set:         domain.NewFavoriteSet(images("1", "2")...),
		loadGate:    make(chan struct{}),
		loadStarted: make(chan struct{}),
	}
	ctrl := newController(catalog, store)

	done := make(chan error, 1)
	go func() { done <- ctrl.Initialize(context.Background()) }()
	<-store.loadStarted

	// add, remove, add for 1; add then remove for 2.
	for _, id := range []string{"1", "1", "1", "2", "2"} {
		require.NoError(t, ctrl.ToggleFavorite(context.Background(), images(id)[0]))
	}
	assert.True(t, ctrl.IsFavorite("1"))
	assert.False(t, ctrl.IsFavorite("2"))

	close(store.loadGate)
	require.NoError(t, <-done)

	assert.Equal(t, []domain.ImageID{"1"}, ctrl.Snapshot().Favorites.IDs())
	assert.Equal(t, []domain.ImageID{"1"}, store.stored().IDs())
	assert.Equal(t, 1, store.saves)
}

func TestFavoritesOnlyThenSearchScenario(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("1", "2", "3")})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))

	require.NoError(t, ctrl.ToggleFavorite(context.Background(), images("2")[0]))
	ctrl.SetFavoritesOnly(true)
	assert.Equal(t, []string{"2"}, ids(ctrl.DisplayedSequence()))

	ctrl.SetFavoritesOnly(false)
	ctrl.SetSearchTerm("1")
	assert.Equal(t, []string{"1"}, ids(ctrl.DisplayedSequence()))

	ctrl.SetSearchTerm("")
	assert.Equal(t, []string{"1", "2", "3"}, ids(ctrl.DisplayedSequence()))
	assert.Equal(t, []int{1}, catalog.callLog(), "filters never fetch")
}

func TestDisplayedSequenceMatchesSnapshot(t *testing.T) {
	catalog := newFakeCatalog(map[int][]domain.Image{1: images("10", "21", "31")})
	ctrl := newController(catalog, &fakeFavorites{})
	require.NoError(t, ctrl.Initialize(context.Background()))
	ctrl.SetSearchTerm("1")

	first := ctrl.DisplayedSequence()
	second := ctrl.DisplayedSequence()
	assert.Equal(t, first, second)
	assert.Equal(t, ctrl.Snapshot().Displayed(), first)
	assert.Equal(t, []string{"10", "21", "31"}, ids(first))

	first[0].Author = "mutated"
	assert.Equal(t, "author 10", ctrl.Snapshot().Collection[0].Author)
}

func TestSelection(t *testing.T) {
	ctrl := newController(newFakeCatalog(nil), &fakeFavorites{})

	_, ok := ctrl.Selected()
	assert.False(t, ok)

	ctrl.SelectImage(images("4")[0])
	selected, ok := ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, domain.ImageID("4"), selected.ID)
	require.NotNil(t, ctrl.Snapshot().Selected)

	ctrl.ClearSelection()
	_, ok = ctrl.Selected()
	assert.False(t, ok)
	assert.Nil(t, ctrl.Snapshot().Selected)
}

func TestSubscribeReceivesStateChanges(t *testing.T) {
	broker := events.NewBroker()
	ctrl := New(newFakeCatalog(nil), &fakeFavorites{}, Options{Broker: broker})

	sub, cancel := ctrl.Subscribe()
	defer cancel()

	ctrl.SetSearchTerm("4")

	select {
	case ev := <-sub:
		assert.Equal(t, events.TopicStateChanged, ev.Topic)
	case <-time.After(waitTimeout):
		t.Fatal("no state change published")
	}

	cancel()
	_, open := <-sub
	assert.False(t, open)
}

func TestNewControllerDefaults(t *testing.T) {
	ctrl := New(newFakeCatalog(nil), &fakeFavorites{}, Options{})

	state := ctrl.Snapshot()
	assert.Equal(t, 1, state.Cursor)
	assert.NotNil(t, state.Collection)
	assert.Empty(t, state.Displayed())
	assert.Equal(t, DefaultPageSize, ctrl.pageSize)
}
