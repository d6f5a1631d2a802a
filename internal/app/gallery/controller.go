// Package gallery coordinates the catalog client and the favorites store and
// owns the gallery state rendered by the view layer.
package gallery

import (
	"context"
	"slices"
	"sync"

	domain "github.com/alexisbeaulieu97/picgrid/internal/domain/gallery"
	"github.com/alexisbeaulieu97/picgrid/internal/events"
	"github.com/alexisbeaulieu97/picgrid/internal/logger"
	"github.com/alexisbeaulieu97/picgrid/internal/ports"
	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

// DefaultPageSize matches the catalog's default page length.
const DefaultPageSize = 30

// Options configures a Controller.
type Options struct {
	PageSize int
	Logger   *logger.Logger
	Broker   *events.Broker
}

// Controller owns the gallery state. All methods are safe for concurrent use;
// state is only mutated under mu and never across a catalog or storage call.
type Controller struct {
	catalog  ports.CatalogClient
	store    ports.FavoritesStore
	pageSize int
	log      *logger.Logger
	broker   *events.Broker

	mu               sync.Mutex
	cursor           int
	collection       []domain.Image
	favorites        domain.FavoriteSet
	favoritesLoading bool
	pendingToggles   []pendingToggle
	searchTerm       string
	favoritesOnly    bool
	inflight         int
	exhausted        bool
	err              error
	persistErr       error
	selected         *domain.Image
	generation       uint64
	revision         uint64

	// saveMu orders favorites writes so the last save carries the latest set.
	saveMu sync.Mutex
}

// pendingToggle is a toggle made before the stored favorites arrived. It
// records the membership the user saw after toggling, not the flip itself.
type pendingToggle struct {
	image    domain.Image
	favorite bool
}

// New creates a Controller with cursor 1 and empty state.
func New(catalog ports.CatalogClient, store ports.FavoritesStore, opts Options) *Controller {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	broker := opts.Broker
	if broker == nil {
		broker = events.NewBroker()
	}

	return &Controller{
		catalog:  catalog,
		store:    store,
		pageSize: pageSize,
		log:      log.WithComponent("gallery"),
		broker:   broker,
		cursor:   1,
	}
}

// Initialize resets paging and loads favorites and page 1 concurrently. The
// returned error is the page 1 failure, if any; a favorites load failure is
// recorded in State.PersistErr.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.cursor = 1
	c.collection = nil
	c.err = nil
	c.exhausted = false
	c.inflight++
	c.favoritesLoading = true
	c.mu.Unlock()
	c.publish()

	var (
		wg      sync.WaitGroup
		pageErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = c.LoadFavorites(ctx)
	}()
	go func() {
		defer wg.Done()
		pageErr = c.fetchPage(ctx, gen, 1, false)
	}()
	wg.Wait()

	return pageErr
}

// LoadFavorites replaces the favorites set with the stored one. Toggles made
// while the load was in flight are reapplied as the membership the user chose,
// and the result is persisted when it differs from the stored set.
func (c *Controller) LoadFavorites(ctx context.Context) error {
	c.mu.Lock()
	c.favoritesLoading = true
	c.mu.Unlock()

	stored, err := c.store.Load(ctx)
	if err != nil {
		c.log.WithContext(ctx).Warn(err, "failed to load favorites")
	}

	c.mu.Lock()
	replay := c.pendingToggles
	c.pendingToggles = nil
	set := stored
	for _, pending := range replay {
		set = domain.SetMembership(set, pending.image, pending.favorite)
	}
	c.favorites = set
	c.favoritesLoading = false
	c.persistErr = err
	c.mu.Unlock()

	if len(replay) > 0 && !set.Equal(stored) {
		_ = c.persist(ctx)
	}
	c.publish()
	return err
}

// LoadPage fetches page n. Page 1 replaces the collection; later pages append
// images whose IDs are not already present.
func (c *Controller) LoadPage(ctx context.Context, n int) error {
	if n < 1 {
		return apperrors.NewValidationError("page", "must be at least 1", nil)
	}

	c.mu.Lock()
	gen := c.generation
	c.inflight++
	c.mu.Unlock()
	c.publish()

	return c.fetchPage(ctx, gen, n, false)
}

// LoadMore advances the cursor and fetches the next page. It reports false
// without fetching while a fetch is outstanding, while a view filter is
// active, or once the catalog returned an empty page.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.inflight > 0 || c.favoritesOnly || c.searchTerm != "" || c.exhausted {
		c.mu.Unlock()
		return false, nil
	}
	c.cursor++
	page := c.cursor
	gen := c.generation
	c.inflight++
	c.mu.Unlock()
	c.publish()

	return true, c.fetchPage(ctx, gen, page, true)
}

// Reset returns to page 1 with an empty collection and refetches it. Results
// of fetches issued before the reset are discarded.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.cursor = 1
	c.collection = []domain.Image{}
	c.err = nil
	c.exhausted = false
	c.inflight++
	c.mu.Unlock()
	c.publish()

	return c.fetchPage(ctx, gen, 1, false)
}

// fetchPage performs the catalog call for page and applies the result. The
// caller has already counted the fetch in c.inflight. advanced marks a
// LoadMore fetch whose cursor bump is undone on failure.
func (c *Controller) fetchPage(ctx context.Context, gen uint64, page int, advanced bool) error {
	log := c.log.WithContext(ctx).WithFields(map[string]any{"page": page})
	images, err := c.catalog.FetchPage(ctx, page, c.pageSize)

	c.mu.Lock()
	c.inflight--
	if gen != c.generation {
		c.mu.Unlock()
		log.Debug("discarding page fetched before reset")
		c.publish()
		return nil
	}

	if err != nil {
		c.err = err
		if advanced && c.cursor == page {
			c.cursor = page - 1
		}
		c.mu.Unlock()
		log.Warn(err, "failed to load images")
		c.publish()
		return err
	}

	c.err = nil
	if page == 1 {
		c.collection = domain.Dedupe(images)
	} else {
		c.collection = domain.Merge(c.collection, images)
	}
	if !advanced && page > c.cursor {
		c.cursor = page
	}
	c.exhausted = len(images) == 0
	total := len(c.collection)
	c.mu.Unlock()

	log.WithFields(map[string]any{"fetched": len(images), "total": total}).Debug("page applied")
	c.publish()
	return nil
}

// ToggleFavorite adds or removes img from the favorites and persists the new
// set. A storage failure is returned and recorded but the in-memory toggle
// stands.
func (c *Controller) ToggleFavorite(ctx context.Context, img domain.Image) error {
	c.mu.Lock()
	c.favorites = domain.Toggle(c.favorites, img)
	added := c.favorites.Has(img.ID)
	deferred := c.favoritesLoading
	if deferred {
		c.pendingToggles = append(c.pendingToggles, pendingToggle{image: img, favorite: added})
	}
	c.mu.Unlock()

	c.log.WithContext(ctx).WithImage(img).WithFields(map[string]any{
		"favorite": added,
		"deferred": deferred,
	}).Debug("favorite toggled")
	if deferred {
		c.publish()
		return nil
	}

	err := c.persist(ctx)
	c.publish()
	return err
}

func (c *Controller) persist(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	set := c.favorites
	c.mu.Unlock()

	err := c.store.Save(ctx, set)

	c.mu.Lock()
	c.persistErr = err
	c.mu.Unlock()

	if err != nil {
		c.log.WithContext(ctx).Warn(err, "failed to persist favorites")
	}
	return err
}

// SetSearchTerm stores term verbatim. An empty term clears the filter.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	c.searchTerm = term
	c.mu.Unlock()
	c.publish()
}

// SetFavoritesOnly switches between the collection and the favorites.
func (c *Controller) SetFavoritesOnly(on bool) {
	c.mu.Lock()
	c.favoritesOnly = on
	c.mu.Unlock()
	c.publish()
}

// SelectImage opens img in the detail view.
func (c *Controller) SelectImage(img domain.Image) {
	c.mu.Lock()
	selected := img
	c.selected = &selected
	c.mu.Unlock()
	c.publish()
}

// ClearSelection closes the detail view.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
	c.publish()
}

// Selected returns the image shown in the detail view.
func (c *Controller) Selected() (domain.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return domain.Image{}, false
	}
	return *c.selected, true
}

// IsFavorite reports whether id is in the current favorites set.
func (c *Controller) IsFavorite(id domain.ImageID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.favorites.Has(id)
}

// DisplayedSequence computes the displayed images from the current state.
func (c *Controller) DisplayedSequence() []domain.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Display(c.collection, c.favorites, domain.ViewFilter{
		SearchTerm:    c.searchTerm,
		FavoritesOnly: c.favoritesOnly,
	})
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Cursor:        c.cursor,
		Collection:    slices.Clone(c.collection),
		Favorites:     c.favorites,
		SearchTerm:    c.searchTerm,
		FavoritesOnly: c.favoritesOnly,
		Loading:       c.inflight > 0,
		Exhausted:     c.exhausted,
		Err:           c.err,
		PersistErr:    c.persistErr,
	}
	if state.Collection == nil {
		state.Collection = []domain.Image{}
	}
	if c.selected != nil {
		selected := *c.selected
		state.Selected = &selected
	}
	return state
}

// Subscribe returns a channel notified after state transitions, and a
// function that ends the subscription. Notifications coalesce when the
// subscriber lags, so receivers should re-read Snapshot.
func (c *Controller) Subscribe() (<-chan events.Event, func()) {
	sub := c.broker.Subscribe(events.TopicStateChanged)
	var once sync.Once
	return sub, func() {
		once.Do(func() { c.broker.Unsubscribe(events.TopicStateChanged, sub) })
	}
}

func (c *Controller) publish() {
	c.mu.Lock()
	c.revision++
	rev := c.revision
	c.mu.Unlock()
	c.broker.Publish(events.TopicStateChanged, rev)
}
