// Package matcher runs the background wishlist scan: every tick it compares
// the current marketplace listings against every desired-item specification
// and records the new pairs it finds.
package matcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"click-collectible-service/internal/adapters/metrics"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/wishlist"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	dedupeKeyTTL = 24 * time.Hour
	maxWorkers   = 5
	maxCapacity  = 50
)

// Matcher is the periodic wishlist/listing reconciler.
type Matcher struct {
	wishlistRepo    outbound.WishlistRepository
	itemRepo        outbound.ItemRepository
	wishlistService inbound.WishlistService
	redis           *redis.Client
	interval        time.Duration
	logger          zerolog.Logger
	kick            chan struct{}
	unsubscribe     func()
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
}

type MatcherParams struct {
	WishlistRepo    outbound.WishlistRepository
	ItemRepo        outbound.ItemRepository
	WishlistService inbound.WishlistService
	RedisClient     *redis.Client
	Bus             *eventbus.Bus
	Interval        time.Duration
	Logger          zerolog.Logger
}

// NewMatcher creates a new wishlist matcher
func NewMatcher(params MatcherParams) *Matcher {
	ctx, cancel := context.WithCancel(context.Background())

	interval := params.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	m := &Matcher{
		wishlistRepo:    params.WishlistRepo,
		itemRepo:        params.ItemRepo,
		wishlistService: params.WishlistService,
		redis:           params.RedisClient,
		interval:        interval,
		logger:          params.Logger.With().Str("component", "wishlist_matcher").Logger(),
		kick:            make(chan struct{}, 1),
		ctx:             ctx,
		cancel:          cancel,
	}

	// A freshly listed item should not have to wait out a full tick. The
	// handler runs on the publisher's goroutine, so it only nudges the loop.
	if params.Bus != nil {
		m.unsubscribe = params.Bus.Subscribe(eventbus.ItemSaleToggled, func(payload any) {
			select {
			case m.kick <- struct{}{}:
			default:
			}
		})
	}

	return m
}

// Start begins the matcher loop
func (m *Matcher) Start() {
	m.logger.Info().Dur("interval", m.interval).Msg("Starting wishlist matcher")

	m.wg.Add(1)
	go m.matcherLoop()
}

// Stop gracefully stops the matcher
func (m *Matcher) Stop() {
	m.logger.Info().Msg("Stopping wishlist matcher")
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.cancel()
	m.wg.Wait()
}

func (m *Matcher) matcherLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.runOnce()
		case <-m.kick:
			m.runOnce()
		case <-m.ctx.Done():
			m.logger.Info().Msg("Matcher loop stopped")
			return
		}
	}
}

// runOnce scans every wishlist specification against the for-sale items of
// its type. Specs are fanned out on a worker pool; each match is deduped
// through Redis before the service records it.
func (m *Matcher) runOnce() {
	wishes, err := m.wishlistRepo.ListAll(m.ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to list wishlist items")
		metrics.RecordMatcherRun(false, 0)
		return
	}
	if len(wishes) == 0 {
		metrics.RecordMatcherRun(true, 0)
		return
	}

	pool := pond.New(maxWorkers, maxCapacity, pond.Context(m.ctx))
	var matched int
	var matchedMu sync.Mutex

	for _, wish := range wishes {
		wish := wish
		pool.Submit(func() {
			count := m.scanWish(wish)
			matchedMu.Lock()
			matched += count
			matchedMu.Unlock()
		})
	}
	pool.StopAndWait()

	if matched > 0 {
		m.logger.Info().Int("matches", matched).Int("specs", len(wishes)).Msg("Matcher run recorded matches")
	}
	metrics.RecordMatcherRun(true, matched)
}

func (m *Matcher) scanWish(wish *wishlist.Item) int {
	items, err := m.itemRepo.ListForSaleByType(m.ctx, wish.TypeID)
	if err != nil {
		m.logger.Error().Err(err).Str("wishlist_item_id", wish.ID.String()).Msg("Failed to list candidate items")
		return 0
	}

	matched := 0
	for _, it := range items {
		if !Satisfies(wish, it) {
			continue
		}
		if !m.claimPair(wish.ID, it.ID) {
			continue
		}

		match, err := m.wishlistService.RecordMatch(m.ctx, wish.ID, it.ID)
		if err != nil {
			m.logger.Error().
				Err(err).
				Str("wishlist_item_id", wish.ID.String()).
				Str("item_id", it.ID.String()).
				Msg("Failed to record match")
			// Release the claim so the pair is retried next run.
			m.releasePair(wish.ID, it.ID)
			continue
		}
		if match != nil {
			matched++
		}
	}
	return matched
}

// Satisfies reports whether a listed item meets a wishlist entry. Same
// collection type was already guaranteed by the query; the entry's attribute
// constraints must all be present on the item, and the asking price must not
// exceed the cap. A wishlist entry never matches its own owner's listings.
func Satisfies(wish *wishlist.Item, it *item.Item) bool {
	if it.OwnerID == wish.OwnerID {
		return false
	}
	if !it.ForSale || it.AskingPrice == nil {
		return false
	}
	if wish.MaxPrice != nil && *it.AskingPrice > *wish.MaxPrice {
		return false
	}

	for key, want := range wish.Attributes {
		got, ok := it.Attributes[key]
		if !ok {
			return false
		}
		if !attributeMatches(want, got) {
			return false
		}
	}
	return true
}

// attributeMatches compares one constraint value against an item's value.
// String comparison is case-insensitive; everything else is compared by its
// rendered form since both sides come from JSON.
func attributeMatches(want, got any) bool {
	ws, wok := want.(string)
	gs, gok := got.(string)
	if wok && gok {
		return strings.EqualFold(strings.TrimSpace(ws), strings.TrimSpace(gs))
	}
	return fmt.Sprintf("%v", want) == fmt.Sprintf("%v", got)
}

// claimPair takes the Redis dedupe key for a (wishlist, item) pair. The key
// backs up the database's match record so concurrent instances do not both
// notify; a Redis failure falls through to the DB check in RecordMatch.
func (m *Matcher) claimPair(wishID, itemID uuid.UUID) bool {
	if m.redis == nil {
		return true
	}

	ok, err := m.redis.SetNX(m.ctx, pairKey(wishID, itemID), 1, dedupeKeyTTL).Result()
	if err != nil {
		m.logger.Warn().Err(err).Msg("Match dedupe key write failed, relying on database check")
		return true
	}
	return ok
}

func (m *Matcher) releasePair(wishID, itemID uuid.UUID) {
	if m.redis == nil {
		return
	}
	m.redis.Del(m.ctx, pairKey(wishID, itemID))
}

func pairKey(wishID, itemID uuid.UUID) string {
	return fmt.Sprintf("wishlist:match:%s:%s", wishID, itemID)
}
