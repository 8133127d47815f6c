package app

import (
	"context"
	"sync"

	"click-collectible-service/internal/domain/collection"
	"click-collectible-service/internal/domain/item"
	"click-collectible-service/internal/domain/market"
	"click-collectible-service/internal/domain/message"
	"click-collectible-service/internal/domain/notification"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/domain/wishlist"
	"click-collectible-service/internal/ports/inbound"

	"github.com/google/uuid"
)

// In-memory repository fakes. Item mutations recompute the owning
// collection's aggregates the way the SQL layer does, so aggregate
// consistency can be asserted without a database.

type fakeStore struct {
	mu sync.Mutex

	users         map[uuid.UUID]*shared.User
	types         map[uuid.UUID]*collection.Type
	collections   map[uuid.UUID]*collection.Collection
	items         map[uuid.UUID]*item.Item
	wishlist      map[uuid.UUID]*wishlist.Item
	matches       map[uuid.UUID]*wishlist.Match
	messages      map[uuid.UUID]*message.Message
	notifications map[uuid.UUID]*notification.Notification
	transactions  map[uuid.UUID]*market.Transaction
	feedback      map[uuid.UUID]*market.Feedback
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         map[uuid.UUID]*shared.User{},
		types:         map[uuid.UUID]*collection.Type{},
		collections:   map[uuid.UUID]*collection.Collection{},
		items:         map[uuid.UUID]*item.Item{},
		wishlist:      map[uuid.UUID]*wishlist.Item{},
		matches:       map[uuid.UUID]*wishlist.Match{},
		messages:      map[uuid.UUID]*message.Message{},
		notifications: map[uuid.UUID]*notification.Notification{},
		transactions:  map[uuid.UUID]*market.Transaction{},
		feedback:      map[uuid.UUID]*market.Feedback{},
	}
}

func (s *fakeStore) recomputeAggregates(collectionID uuid.UUID) {
	coll, ok := s.collections[collectionID]
	if !ok {
		return
	}
	count := 0
	total := 0.0
	for _, it := range s.items {
		if it.CollectionID == collectionID {
			count++
			total += it.CurrentValue
		}
	}
	coll.ItemCount = count
	coll.TotalValue = total
}

// --- user repository ---

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, u *shared.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*shared.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*shared.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *shared.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[u.ID]; !ok {
		return shared.ErrUserNotFound
	}
	copied := *u
	r.store.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) AddRating(_ context.Context, userID uuid.UUID, rating int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return shared.ErrUserNotFound
	}
	u.RatingAvg = (u.RatingAvg*float64(u.RatingCount) + float64(rating)) / float64(u.RatingCount+1)
	u.RatingCount++
	return nil
}

// --- collection type repository ---

type fakeTypeRepo struct{ store *fakeStore }

func (r *fakeTypeRepo) Create(_ context.Context, t *collection.Type) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.types[t.ID] = t
	return nil
}

func (r *fakeTypeRepo) GetByID(_ context.Context, id uuid.UUID) (*collection.Type, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.types[id]
	if !ok {
		return nil, shared.ErrCollectionTypeNotFound
	}
	return t, nil
}

func (r *fakeTypeRepo) GetBySlug(_ context.Context, slug string) (*collection.Type, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.types {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, shared.ErrCollectionTypeNotFound
}

func (r *fakeTypeRepo) List(_ context.Context) ([]*collection.Type, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*collection.Type, 0, len(r.store.types))
	for _, t := range r.store.types {
		out = append(out, t)
	}
	return out, nil
}

// --- collection repository ---

type fakeCollectionRepo struct{ store *fakeStore }

func (r *fakeCollectionRepo) Create(_ context.Context, c *collection.Collection) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *c
	r.store.collections[c.ID] = &copied
	return nil
}

func (r *fakeCollectionRepo) GetByID(_ context.Context, id uuid.UUID) (*collection.Collection, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.collections[id]
	if !ok {
		return nil, shared.ErrCollectionNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCollectionRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*collection.Collection, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*collection.Collection
	for _, c := range r.store.collections {
		if c.OwnerID == ownerID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCollectionRepo) Update(_ context.Context, c *collection.Collection) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.collections[c.ID]
	if !ok {
		return shared.ErrCollectionNotFound
	}
	// Aggregates stay repository-owned.
	c.ItemCount = stored.ItemCount
	c.TotalValue = stored.TotalValue
	copied := *c
	r.store.collections[c.ID] = &copied
	return nil
}

func (r *fakeCollectionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.collections[id]; !ok {
		return shared.ErrCollectionNotFound
	}
	delete(r.store.collections, id)
	for itemID, it := range r.store.items {
		if it.CollectionID == id {
			delete(r.store.items, itemID)
		}
	}
	return nil
}

// --- item repository ---

type fakeItemRepo struct{ store *fakeStore }

func (r *fakeItemRepo) Create(_ context.Context, it *item.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *it
	r.store.items[it.ID] = &copied
	r.store.recomputeAggregates(it.CollectionID)
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (*item.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	it, ok := r.store.items[id]
	if !ok {
		return nil, shared.ErrItemNotFound
	}
	copied := *it
	return &copied, nil
}

func (r *fakeItemRepo) ListByCollection(_ context.Context, collectionID uuid.UUID) ([]*item.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*item.Item
	for _, it := range r.store.items {
		if it.CollectionID == collectionID {
			copied := *it
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) ListForSaleByType(_ context.Context, typeID uuid.UUID) ([]*item.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*item.Item
	for _, it := range r.store.items {
		if !it.ForSale {
			continue
		}
		coll, ok := r.store.collections[it.CollectionID]
		if !ok || coll.TypeID != typeID {
			continue
		}
		copied := *it
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeItemRepo) ListForSale(_ context.Context) ([]*item.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*item.Item
	for _, it := range r.store.items {
		if it.ForSale {
			copied := *it
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Update(_ context.Context, it *item.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[it.ID]; !ok {
		return shared.ErrItemNotFound
	}
	copied := *it
	r.store.items[it.ID] = &copied
	r.store.recomputeAggregates(it.CollectionID)
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	it, ok := r.store.items[id]
	if !ok {
		return shared.ErrItemNotFound
	}
	delete(r.store.items, id)
	r.store.recomputeAggregates(it.CollectionID)
	return nil
}

func (r *fakeItemRepo) BulkInsert(_ context.Context, collectionID uuid.UUID, items []*item.Item) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, it := range items {
		copied := *it
		r.store.items[it.ID] = &copied
	}
	r.store.recomputeAggregates(collectionID)
	return len(items), nil
}

// --- wishlist repository ---

type fakeWishlistRepo struct{ store *fakeStore }

func (r *fakeWishlistRepo) Create(_ context.Context, w *wishlist.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *w
	r.store.wishlist[w.ID] = &copied
	return nil
}

func (r *fakeWishlistRepo) GetByID(_ context.Context, id uuid.UUID) (*wishlist.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wishlist[id]
	if !ok {
		return nil, shared.ErrWishlistItemNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *fakeWishlistRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*wishlist.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*wishlist.Item
	for _, w := range r.store.wishlist {
		if w.OwnerID == ownerID {
			copied := *w
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWishlistRepo) ListAll(_ context.Context) ([]*wishlist.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*wishlist.Item
	for _, w := range r.store.wishlist {
		copied := *w
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeWishlistRepo) Update(_ context.Context, w *wishlist.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.wishlist[w.ID]; !ok {
		return shared.ErrWishlistItemNotFound
	}
	copied := *w
	r.store.wishlist[w.ID] = &copied
	return nil
}

func (r *fakeWishlistRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.wishlist[id]; !ok {
		return shared.ErrWishlistItemNotFound
	}
	delete(r.store.wishlist, id)
	return nil
}

func (r *fakeWishlistRepo) CreateMatch(_ context.Context, m *wishlist.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *m
	r.store.matches[m.ID] = &copied
	return nil
}

func (r *fakeWishlistRepo) MatchExists(_ context.Context, wishlistItemID, itemID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.matches {
		if m.WishlistItemID == wishlistItemID && m.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWishlistRepo) ListMatchesByOwner(_ context.Context, ownerID uuid.UUID) ([]*wishlist.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*wishlist.Match
	for _, m := range r.store.matches {
		w, ok := r.store.wishlist[m.WishlistItemID]
		if ok && w.OwnerID == ownerID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWishlistRepo) MarkMatchNotified(_ context.Context, matchID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.matches[matchID]
	if !ok {
		return shared.ErrMatchNotFound
	}
	m.Notified = true
	return nil
}

// --- message repository ---

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(_ context.Context, m *message.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *m
	r.store.messages[m.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*message.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.messages[id]
	if !ok {
		return nil, shared.ErrMessageNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMessageRepo) ListThread(_ context.Context, userID, counterpartID uuid.UUID) ([]*message.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*message.Message
	for _, m := range r.store.messages {
		if (m.SenderID == userID && m.RecipientID == counterpartID) ||
			(m.SenderID == counterpartID && m.RecipientID == userID) {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListConversations(_ context.Context, userID uuid.UUID) ([]*message.Conversation, error) {
	return nil, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.messages[id]
	if !ok {
		return shared.ErrMessageNotFound
	}
	m.Read = true
	return nil
}

// --- notification repository ---

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *n
	r.store.notifications[n.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n, ok := r.store.notifications[id]
	if !ok {
		return nil, shared.ErrNotificationNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.store.notifications {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n, ok := r.store.notifications[id]
	if !ok {
		return shared.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

// --- market repository ---

type fakeMarketRepo struct{ store *fakeStore }

func (r *fakeMarketRepo) CreateTransaction(_ context.Context, t *market.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *t
	r.store.transactions[t.ID] = &copied
	return nil
}

func (r *fakeMarketRepo) GetTransaction(_ context.Context, id uuid.UUID) (*market.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.transactions[id]
	if !ok {
		return nil, shared.ErrTransactionNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeMarketRepo) ListTransactionsByUser(_ context.Context, userID uuid.UUID) ([]*market.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*market.Transaction
	for _, t := range r.store.transactions {
		if t.BuyerID == userID || t.SellerID == userID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMarketRepo) UpdateTransactionStatus(_ context.Context, id uuid.UUID, status market.TransactionStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.transactions[id]
	if !ok {
		return shared.ErrTransactionNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeMarketRepo) CreateFeedback(_ context.Context, f *market.Feedback) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *f
	r.store.feedback[f.ID] = &copied
	return nil
}

func (r *fakeMarketRepo) ListFeedbackForUser(_ context.Context, userID uuid.UUID) ([]*market.Feedback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*market.Feedback
	for _, f := range r.store.feedback {
		if f.RatedID == userID {
			copied := *f
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMarketRepo) ListActiveAdvertisements(_ context.Context) ([]*market.Advertisement, error) {
	return nil, nil
}

// --- notifier stub ---

type fakeNotifier struct {
	mu       sync.Mutex
	requests []inbound.NotifyRequest
}

func (f *fakeNotifier) Notify(_ context.Context, req inbound.NotifyRequest) (*notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return &notification.Notification{ID: uuid.New(), UserID: req.UserID, Type: req.Type, Content: req.Content}, nil
}

func (f *fakeNotifier) ListNotifications(context.Context, uuid.UUID) ([]*notification.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (f *fakeNotifier) MarkAllRead(context.Context, uuid.UUID) error { return nil }

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
