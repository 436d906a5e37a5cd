package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gamestore/internal/common"
	"gamestore/internal/domain/model"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}}
}

func (f *fakeUserRepo) live(match func(*model.User) bool) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.DeletedAt == nil && match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.NewError(common.ErrNotFound, "User not found")
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.NewError(common.ErrConflict, "Username or email already exists")
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live(func(u *model.User) bool { return u.ID == id })
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live(func(u *model.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live(func(u *model.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) List(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.User{}
	for _, u := range f.users {
		if u.DeletedAt == nil {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, common.NewError(common.ErrNotFound, "User not found")
	}
	for _, other := range f.users {
		if other.ID == id {
			continue
		}
		if (upd.Username != nil && other.Username == *upd.Username) || (upd.Email != nil && other.Email == *upd.Email) {
			return nil, common.NewError(common.ErrConflict, "Username or email already exists")
		}
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = upd.Name
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return common.NewError(common.ErrNotFound, "User not found")
	}
	u.DeletedAt = &at
	return nil
}

func (f *fakeUserRepo) SetEmailVerifyToken(_ context.Context, id int64, token string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return common.NewError(common.ErrNotFound, "User not found")
	}
	u.EmailVerifyToken, u.EmailVerifyExpires = &token, &expires
	return nil
}

func (f *fakeUserRepo) ConsumeEmailVerifyToken(_ context.Context, token string, now time.Time) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.DeletedAt == nil && u.EmailVerifyToken != nil && *u.EmailVerifyToken == token && u.EmailVerifyExpires.After(now) {
			u.EmailVerified = true
			u.EmailVerifyToken, u.EmailVerifyExpires = nil, nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrInvalidOrExpiredToken
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id int64, token string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return common.NewError(common.ErrNotFound, "User not found")
	}
	u.ResetToken, u.ResetTokenExpires = &token, &expires
	return nil
}

func (f *fakeUserRepo) ConsumeResetToken(_ context.Context, token, hash string, now time.Time) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.DeletedAt == nil && u.ResetToken != nil && *u.ResetToken == token && u.ResetTokenExpires.After(now) {
			u.PasswordHash = hash
			u.ResetToken, u.ResetTokenExpires = nil, nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrInvalidOrExpiredToken
}

type fakeMailQueue struct {
	mu   sync.Mutex
	jobs []model.MailJob
	err  error
}

func (q *fakeMailQueue) Enqueue(_ context.Context, job model.MailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []model.Notification
	err    error
}

func (f *fakeNotificationRepo) List(_ context.Context, userID int64, unreadOnly bool, limit, offset int) ([]model.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.Notification
	for i := len(f.items) - 1; i >= 0; i-- {
		n := f.items[i]
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			matched = append(matched, n)
		}
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, item := range f.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	n.ID = f.nextID
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNotificationRepo) CreateMany(ctx context.Context, ns []model.Notification) (int, error) {
	for i := range ns {
		if err := f.Create(ctx, &ns[i]); err != nil {
			return 0, err
		}
	}
	return len(ns), nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items[i].IsRead = true
			return nil
		}
	}
	return common.NewError(common.ErrNotFound, "Notification not found")
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.items {
		if f.items[i].UserID == userID && !f.items[i].IsRead {
			f.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) Delete(context.Context, int64, int64) error { return nil }

func (f *fakeNotificationRepo) DeleteAll(context.Context, int64) (int64, error) { return 0, nil }

func (f *fakeNotificationRepo) forUser(userID int64) []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeGameRepo struct {
	nextID int64
	games  map[int64]*model.Game
	slugs  map[string]bool
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: map[int64]*model.Game{}, slugs: map[string]bool{}}
}

func (f *fakeGameRepo) Create(_ context.Context, g *model.Game) error {
	if f.slugs[g.Slug] {
		return common.NewError(common.ErrConflict, "Game slug already exists")
	}
	f.nextID++
	g.ID = f.nextID
	g.Price = model.FormatPrice(g.PriceCents)
	f.slugs[g.Slug] = true
	cp := *g
	f.games[g.ID] = &cp
	return nil
}

func (f *fakeGameRepo) FindByID(_ context.Context, id int64) (*model.Game, error) {
	g, ok := f.games[id]
	if !ok || g.DeletedAt != nil {
		return nil, common.NewError(common.ErrNotFound, "Game not found")
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGameRepo) FindBySlug(_ context.Context, slug string) (*model.Game, error) {
	for _, g := range f.games {
		if g.Slug == slug && g.DeletedAt == nil {
			cp := *g
			return &cp, nil
		}
	}
	return nil, common.NewError(common.ErrNotFound, "Game not found")
}

func (f *fakeGameRepo) List(context.Context) ([]model.Game, error) { return nil, nil }

func (f *fakeGameRepo) ListByCategory(context.Context, int64) ([]model.Game, error) {
	return []model.Game{}, nil
}

func (f *fakeGameRepo) Search(_ context.Context, q string) ([]model.Game, error) {
	var out []model.Game
	for _, g := range f.games {
		if strings.Contains(strings.ToLower(g.Title), strings.ToLower(q)) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGameRepo) Update(_ context.Context, id int64, upd model.GameUpdate, slug *string) (*model.Game, error) {
	g, ok := f.games[id]
	if !ok || g.DeletedAt != nil {
		return nil, common.NewError(common.ErrNotFound, "Game not found")
	}
	if slug != nil {
		if f.slugs[*slug] && *slug != g.Slug {
			return nil, common.NewError(common.ErrConflict, "Game slug already exists")
		}
		f.slugs[*slug] = true
		g.Slug = *slug
	}
	if upd.Title != nil {
		g.Title = *upd.Title
	}
	if upd.PriceCents != nil {
		g.PriceCents = *upd.PriceCents
		g.Price = model.FormatPrice(g.PriceCents)
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGameRepo) SoftDelete(_ context.Context, id int64, at time.Time) error {
	g, ok := f.games[id]
	if !ok || g.DeletedAt != nil {
		return common.NewError(common.ErrNotFound, "Game not found")
	}
	g.DeletedAt = &at
	return nil
}

func (f *fakeGameRepo) Exists(_ context.Context, id int64) (bool, error) {
	g, ok := f.games[id]
	return ok && g.DeletedAt == nil, nil
}

type fakeWishlistRepo struct {
	byGame map[int64][]int64
	err    error
}

func (f *fakeWishlistRepo) ListByUser(context.Context, int64) ([]model.WishlistEntry, error) {
	return nil, nil
}

func (f *fakeWishlistRepo) Add(context.Context, int64, int64) (*model.WishlistEntry, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeWishlistRepo) Remove(context.Context, int64, int64) error { return nil }

func (f *fakeWishlistRepo) UserIDsForGame(_ context.Context, gameID int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byGame[gameID], nil
}

type fakeCategoryRepo struct {
	ids map[int64]bool
}

func (f *fakeCategoryRepo) Create(context.Context, *model.Category) error { return nil }

func (f *fakeCategoryRepo) FindByID(_ context.Context, id int64) (*model.Category, error) {
	if !f.ids[id] {
		return nil, common.NewError(common.ErrNotFound, "Category not found")
	}
	return &model.Category{ID: id}, nil
}

func (f *fakeCategoryRepo) List(context.Context) ([]model.Category, error) { return nil, nil }

func (f *fakeCategoryRepo) Update(context.Context, int64, string, string) (*model.Category, error) {
	return nil, nil
}

func (f *fakeCategoryRepo) Delete(context.Context, int64) error { return nil }

func (f *fakeCategoryRepo) AddGame(context.Context, int64, int64) error { return nil }

func (f *fakeCategoryRepo) RemoveGame(context.Context, int64, int64) error { return nil }

type fakeFriendshipRepo struct {
	nextID int64
	items  map[int64]*model.Friendship
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{items: map[int64]*model.Friendship{}}
}

func (f *fakeFriendshipRepo) filter(match func(*model.Friendship) bool) ([]model.Friendship, error) {
	out := []model.Friendship{}
	for _, fr := range f.items {
		if match(fr) {
			out = append(out, *fr)
		}
	}
	return out, nil
}

func (f *fakeFriendshipRepo) ListAccepted(_ context.Context, userID int64) ([]model.Friendship, error) {
	return f.filter(func(fr *model.Friendship) bool { return fr.Involves(userID) && fr.Status == model.FriendshipAccepted })
}

func (f *fakeFriendshipRepo) ListIncomingPending(_ context.Context, userID int64) ([]model.Friendship, error) {
	return f.filter(func(fr *model.Friendship) bool { return fr.FriendID == userID && fr.Status == model.FriendshipPending })
}

func (f *fakeFriendshipRepo) ListOutgoingPending(_ context.Context, userID int64) ([]model.Friendship, error) {
	return f.filter(func(fr *model.Friendship) bool { return fr.UserID == userID && fr.Status == model.FriendshipPending })
}

func (f *fakeFriendshipRepo) ListBlocked(_ context.Context, userID int64) ([]model.Friendship, error) {
	return f.filter(func(fr *model.Friendship) bool { return fr.UserID == userID && fr.Status == model.FriendshipBlocked })
}

func (f *fakeFriendshipRepo) FindByID(_ context.Context, id int64) (*model.Friendship, error) {
	fr, ok := f.items[id]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "Friendship not found")
	}
	cp := *fr
	return &cp, nil
}

func (f *fakeFriendshipRepo) Create(_ context.Context, userID, friendID int64) (*model.Friendship, error) {
	for _, fr := range f.items {
		if fr.Involves(userID) && fr.Involves(friendID) {
			return nil, common.NewError(common.ErrConflict, "Friendship already exists")
		}
	}
	f.nextID++
	fr := &model.Friendship{ID: f.nextID, UserID: userID, FriendID: friendID, Status: model.FriendshipPending}
	f.items[fr.ID] = fr
	cp := *fr
	return &cp, nil
}

func (f *fakeFriendshipRepo) UpdateStatus(_ context.Context, id, userID int64, status model.FriendshipStatus) (*model.Friendship, error) {
	fr, ok := f.items[id]
	if !ok || !fr.Involves(userID) {
		return nil, common.NewError(common.ErrNotFound, "Friendship not found")
	}
	fr.Status = status
	cp := *fr
	return &cp, nil
}

func (f *fakeFriendshipRepo) Delete(_ context.Context, id, userID int64) error {
	fr, ok := f.items[id]
	if !ok || !fr.Involves(userID) {
		return common.NewError(common.ErrNotFound, "Friendship not found")
	}
	delete(f.items, id)
	return nil
}

type fakeCartRepo struct {
	items map[int64]map[int64]bool
}

func (f *fakeCartRepo) GetByUserID(_ context.Context, userID int64) (*model.Cart, error) {
	games, ok := f.items[userID]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "Cart not found")
	}
	cart := &model.Cart{UserID: userID, Items: []model.CartItem{}}
	for id := range games {
		cart.Items = append(cart.Items, model.CartItem{GameID: id, Game: model.GameSummary{ID: id, PriceCents: 1000}})
	}
	cart.Recalculate()
	return cart, nil
}

func (f *fakeCartRepo) AddItem(_ context.Context, userID, gameID int64) error {
	if f.items[userID] == nil {
		f.items[userID] = map[int64]bool{}
	}
	if f.items[userID][gameID] {
		return common.NewError(common.ErrConflict, "Game already in cart")
	}
	f.items[userID][gameID] = true
	return nil
}

func (f *fakeCartRepo) RemoveItem(_ context.Context, userID, gameID int64) error {
	if !f.items[userID][gameID] {
		return common.NewError(common.ErrNotFound, "Game not found in cart")
	}
	delete(f.items[userID], gameID)
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, userID int64) error {
	f.items[userID] = map[int64]bool{}
	return nil
}

func (f *fakeCartRepo) Checkout(_ context.Context, userID int64) (int64, error) {
	n := int64(len(f.items[userID]))
	if n == 0 {
		return 0, common.NewError(common.ErrBadRequest, "Cart is empty")
	}
	f.items[userID] = map[int64]bool{}
	return n, nil
}

type fakeLibraryRepo struct {
	owned map[int64]map[int64]bool
}

func (f *fakeLibraryRepo) ListByUser(context.Context, int64) ([]model.LibraryEntry, error) {
	return nil, nil
}

func (f *fakeLibraryRepo) Get(context.Context, int64, int64) (*model.LibraryEntry, error) {
	return nil, nil
}

func (f *fakeLibraryRepo) Contains(_ context.Context, userID, gameID int64) (bool, error) {
	return f.owned[userID][gameID], nil
}

func (f *fakeLibraryRepo) Add(context.Context, int64, int64) (*model.LibraryEntry, error) {
	return nil, nil
}

func (f *fakeLibraryRepo) TouchLastPlayed(context.Context, int64, int64, time.Time) (*model.LibraryEntry, error) {
	return nil, nil
}

func (f *fakeLibraryRepo) Remove(context.Context, int64, int64) error { return nil }
