package handler_test

// In-memory implementations of the repository interfaces plus a tiny
// test server. The fakes mirror the MySQL repositories' semantics:
// sentinel errors, existence-before-ownership ordering, lazy session
// expiry and keyset pagination.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/auth"
	"github.com/evhart/dayhub/internal/handler"
	"github.com/evhart/dayhub/internal/model"
	"github.com/evhart/dayhub/internal/pagination"
	"github.com/evhart/dayhub/internal/queue"
	"github.com/evhart/dayhub/internal/repository"
	"github.com/evhart/dayhub/internal/router"
)

const testSessionTTL = 30 * 24 * time.Hour

type eventRecorder struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (r *eventRecorder) AccountRegistered(_ context.Context, a model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, queue.ActivityEvent{Type: queue.TypeAccountRegistered, AccountUUID: a.UUID, Email: a.Email})
	return nil
}

func (r *eventRecorder) BlogPublished(_ context.Context, p model.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, queue.ActivityEvent{Type: queue.TypeBlogPublished, BlogUUID: p.UUID, AuthorUUID: p.AuthorUUID})
	return nil
}

type memStore struct {
	mu       sync.Mutex
	accounts map[string]model.Account
	sessions map[string]model.Session
	lists    map[string]model.TodoList
	items    map[string]model.TodoItem
	blogs    map[string]model.BlogPost
	events   *eventRecorder
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]model.Account{},
		sessions: map[string]model.Session{},
		lists:    map[string]model.TodoList{},
		items:    map[string]model.TodoItem{},
		blogs:    map[string]model.BlogPost{},
		events:   &eventRecorder{},
	}
}

// ----- AccountStore -----

func (s *memStore) Create(ctx context.Context, a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.accounts {
		if other.Email == a.Email {
			return repository.ErrEmailExists
		}
	}
	s.accounts[a.UUID] = *a
	return nil
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (s *memStore) GetByUUID(ctx context.Context, uuid string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[uuid]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *memStore) Update(ctx context.Context, a *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.accounts {
		if other.Email == a.Email && other.UUID != a.UUID {
			return repository.ErrEmailExists
		}
	}
	s.accounts[a.UUID] = *a
	return nil
}

// ----- SessionStore -----

func (s *memStore) CreateSession(accountUUID, ip string) (model.Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return model.Session{}, err
	}
	sess := model.Session{
		Token:       token,
		AccountUUID: accountUUID,
		ExpiresAt:   time.Now().UnixMilli() + testSessionTTL.Milliseconds(),
		IPAddress:   ip,
	}
	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *memStore) Resolve(ctx context.Context, token string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return model.Account{}, repository.ErrSessionNotFound
	}
	if sess.ExpiresAt <= time.Now().UnixMilli() {
		delete(s.sessions, token) // lazy cleanup, like the real store
		return model.Account{}, repository.ErrSessionExpired
	}
	return s.accounts[sess.AccountUUID], nil
}

func (s *memStore) Refresh(ctx context.Context, token string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return model.Session{}, repository.ErrSessionNotFound
	}
	sess.ExpiresAt = time.Now().UnixMilli() + testSessionTTL.Milliseconds()
	s.sessions[token] = sess
	return sess, nil
}

func (s *memStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

// expireSession forces a stored session's expiry into the past.
func (s *memStore) expireSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[token]
	sess.ExpiresAt = time.Now().UnixMilli() - 1000
	s.sessions[token] = sess
}

// ----- TodoStore -----

func (s *memStore) CreateList(ctx context.Context, l *model.TodoList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[l.UUID] = *l
	return nil
}

func (s *memStore) ListsByAccount(ctx context.Context, accountUUID string) ([]model.TodoList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.TodoList{}
	for _, l := range s.lists {
		if l.AccountUUID != accountUUID {
			continue
		}
		l.Items = []model.TodoItem{}
		for _, it := range s.items {
			if it.ListUUID == l.UUID {
				l.Items = append(l.Items, it)
			}
		}
		sort.Slice(l.Items, func(i, j int) bool { return l.Items[i].UUID < l.Items[j].UUID })
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

func (s *memStore) checkListLocked(listUUID, accountUUID string) error {
	l, ok := s.lists[listUUID]
	if !ok {
		return repository.ErrNotFound
	}
	if l.AccountUUID != accountUUID {
		return repository.ErrForbidden
	}
	return nil
}

func (s *memStore) CreateItem(ctx context.Context, listUUID, accountUUID string, item *model.TodoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkListLocked(listUUID, accountUUID); err != nil {
		return err
	}
	s.items[item.UUID] = *item
	return nil
}

func (s *memStore) UpdateItem(ctx context.Context, listUUID, itemUUID, accountUUID string, patch repository.TodoItemPatch) (model.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkListLocked(listUUID, accountUUID); err != nil {
		return model.TodoItem{}, err
	}
	it, ok := s.items[itemUUID]
	if !ok || it.ListUUID != listUUID {
		return model.TodoItem{}, repository.ErrNotFound
	}
	if patch.Title != nil {
		it.Title = *patch.Title
	}
	if patch.Completed != nil {
		it.Completed = *patch.Completed
	}
	if patch.DueDate != nil {
		it.DueDate = patch.DueDate
	}
	s.items[itemUUID] = it
	return it, nil
}

func (s *memStore) DeleteItem(ctx context.Context, listUUID, itemUUID, accountUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkListLocked(listUUID, accountUUID); err != nil {
		return err
	}
	it, ok := s.items[itemUUID]
	if !ok || it.ListUUID != listUUID {
		return repository.ErrNotFound
	}
	delete(s.items, it.UUID)
	return nil
}

// ----- BlogStore -----

func (s *memStore) CreateBlog(p *model.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blogs[p.UUID] = *p
	return nil
}

func (s *memStore) GetBlogByUUID(ctx context.Context, uuid string) (model.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.blogs[uuid]
	if !ok {
		return model.BlogPost{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *memStore) UUIDsByAuthor(ctx context.Context, authorUUID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	for _, p := range s.sortedBlogsLocked("") {
		if p.AuthorUUID == authorUUID {
			out = append(out, p.UUID)
		}
	}
	return out, nil
}

// sortedBlogsLocked returns posts in feed order: created_at
// descending, uuid ascending as tie breaker.
func (s *memStore) sortedBlogsLocked(authorUUID string) []model.BlogPost {
	posts := []model.BlogPost{}
	for _, p := range s.blogs {
		if authorUUID == "" || p.AuthorUUID == authorUUID {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt != posts[j].CreatedAt {
			return posts[i].CreatedAt > posts[j].CreatedAt
		}
		return posts[i].UUID < posts[j].UUID
	})
	return posts
}

func (s *memStore) Page(ctx context.Context, authorUUID string, limit int, after *pagination.Cursor) (repository.BlogPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := s.sortedBlogsLocked(authorUUID)
	page := repository.BlogPage{Items: []model.BlogPost{}, Total: int64(len(posts))}
	for _, p := range posts {
		if after != nil {
			if p.CreatedAt > after.CreatedAt {
				continue
			}
			if p.CreatedAt == after.CreatedAt && p.UUID <= after.UUID {
				continue
			}
		}
		if len(page.Items) == limit {
			page.HasNext = true
			break
		}
		page.Items = append(page.Items, p)
	}
	return page, nil
}

func (s *memStore) UpdateBlog(ctx context.Context, uuid, authorUUID string, patch repository.BlogPatch) (model.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.blogs[uuid]
	if !ok {
		return model.BlogPost{}, repository.ErrNotFound
	}
	if p.AuthorUUID != authorUUID {
		return model.BlogPost{}, repository.ErrForbidden
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	s.blogs[uuid] = p
	return p, nil
}

func (s *memStore) DeleteBlog(ctx context.Context, uuid, authorUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.blogs[uuid]
	if !ok {
		return repository.ErrNotFound
	}
	if p.AuthorUUID != authorUUID {
		return repository.ErrForbidden
	}
	delete(s.blogs, uuid)
	return nil
}

// ----- test server -----

func newTestServer(t *testing.T) (*echo.Echo, *memStore) {
	t.Helper()
	st := newMemStore()
	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAccount(e,
		handler.NewAccountHandler(st, sessionStore{st}, st, blogStore{st}, st.events),
		handler.NewSessionHandler(sessionStore{st}),
		sessionStore{st})
	router.RegisterBlog(e, handler.NewBlogHandler(blogStore{st}, st.events), sessionStore{st}, nil)
	router.RegisterTodo(e, handler.NewTodoHandler(st), sessionStore{st})
	return e, st
}

// sessionStore and blogStore adapt memStore method names that would
// otherwise collide (Create/GetByUUID exist per entity).
type sessionStore struct{ *memStore }

func (s sessionStore) Create(ctx context.Context, accountUUID, ip string) (model.Session, error) {
	return s.CreateSession(accountUUID, ip)
}

type blogStore struct{ *memStore }

func (b blogStore) Create(ctx context.Context, p *model.BlogPost) error {
	return b.CreateBlog(p)
}

func (b blogStore) GetByUUID(ctx context.Context, uuid string) (model.BlogPost, error) {
	return b.GetBlogByUUID(ctx, uuid)
}

func (b blogStore) Update(ctx context.Context, uuid, authorUUID string, patch repository.BlogPatch) (model.BlogPost, error) {
	return b.UpdateBlog(ctx, uuid, authorUUID, patch)
}

func (b blogStore) Delete(ctx context.Context, uuid, authorUUID string) error {
	return b.DeleteBlog(ctx, uuid, authorUUID)
}

// ----- request helpers -----

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// signUp registers an account and returns its session token.
func signUp(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	w := doJSON(t, e, "POST", "/v1/account/sign-up", "", map[string]any{
		"email": email, "firstName": "Jo", "lastName": "Doe", "password": "longenough",
	})
	if w.Code != 200 {
		t.Fatalf("sign-up code %d: %s", w.Code, w.Body.String())
	}
	session := decode(t, w)["session"].(map[string]any)
	return session["token"].(string)
}
