package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/server/models"
	"github.com/dmitrijs2005/daybook/internal/server/repositories/entries"
	"github.com/dmitrijs2005/daybook/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/daybook/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	mu      sync.Mutex
	byName  map[string]*models.User
	nextID  int
	failErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	if _, ok := r.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.nextID++
	u.ID = fmt.Sprintf("u%d", r.nextID)
	r.byName[u.UserName] = u
	return u, nil
}

func (r *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	u, ok := r.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRefreshRepo struct {
	mu        sync.Mutex
	tokens    map[string]*models.RefreshToken
	createErr error
	pruned    int
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (r *fakeRefreshRepo) Create(_ context.Context, t *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.tokens[t.Token] = t
	return nil
}

func (r *fakeRefreshRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (r *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *fakeRefreshRepo) DeleteExpired(_ context.Context, userID string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.UserID == userID && t.Expires.Before(now) {
			delete(r.tokens, k)
			n++
		}
	}
	r.pruned += int(n)
	return n, nil
}

type fakeEntriesRepo struct {
	mu    sync.Mutex
	rows  map[string]*models.Entry
	err   error
	clock time.Time
}

func newFakeEntriesRepo() *fakeEntriesRepo {
	return &fakeEntriesRepo{
		rows:  map[string]*models.Entry{},
		clock: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeEntriesRepo) Upsert(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	k := e.UserID + "|" + e.Date
	if old, ok := r.rows[k]; ok {
		e.ID = old.ID
	} else {
		e.ID = "id-" + e.Date
	}
	r.clock = r.clock.Add(time.Second)
	e.UpdatedAt = r.clock
	cp := *e
	r.rows[k] = &cp
	return nil
}

func (r *fakeEntriesRepo) Query(_ context.Context, userID string, after time.Time) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Entry
	for _, e := range r.rows {
		if e.UserID != userID {
			continue
		}
		if !after.IsZero() && !e.UpdatedAt.After(after) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeEntriesRepo) Delete(_ context.Context, userID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := userID + "|" + date
	if _, ok := r.rows[k]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, k)
	return nil
}

type fakeRepoManager struct {
	users   *fakeUsersRepo
	refresh *fakeRefreshRepo
	entries *fakeEntriesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newFakeUsersRepo(), refresh: newFakeRefreshRepo(), entries: newFakeEntriesRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository             { return m.entries }

type fakeStore struct {
	mu        sync.Mutex
	deleted   []string
	presigned []string
	err       error
}

func (s *fakeStore) PresignPut(_ context.Context, key, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.presigned = append(s.presigned, key+"|"+contentType)
	return "https://s3.test/put/" + key, nil
}

func (s *fakeStore) PresignGet(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://s3.test/get/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, keys []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.deleted = append(s.deleted, keys...)
	return len(keys), nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://media.test/media/" + key
}
