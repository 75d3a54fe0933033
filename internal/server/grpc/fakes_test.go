package grpc

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/server/auth"
	"github.com/dmitrijs2005/daybook/internal/server/models"
	"github.com/dmitrijs2005/daybook/internal/server/services"
)

const testSecret = "test-secret"

type fakeUsers struct {
	mu        sync.Mutex
	users     map[string]*models.User
	refresh   map[string]string
	accessTTL time.Duration
	seq       int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{}, refresh: map[string]string{}, accessTTL: time.Minute}
}

func (f *fakeUsers) setAccessTTL(d time.Duration) {
	f.mu.Lock()
	f.accessTTL = d
	f.mu.Unlock()
}

func (f *fakeUsers) Register(_ context.Context, username string, salt, verifier []byte) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if username == "" {
		return nil, services.ErrInvalidArgument
	}
	if _, ok := f.users[username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.seq++
	u := &models.User{ID: fmt.Sprintf("user-%d", f.seq), UserName: username, Salt: salt, Verifier: verifier}
	f.users[username] = u
	return u, nil
}

func (f *fakeUsers) GetSalt(_ context.Context, username string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[username]; ok {
		return u.Salt, nil
	}
	return []byte("random"), nil
}

func (f *fakeUsers) pair(userID string) (*services.TokenPair, error) {
	access, err := auth.GenerateToken(userID, []byte(testSecret), f.accessTTL)
	if err != nil {
		return nil, err
	}
	f.seq++
	refresh := fmt.Sprintf("refresh-%d", f.seq)
	f.refresh[refresh] = userID
	return &services.TokenPair{AccessToken: access, RefreshToken: refresh, UserID: userID}, nil
}

func (f *fakeUsers) Login(_ context.Context, username string, verifier []byte) (*services.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok || string(u.Verifier) != string(verifier) {
		return nil, common.ErrorUnauthorized
	}
	return f.pair(u.ID)
}

func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.refresh[token]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	delete(f.refresh, token)
	return f.pair(userID)
}

func (f *fakeUsers) WhoAmI(_ context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeEntries struct {
	mu        sync.Mutex
	rows      map[string]*models.Entry
	uploadURL string
	deleted   []string
	failWith  error
	clock     time.Time
}

func newFakeEntries() *fakeEntries {
	return &fakeEntries{
		rows:  map[string]*models.Entry{},
		clock: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeEntries) Query(_ context.Context, userID, updatedAfter string) ([]*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	after, err := models.ParseTime(updatedAfter)
	if err != nil {
		return nil, services.ErrInvalidArgument
	}
	var out []*models.Entry
	for _, e := range f.rows {
		if e.UserID == userID && (after.IsZero() || e.UpdatedAt.After(after)) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeEntries) Upsert(_ context.Context, e *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return common.ErrorInvalidDate
	}
	k := e.UserID + "|" + e.Date
	if old, ok := f.rows[k]; ok {
		e.ID = old.ID
	} else {
		e.ID = "cloud-" + e.Date
	}
	f.clock = f.clock.Add(time.Millisecond)
	e.UpdatedAt = f.clock
	cp := *e
	f.rows[k] = &cp
	return nil
}

func (f *fakeEntries) Delete(_ context.Context, userID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := userID + "|" + date
	if _, ok := f.rows[k]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, k)
	return nil
}

func (f *fakeEntries) UploadURLs(_ context.Context, userID, key, _ string) (string, string, error) {
	if !strings.HasPrefix(key, userID+"/") {
		return "", "", common.ErrorForbidden
	}
	return f.uploadURL + "/" + key, "https://media.test/media/" + key, nil
}

func (f *fakeEntries) DeleteBlobs(_ context.Context, userID string, keys []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		if !strings.HasPrefix(k, userID+"/") {
			return 0, common.ErrorForbidden
		}
	}
	f.deleted = append(f.deleted, keys...)
	return len(keys), nil
}
