package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/google/uuid"
)

var errStorage = errors.New("storage down")

type fakeUserRepo struct {
	users map[string]*dmn.User
	mu    sync.Mutex
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*dmn.User)}
}

func (f *fakeUserRepo) Save(user *dmn.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.users[user.Username]; ok && existing.ID != user.ID {
		return errors.New("username conflict")
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) ByID(id uuid.UUID) (*dmn.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserRepo) ByUsername(username string) (*dmn.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

type fakeTokenizer struct {
	claims map[string]interface{}
	exp    time.Duration
}

func (f *fakeTokenizer) Generate(claims map[string]interface{}, expTime time.Duration) (string, error) {
	f.claims = claims
	f.exp = expTime
	return "token", nil
}

func (f *fakeTokenizer) Decode(string) (map[string]interface{}, error) {
	return f.claims, nil
}

type fakeJourneyLog struct {
	records []*dmn.JourneyRecord
	err     error
	mu      sync.Mutex
}

func (f *fakeJourneyLog) Append(_ context.Context, record *dmn.JourneyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeJourneyLog) ByOwner(_ context.Context, ownerID uuid.UUID, limit int64) ([]*dmn.JourneyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*dmn.JourneyRecord
	for k := len(f.records) - 1; k >= 0 && int64(len(out)) < limit; k-- {
		if f.records[k].OwnerID == ownerID {
			out = append(out, f.records[k])
		}
	}
	return out, nil
}

type fakeRouteBoard struct {
	entries []dmn.RouteEntry
	mu      sync.Mutex
}

func (f *fakeRouteBoard) Submit(_ context.Context, entry dmn.RouteEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRouteBoard) Top(_ context.Context, n int64) ([]dmn.RouteEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]dmn.RouteEntry(nil), f.entries...)
	sort.Slice(out, func(a, b int) bool { return out[a].PathLength > out[b].PathLength })
	if int64(len(out)) > n {
		out = out[:n]
	}
	return out, nil
}

type fakeLogger struct {
	errors []string
	mu     sync.Mutex
}

func (f *fakeLogger) Info(string) {}

func (f *fakeLogger) Warning(string) {}

func (f *fakeLogger) Error(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, message)
}
