// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bizdesk/internal/account"
	"github.com/taibuivan/bizdesk/internal/auth"
	"github.com/taibuivan/bizdesk/internal/platform/apperr"
	"github.com/taibuivan/bizdesk/internal/platform/sec"
)

const (
	testAccessSecret  = "access-secret-access-secret-access-secret"
	testRefreshSecret = "refresh-secret-refresh-secret-refresh-secret"
	testIssuer        = "bizdesk.test"
	testPassword      = "correct horse battery"
)

// # Clock

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *testClock) Advance(duration time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(duration)
}

// # Accounts

type memoryAccounts struct {
	mu       sync.Mutex
	accounts map[string]*account.Account
	err      error
}

func (repository *memoryAccounts) find(match func(*account.Account) bool) (*account.Account, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.err != nil {
		return nil, repository.err
	}
	for _, candidate := range repository.accounts {
		if match(candidate) {
			copied := *candidate
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repository *memoryAccounts) FindByUsername(_ context.Context, username string) (*account.Account, error) {
	return repository.find(func(candidate *account.Account) bool {
		return candidate.IsActive && candidate.Username == username
	})
}

func (repository *memoryAccounts) FindByPhone(_ context.Context, phone string) (*account.Account, error) {
	return repository.find(func(candidate *account.Account) bool {
		return candidate.IsActive && candidate.Phone == phone
	})
}

func (repository *memoryAccounts) FindByID(_ context.Context, id string) (*account.Account, error) {
	return repository.find(func(candidate *account.Account) bool { return candidate.ID == id })
}

func (repository *memoryAccounts) update(id string, change func(*account.Account)) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	change(repository.accounts[id])
}

// # Token Store

type storedToken struct {
	record  auth.TokenRecord
	revoked bool
	expired bool
}

type storedSession struct {
	record  auth.SessionRecord
	device  auth.Device
	expired bool
}

type memoryStore struct {
	mu         sync.Mutex
	sessions   map[string]*storedSession
	tokens     map[string]*storedToken
	byRefresh  map[string]string
	putErr     error
	duplicates int
	sweeps     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions:  make(map[string]*storedSession),
		tokens:    make(map[string]*storedToken),
		byRefresh: make(map[string]string),
	}
}

func (store *memoryStore) Put(_ context.Context, session auth.NewSession, token auth.NewAccessToken) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.putErr != nil {
		return store.putErr
	}
	if store.duplicates > 0 {
		store.duplicates--
		return auth.ErrDuplicate
	}
	if _, taken := store.sessions[session.ID]; taken {
		return auth.ErrDuplicate
	}
	if token.SessionID != session.ID {
		return errors.New("token references another session")
	}

	store.sessions[session.ID] = &storedSession{
		record: auth.SessionRecord{
			ID:        session.ID,
			AccountID: session.AccountID,
			TenantID:  session.TenantID,
			ExpiresAt: session.ExpiresAt,
			Active:    true,
		},
		device: session.Device,
	}
	store.byRefresh[session.RefreshTokenHash] = session.ID
	store.putToken(token)
	return nil
}

func (store *memoryStore) putToken(token auth.NewAccessToken) {
	store.tokens[token.TokenHash] = &storedToken{record: auth.TokenRecord{
		TokenHash: token.TokenHash,
		SessionID: token.SessionID,
		AccountID: token.AccountID,
		IssuedAt:  token.IssuedAt,
		ExpiresAt: token.ExpiresAt,
	}}
}

func (store *memoryStore) PutAccessToken(_ context.Context, token auth.NewAccessToken) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.sessions[token.SessionID]; !ok {
		return errors.New("foreign key violation")
	}
	store.putToken(token)
	return nil
}

func (store *memoryStore) Get(_ context.Context, tokenHash string) (*auth.TokenRecord, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	row, ok := store.tokens[tokenHash]
	if !ok {
		return nil, auth.ErrNotFound
	}
	record := row.record
	record.Revoked = row.revoked || store.sessions[row.record.SessionID].record.Revoked
	return &record, nil
}

func (store *memoryStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	record, err := store.Get(ctx, tokenHash)
	if errors.Is(err, auth.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return record.Revoked, nil
}

func (store *memoryStore) FindSessionByRefreshHash(_ context.Context, refreshTokenHash string) (*auth.SessionRecord, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	sessionID, ok := store.byRefresh[refreshTokenHash]
	if !ok {
		return nil, auth.ErrNotFound
	}
	record := store.sessions[sessionID].record
	return &record, nil
}

func (store *memoryStore) Revoke(_ context.Context, sessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	session, ok := store.sessions[sessionID]
	if !ok {
		return nil
	}
	session.record.Revoked = true
	for _, row := range store.tokens {
		if row.record.SessionID == sessionID {
			row.revoked = true
		}
	}
	return nil
}

func (store *memoryStore) RevokeAllForAccount(_ context.Context, accountID string) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var revoked int64
	for _, session := range store.sessions {
		if session.record.AccountID == accountID && !session.record.Revoked {
			session.record.Revoked = true
			session.record.Active = false
			revoked++
		}
	}
	for _, row := range store.tokens {
		if store.sessions[row.record.SessionID].record.Revoked {
			row.revoked = true
		}
	}
	return revoked, nil
}

func (store *memoryStore) ExpireOlderThan(_ context.Context, now time.Time) (auth.ExpiryCounts, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sweeps++

	var counts auth.ExpiryCounts
	for _, row := range store.tokens {
		if !row.expired && row.record.ExpiresAt.Before(now) {
			row.expired = true
			counts.AccessTokens++
		}
	}
	for _, session := range store.sessions {
		if !session.expired && session.record.ExpiresAt.Before(now) {
			session.expired = true
			counts.Sessions++
		}
	}
	return counts, nil
}

func (store *memoryStore) sessionCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.sessions)
}

func (store *memoryStore) session(id string) storedSession {
	store.mu.Lock()
	defer store.mu.Unlock()
	return *store.sessions[id]
}

func (store *memoryStore) sweepCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.sweeps
}

// # Recorder

type memoryRecorder struct {
	mu          sync.Mutex
	attempts    []auth.LoginAttempt
	devices     map[string]auth.Device
	deactivated map[string]int
	err         error
}

func newMemoryRecorder() *memoryRecorder {
	return &memoryRecorder{devices: make(map[string]auth.Device), deactivated: make(map[string]int)}
}

func (recorder *memoryRecorder) RecordLogin(_ context.Context, attempt auth.LoginAttempt) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.err != nil {
		return recorder.err
	}
	recorder.attempts = append(recorder.attempts, attempt)
	return nil
}

func (recorder *memoryRecorder) RecordSession(_ context.Context, sessionID string, device auth.Device) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.err != nil {
		return recorder.err
	}
	recorder.devices[sessionID] = device
	return nil
}

func (recorder *memoryRecorder) DeactivateSession(_ context.Context, sessionID string) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.err != nil {
		return recorder.err
	}
	recorder.deactivated[sessionID]++
	return nil
}

func (recorder *memoryRecorder) loginAttempts() []auth.LoginAttempt {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]auth.LoginAttempt(nil), recorder.attempts...)
}

// # Limiter

type memoryLimiter struct {
	mu          sync.Mutex
	maxFailures int
	failures    map[string]int
	err         error
}

func newMemoryLimiter(maxFailures int) *memoryLimiter {
	return &memoryLimiter{maxFailures: maxFailures, failures: make(map[string]int)}
}

func (limiter *memoryLimiter) Reserve(_ context.Context, key string) (bool, time.Duration, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if limiter.err != nil {
		return true, 0, limiter.err
	}
	if limiter.failures[key] >= limiter.maxFailures {
		return false, 15 * time.Minute, nil
	}
	limiter.failures[key]++
	return true, 0, nil
}

func (limiter *memoryLimiter) Release(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if limiter.failures[key] > 0 {
		limiter.failures[key]--
	}
	return limiter.err
}

func (limiter *memoryLimiter) Reset(_ context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.failures, key)
	return limiter.err
}

func (limiter *memoryLimiter) count(key string) int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return limiter.failures[key]
}

// # Fixture

const (
	aliceID   = "0190a1b2-0000-7000-8000-000000000001"
	bobID     = "0190a1b2-0000-7000-8000-000000000002"
	acmeID    = "0190a1b2-0000-7000-8000-0000000000c1"
	globexID  = "0190a1b2-0000-7000-8000-0000000000c2"
	branchID  = "0190a1b2-0000-7000-8000-0000000000b1"
	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
)

var (
	passwordHashOnce sync.Once
	passwordHash     string
)

type fixture struct {
	service  *auth.Service
	tokens   *sec.TokenService
	accounts *memoryAccounts
	store    *memoryStore
	recorder *memoryRecorder
	limiter  *memoryLimiter
	clock    *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	passwordHashOnce.Do(func() {
		hash, err := sec.HashPassword(testPassword)
		require.NoError(t, err)
		passwordHash = hash
	})

	tokens, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, testIssuer)
	require.NoError(t, err)

	accounts := &memoryAccounts{accounts: map[string]*account.Account{
		aliceID: {
			ID: aliceID, CompanyID: acmeID, CompanyName: "Acme", BranchID: branchID,
			Username: "alice", PasswordHash: passwordHash, DisplayName: "Alice",
			Role: sec.RoleManager, IsActive: true, CompanyActive: true,
		},
		bobID: {
			ID: bobID, CompanyID: globexID, CompanyName: "Globex",
			Phone: "+15551234567", PasswordHash: passwordHash, DisplayName: "Bob",
			Role: sec.RoleStaff, IsActive: true, CompanyActive: false,
		},
	}}

	current := &fixture{
		tokens:   tokens,
		accounts: accounts,
		store:    newMemoryStore(),
		recorder: newMemoryRecorder(),
		limiter:  newMemoryLimiter(10),
		clock:    &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}

	current.service = auth.NewService(auth.Dependencies{
		Accounts: current.accounts,
		Store:    current.store,
		Recorder: current.recorder,
		Limiter:  current.limiter,
		Tokens:   tokens,
	}, auth.Options{StoreTimeout: time.Second, Now: current.clock.Now})

	return current
}

func (current *fixture) login(t *testing.T, identifier string) *auth.LoginResult {
	t.Helper()
	result, err := current.service.Login(context.Background(), auth.LoginInput{
		Identifier: identifier,
		Password:   testPassword,
		IPAddress:  "203.0.113.7",
		UserAgent:  browserUA,
		DeviceID:   "device-1",
	})
	require.NoError(t, err)
	return result
}

// wireError resolves err to the error model a client would receive.
func bearer(token string) string {
	return "Bearer " + token
}
