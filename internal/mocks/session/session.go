package session

// Package session contains simple hand-written test doubles for the session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/bloodconnect/bloodconnect-web/internal/domain/auth"
	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStorage = (*MemoryStorage)(nil)
	_ ports.AuthAPI        = (*ScriptedAuth)(nil)
)

// MemoryStorage is a map-backed SessionStorage that records calls and can inject failures.
type MemoryStorage struct {
	mu     sync.Mutex
	data   map[string]ports.StoredSession
	Saves  int
	Clears int

	LoadErr  error
	SaveErr  error
	ClearErr error
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]ports.StoredSession)}
}

func (m *MemoryStorage) Load(_ context.Context, id string) (ports.StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return ports.StoredSession{}, m.LoadErr
	}
	s, ok := m.data[id]
	if !ok {
		return ports.StoredSession{}, apperrors.NotFound("session not stored")
	}
	return s, nil
}

func (m *MemoryStorage) Save(_ context.Context, id string, s ports.StoredSession, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data[id] = s
	return nil
}

func (m *MemoryStorage) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	delete(m.data, id)
	return m.ClearErr
}

// Put seeds storage directly, bypassing counters.
func (m *MemoryStorage) Put(id string, s ports.StoredSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = s
}

// Has reports whether anything is stored for id.
func (m *MemoryStorage) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[id]
	return ok
}

// ScriptedAuth is an AuthAPI whose behavior is supplied per test.
type ScriptedAuth struct {
	LoginFunc            func(ctx context.Context, creds domainauth.Credentials) (ports.LoginResult, error)
	ProfileFunc          func(ctx context.Context, token string) (map[string]any, error)
	RegisterDonorFunc    func(ctx context.Context, reg model.DonorRegistration) error
	RegisterHospitalFunc func(ctx context.Context, reg model.HospitalRegistration) error

	mu            sync.Mutex
	ProfileCalls  int
	LoginAttempts int
}

func (s *ScriptedAuth) Login(ctx context.Context, creds domainauth.Credentials) (ports.LoginResult, error) {
	s.mu.Lock()
	s.LoginAttempts++
	s.mu.Unlock()
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, creds)
	}
	return ports.LoginResult{}, apperrors.Unauthorized("Invalid credentials")
}

func (s *ScriptedAuth) Profile(ctx context.Context, token string) (map[string]any, error) {
	s.mu.Lock()
	s.ProfileCalls++
	s.mu.Unlock()
	if s.ProfileFunc != nil {
		return s.ProfileFunc(ctx, token)
	}
	return map[string]any{}, nil
}

func (s *ScriptedAuth) RegisterDonor(ctx context.Context, reg model.DonorRegistration) error {
	if s.RegisterDonorFunc != nil {
		return s.RegisterDonorFunc(ctx, reg)
	}
	return nil
}

func (s *ScriptedAuth) RegisterHospital(ctx context.Context, reg model.HospitalRegistration) error {
	if s.RegisterHospitalFunc != nil {
		return s.RegisterHospitalFunc(ctx, reg)
	}
	return nil
}

// Profiles reports how many profile validations ran.
func (s *ScriptedAuth) Profiles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ProfileCalls
}
