package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// sessionTTL bounds how long an idle session keeps its user.
const sessionTTL = 24 * time.Hour

type AuthService struct {
	Store store.Store

	mu  sync.Mutex
	now func() time.Time
}

func NewAuthService(st store.Store) *AuthService {
	return &AuthService{Store: st, now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the time source. Used by tests.
func (s *AuthService) SetClock(now func() time.Time) { s.now = now }

func (s *AuthService) byEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := store.ReadCollection[domain.User](ctx, s.Store, domain.UsersKey)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

// Login checks the password and binds a fresh session id to the user. The
// session the client came with, if any, is dropped, so a planted id never
// becomes authenticated.
func (s *AuthService) Login(ctx context.Context, prevSID, email, password string) (u *domain.User, sid string, err error) {
	defer func() { observe("auth", "login", err) }()
	u, err = s.byEmail(ctx, email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	sid = uuid.NewString()
	if err := s.writeSession(ctx, sid, u.ID, prevSID); err != nil {
		return nil, "", err
	}
	return u, sid, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.writeSession(ctx, "", "", sid)
}

// CurrentUser resolves the user bound to sid. Unknown, logged out and expired
// sessions are ErrNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	sessions, err := store.ReadCollection[domain.Session](ctx, s.Store, domain.SessionsKey)
	if err != nil {
		return nil, err
	}
	var userID string
	for _, x := range sessions {
		if x.ID == sid && x.UserID != "" && s.now().Sub(x.LastSeen) < sessionTTL {
			userID = x.UserID
			break
		}
	}
	if userID == "" {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	users, err := store.ReadCollection[domain.User](ctx, s.Store, domain.UsersKey)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == userID {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
}

// writeSession drops the sessions listed in drop, then binds sid to userID
// when both are set. Expired sessions are dropped on the way.
func (s *AuthService) writeSession(ctx context.Context, sid, userID string, drop ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := store.ReadCollection[domain.Session](ctx, s.Store, domain.SessionsKey)
	if err != nil {
		return err
	}
	now := s.now()
	kept := make([]domain.Session, 0, len(sessions)+1)
	for _, x := range sessions {
		if x.ID == sid || slices.Contains(drop, x.ID) || now.Sub(x.LastSeen) >= sessionTTL {
			continue
		}
		kept = append(kept, x)
	}
	if sid != "" && userID != "" {
		kept = append(kept, domain.Session{ID: sid, UserID: userID, LastSeen: now})
	}
	return store.WriteCollection(ctx, s.Store, domain.SessionsKey, kept)
}
