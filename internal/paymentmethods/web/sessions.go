package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/screen"
)

const sessionCookie = "pm_session"

// Sessions keeps one screen per browser. Idle sessions expire after ttl.
type Sessions struct {
	mu        sync.Mutex
	screens   *gocache.Cache
	ttl       time.Duration
	newScreen func() *screen.Screen
}

func NewSessions(ttl time.Duration, newScreen func() *screen.Screen) *Sessions {
	return &Sessions{
		screens:   gocache.New(ttl, ttl/2),
		ttl:       ttl,
		newScreen: newScreen,
	}
}

// Screen returns the caller's screen, starting a new session when the
// cookie is missing, malformed or expired.
func (s *Sessions) Screen(w http.ResponseWriter, r *http.Request) *screen.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if found, ok := s.screens.Get(id.String()); ok {
				sc := found.(*screen.Screen)
				s.screens.Set(id.String(), sc, s.ttl)
				return sc
			}
		}
	}

	id := uuid.New()
	sc := s.newScreen()
	s.screens.Set(id.String(), sc, s.ttl)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return sc
}

func (s *Sessions) Count() int {
	return s.screens.ItemCount()
}
