package memory

import (
	"time"

	"lecturelens-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type LiveSessionRepository struct {
	cache *cache.Cache
}

func NewLiveSessionRepository() *LiveSessionRepository {
	// Live state expires an hour after the last segment, purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &LiveSessionRepository{
		cache: c,
	}
}

func (r *LiveSessionRepository) Save(session *store.LiveSession) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *LiveSessionRepository) Get(sessionID string) (*store.LiveSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.LiveSession), true
	}
	return nil, false
}

func (r *LiveSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
