package service

import (
	"github.com/sdsalyer/moonbase/internal/config"
	"github.com/sdsalyer/moonbase/internal/store"
)

// Bulletins is the C6 service over the C5 Bulletins repository.
type Bulletins struct {
	repo *store.Bulletins
	cfg  config.FeaturesConfig
}

// NewBulletins wraps repo, reading its validation limits from cfg.
func NewBulletins(repo *store.Bulletins, cfg config.FeaturesConfig) *Bulletins {
	return &Bulletins{repo: repo, cfg: cfg}
}

func (s *Bulletins) limits() store.Limits {
	max, maxMsg := limitsFromFeatures(s.cfg)
	return store.Limits{MaxUsernameLength: max, MaxMessageLength: maxMsg}
}

func (s *Bulletins) Load(id uint32) (store.Bulletin, bool) { return s.repo.Load(id) }

func (s *Bulletins) Post(req store.PostBulletinRequest) (store.Bulletin, error) {
	return s.repo.Post(req, s.limits())
}

func (s *Bulletins) MarkRead(id uint32, username string) error {
	return s.repo.MarkRead(id, username)
}

func (s *Bulletins) Stats(currentUser *string) store.BulletinStats {
	return s.repo.Stats(currentUser)
}
