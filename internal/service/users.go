package service

import (
	"github.com/sdsalyer/moonbase/internal/config"
	"github.com/sdsalyer/moonbase/internal/store"
)

// Users is the C6 service over the C5 Users repository.
type Users struct {
	repo *store.Users
	cfg  config.FeaturesConfig
}

// NewUsers wraps repo, reading its validation limits from cfg.
func NewUsers(repo *store.Users, cfg config.FeaturesConfig) *Users {
	return &Users{repo: repo, cfg: cfg}
}

func (s *Users) limits() store.Limits {
	max, maxMsg := limitsFromFeatures(s.cfg)
	return store.Limits{MaxUsernameLength: max, MaxMessageLength: maxMsg}
}

func (s *Users) Load(username string) (store.User, bool) { return s.repo.Load(username) }

func (s *Users) Exists(username string) bool { return s.repo.Exists(username) }

func (s *Users) Register(req store.RegisterRequest) (store.User, error) {
	return s.repo.Register(req, s.limits())
}

func (s *Users) Authenticate(username, password string) (store.User, error) {
	return s.repo.Authenticate(username, password)
}

func (s *Users) Stats() store.UserStats { return s.repo.Stats() }

func (s *Users) MarkOnline(username string)  { s.repo.MarkOnline(username) }
func (s *Users) MarkOffline(username string) { s.repo.MarkOffline(username) }
