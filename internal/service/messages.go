package service

import (
	"github.com/sdsalyer/moonbase/internal/config"
	"github.com/sdsalyer/moonbase/internal/store"
)

// Messages is the C6 service over the C5 Messages repository.
type Messages struct {
	repo *store.Messages
	cfg  config.FeaturesConfig
}

// NewMessages wraps repo, reading its validation limits from cfg.
func NewMessages(repo *store.Messages, cfg config.FeaturesConfig) *Messages {
	return &Messages{repo: repo, cfg: cfg}
}

func (s *Messages) limits() store.Limits {
	max, maxMsg := limitsFromFeatures(s.cfg)
	return store.Limits{MaxUsernameLength: max, MaxMessageLength: maxMsg}
}

func (s *Messages) Send(req store.SendMessageRequest) (store.PrivateMessage, error) {
	return s.repo.Send(req, s.limits())
}

func (s *Messages) Get(id uint32, username string) (store.PrivateMessage, bool) {
	return s.repo.Get(id, username)
}

func (s *Messages) Inbox(username string) []store.PrivateMessage { return s.repo.Inbox(username) }
func (s *Messages) Sent(username string) []store.PrivateMessage  { return s.repo.Sent(username) }

func (s *Messages) MarkRead(id uint32, username string) error { return s.repo.MarkRead(id, username) }
func (s *Messages) Delete(id uint32, username string) error   { return s.repo.Delete(id, username) }

func (s *Messages) Stats(username string) store.MessageStats { return s.repo.Stats(username) }
