// Package store implements C5: serialized, mutex-guarded repositories over
// whole-file JSON persistence for users, bulletins, and private messages.
//
// Grounded on the teacher's internal/user.UserMgr and internal/message
// manager (load-whole-file-into-cache, mutate-under-lock, rewrite-whole-file
// pattern) and on original_source/src/{user_repository,bulletin_repository,
// message_repository}.rs for the exact entity shapes and validation rules.
package store

import "time"

// Limits carries the two config-derived validation bounds the repositories
// enforce (§4.5); sourced from config.FeaturesConfig.
type Limits struct {
	MaxUsernameLength int
	MaxMessageLength  int
}

// User is the §3 User entity.
type User struct {
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
	LoginCount   int       `json:"loginCount"`
	IsActive     bool      `json:"isActive"`
}

// UserStats is the aggregate view the Users menu (C7) renders.
type UserStats struct {
	TotalUsers   int
	OnlineUsers  []string
	RecentLogins []User
}

// RegisterRequest is the input to Users.Register.
type RegisterRequest struct {
	Username string
	Password string
	Email    string
}

// Bulletin is the §3 Bulletin entity.
type Bulletin struct {
	ID       uint32          `json:"id"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Author   string          `json:"author"`
	PostedAt time.Time       `json:"postedAt"`
	IsSticky bool            `json:"isSticky"`
	ReadBy   map[string]bool `json:"readBy"`
}

// PostBulletinRequest is the input to Bulletins.Post.
type PostBulletinRequest struct {
	Title    string
	Content  string
	Author   string
	IsSticky bool
}

// BulletinStats is the aggregate view the Bulletins menu (C7) renders.
type BulletinStats struct {
	TotalBulletins int
	UnreadCount    int
	Recent         []Bulletin
}

// PrivateMessage is the §3 private-message entity.
type PrivateMessage struct {
	ID                   uint32     `json:"id"`
	Sender               string     `json:"sender"`
	Recipient            string     `json:"recipient"`
	Subject              string     `json:"subject"`
	Content              string     `json:"content"`
	SentAt               time.Time  `json:"sentAt"`
	ReadAt               *time.Time `json:"readAt,omitempty"`
	IsDeletedBySender    bool       `json:"isDeletedBySender"`
	IsDeletedByRecipient bool       `json:"isDeletedByRecipient"`
}

// IsVisibleTo implements §3's message visibility rule.
func (m *PrivateMessage) IsVisibleTo(username string) bool {
	switch username {
	case m.Sender:
		return !m.IsDeletedBySender
	case m.Recipient:
		return !m.IsDeletedByRecipient
	default:
		return false
	}
}

// SendMessageRequest is the input to Messages.Send.
type SendMessageRequest struct {
	Sender    string
	Recipient string
	Subject   string
	Content   string
}

// MessageStats is the aggregate view the Messages menu (C7) renders.
type MessageStats struct {
	UnreadCount int
	TotalInbox  int
	TotalSent   int
	Recent      []PrivateMessage
}
