package session

import (
	"github.com/sdsalyer/moonbase/internal/bbserr"
	"github.com/sdsalyer/moonbase/internal/menu"
	"github.com/sdsalyer/moonbase/internal/store"
)

// dispatch applies one menu.MenuAction returned by the active screen's
// HandleInput, per §4.8's action dispatch table. It returns quit=true only
// for ActionQuit; a non-nil error is either an InvalidInput/AuthFailed
// result meant to be shown as a modal message by the caller, or a fatal I/O
// error that should end the session.
func (s *Session) dispatch(action menu.MenuAction) (bool, error) {
	switch action.Kind {
	case menu.ActionNone:
		return false, nil

	case menu.ActionGoTo:
		s.resetScreen(action.Target)
		s.currentMenu = action.Target
		return false, nil

	case menu.ActionLogin:
		if err := s.loginFlow(); err != nil {
			return false, err
		}
		return false, nil

	case menu.ActionLogout:
		s.logout()
		s.currentMenu = menu.Main
		return false, nil

	case menu.ActionQuit:
		return true, nil

	case menu.ActionShowMessage:
		return false, s.showMessage(action.Text)

	case menu.ActionBulletinRefreshListing, menu.ActionBulletinToggleFilter:
		return false, s.refreshBulletinListing()

	case menu.ActionBulletinMarkRead:
		return false, s.readBulletin(action.BulletinID)

	case menu.ActionBulletinPost:
		return false, s.postBulletin(action.BulletinTitle, action.BulletinContent)

	case menu.ActionUserToggleSort:
		return false, nil

	case menu.ActionMessageLoadInbox:
		return false, s.loadInbox()

	case menu.ActionMessageLoadSent:
		return false, s.loadSent()

	case menu.ActionMessageMarkRead:
		return false, s.readMessage(action.MessageID)

	case menu.ActionMessageDelete:
		return false, s.deleteMessage(action.MessageID)

	case menu.ActionMessageComposeSubject:
		return false, s.promptComposeSubject(action.Recipient)

	case menu.ActionMessageComposeSend:
		return false, s.sendMessage(action.Recipient, action.Subject, action.Content)

	case menu.ActionFilesMenu:
		return false, s.openFilesMenu()

	default:
		return false, nil
	}
}

func (s *Session) resetScreen(target menu.Menu) {
	switch target {
	case menu.Bulletins:
		s.bulletinsScreen.Reset()
	case menu.Users:
		s.usersScreen.Reset()
	case menu.Messages:
		s.messagesScreen.Reset()
	}
}

func (s *Session) requireLogin() error {
	if s.user == nil {
		return bbserr.AuthFailed("you must be logged in to do that")
	}
	return nil
}

func (s *Session) refreshBulletinListing() error {
	stats := s.bulletins.Stats(s.currentUserPtr())
	username, _ := s.CurrentUsername()
	s.bulletinsScreen.SetListing(filterUnread(stats.Recent, username, s.bulletinsScreen.UnreadOnly()))
	return nil
}

func (s *Session) readBulletin(id uint32) error {
	bul, ok := s.bulletins.Load(id)
	if !ok {
		return bbserr.InvalidInput("bulletin %d does not exist", id)
	}
	if s.user != nil {
		if err := s.bulletins.MarkRead(id, s.user.Username); err != nil {
			return err
		}
	}
	s.bulletinsScreen.SetReading(bul)
	return nil
}

func (s *Session) postBulletin(title, content string) error {
	if s.user == nil && !s.cfg.Features.AllowAnonymous {
		return s.requireLogin()
	}
	_, err := s.bulletins.Post(store.PostBulletinRequest{
		Title:   title,
		Content: content,
		Author:  s.DisplayUsername(),
	})
	return err
}

func (s *Session) currentUserPtr() *string {
	if s.user == nil {
		return nil
	}
	name := s.user.Username
	return &name
}

func (s *Session) loadInbox() error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	s.messagesScreen.SetInbox(s.messages.Inbox(s.user.Username))
	return nil
}

func (s *Session) loadSent() error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	s.messagesScreen.SetSent(s.messages.Sent(s.user.Username))
	return nil
}

func (s *Session) readMessage(id uint32) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	msg, ok := s.messages.Get(id, s.user.Username)
	if !ok {
		return bbserr.InvalidInput("message %d does not exist", id)
	}
	if msg.Recipient == s.user.Username {
		if err := s.messages.MarkRead(id, s.user.Username); err != nil {
			return err
		}
	}
	s.messagesScreen.SetReading(msg)
	return nil
}

func (s *Session) deleteMessage(id uint32) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	return s.messages.Delete(id, s.user.Username)
}

// promptComposeSubject implements §4.8's synchronous subject prompt: the
// Compose sub-state only collects a recipient via the normal render/input
// turn, so the controller steps outside that loop here to read the subject
// line directly before handing control back to ComposeContent.
func (s *Session) promptComposeSubject(recipient string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if err := s.write("Subject: "); err != nil {
		return err
	}
	subject, err := s.readLine()
	if err != nil {
		return err
	}
	s.messagesScreen.BeginComposeContent(recipient, subject)
	return nil
}

func (s *Session) sendMessage(recipient, subject, content string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	_, err := s.messages.Send(store.SendMessageRequest{
		Sender:    s.user.Username,
		Recipient: recipient,
		Subject:   subject,
		Content:   content,
	})
	return err
}
