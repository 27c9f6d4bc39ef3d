package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/yeremiapane/gobblego/database"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/utils"
)

// SessionService holds the identity of the diner using this client.
// is_leader is whatever the backend said at join time; it is never recomputed here.
type SessionService struct {
	backend  Backend
	store    database.Store
	notifier notify.Notifier

	mutex   sync.RWMutex
	session *models.Session
}

func NewSessionService(backend Backend, store database.Store, notifier notify.Notifier) *SessionService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &SessionService{backend: backend, store: store, notifier: notifier}
}

// Load reads the persisted identity. A missing or unreadable record leaves the
// session anonymous; it is never fatal.
func (s *SessionService) Load(ctx context.Context) *models.Session {
	session, err := s.store.LoadSession(ctx)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			utils.ErrorLogger.Warnf("Ignoring unreadable session record: %v", err)
		}
		session = nil
	}
	if session != nil && !session.Joined() {
		utils.ErrorLogger.Warnf("Ignoring incomplete session record for user %q", session.UserID)
		session = nil
	}

	s.mutex.Lock()
	s.session = session
	s.mutex.Unlock()

	if session != nil {
		utils.InfoLogger.Infof("Restored session user=%s table=%s leader=%t", session.UserID, session.TableID, session.IsLeader)
	}
	return s.Current()
}

// Join attaches a new diner to a table and persists the returned identity.
func (s *SessionService) Join(ctx context.Context, tableID, userName string) (*models.Session, error) {
	tableID = strings.TrimSpace(tableID)
	userName = strings.TrimSpace(userName)
	if tableID == "" || userName == "" {
		return nil, s.fail(ErrInvalidInput)
	}

	user, err := s.backend.JoinTable(ctx, models.JoinTableRequest{TableID: tableID, UserName: userName})
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to join table %s: %v", tableID, err)
		s.notifier.Error(notify.EventSessionError, UserMessage(err), nil)
		return nil, err
	}

	session := models.SessionFromUser(*user, tableID)
	if !session.Joined() {
		err := &TransportError{Method: "POST", Path: "/users/", Err: errors.New("join response is missing user_id or cart_id")}
		utils.ErrorLogger.Error(err)
		s.notifier.Error(notify.EventSessionError, UserMessage(err), nil)
		return nil, err
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		// identity tetap dipakai di memori walaupun gagal disimpan
		utils.ErrorLogger.Errorf("Failed to persist session: %v", err)
	}

	s.mutex.Lock()
	s.session = &session
	s.mutex.Unlock()

	utils.InfoLogger.Infof("User %s joined table %s (leader=%t)", session.UserID, session.TableID, session.IsLeader)
	s.notifier.Info(notify.EventSessionJoined, "Welcome, "+session.UserName, session)
	return s.Current(), nil
}

// Members lists the diners of a table. An empty tableID falls back to the session's table.
func (s *SessionService) Members(ctx context.Context, tableID string) ([]models.User, error) {
	tableID = strings.TrimSpace(tableID)
	if tableID == "" {
		if current := s.Current(); current != nil {
			tableID = current.TableID
		}
	}
	if tableID == "" {
		return nil, s.fail(ErrInvalidInput)
	}

	users, err := s.backend.ListTableMembers(ctx, tableID)
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to list members of table %s: %v", tableID, err)
		s.notifier.Error(notify.EventSessionError, UserMessage(err), nil)
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Current returns a copy of the session, or nil when anonymous.
func (s *SessionService) Current() *models.Session {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.session == nil {
		return nil
	}
	session := *s.session
	return &session
}

func (s *SessionService) fail(err error) error {
	return publishFailure(s.notifier, notify.EventSessionError, err)
}

// Require returns the joined session or ErrNoSession.
func (s *SessionService) Require() (*models.Session, error) {
	current := s.Current()
	if !current.Joined() {
		return nil, ErrNoSession
	}
	return current, nil
}

func (s *SessionService) IsLeader() bool {
	current := s.Current()
	return current.Joined() && current.IsLeader
}

// Clear forgets the identity locally and in the store.
func (s *SessionService) Clear(ctx context.Context) error {
	s.mutex.Lock()
	s.session = nil
	s.mutex.Unlock()

	if err := s.store.ClearSession(ctx); err != nil {
		utils.ErrorLogger.Errorf("Failed to clear session record: %v", err)
		return err
	}
	utils.InfoLogger.Info("Session cleared")
	return nil
}
