package models

// User is one diner attached to a table/cart session as returned by the backend.
type User struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	CartID   string `json:"cart_id"`
	TableID  string `json:"table_id,omitempty"`
	IsLeader bool   `json:"is_leader"`
}

// Session is the identity record persisted on the client between loads.
// IsLeader is copied verbatim from the backend join response.
type Session struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	CartID   string `json:"cart_id"`
	TableID  string `json:"table_id"`
	IsLeader bool   `json:"is_leader"`
}

// Joined reports whether the session can use cart and order features.
func (s *Session) Joined() bool {
	return s != nil && s.UserID != "" && s.CartID != ""
}

// SessionFromUser builds the persisted record from a join response.
func SessionFromUser(u User, tableID string) Session {
	if u.TableID != "" {
		tableID = u.TableID
	}
	return Session{
		UserID:   u.UserID,
		UserName: u.UserName,
		CartID:   u.CartID,
		TableID:  tableID,
		IsLeader: u.IsLeader,
	}
}

type JoinTableRequest struct {
	TableID  string `json:"table_id"`
	UserName string `json:"user_name"`
}
