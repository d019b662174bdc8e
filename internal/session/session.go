// Package session binds one signed-in account, one store and one transport
// client into a usable messaging session. The presentation layer calls the
// command methods and receives asynchronous events through an EventHandler.
package session

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/peykchat/peyk/internal/credentials"
	"github.com/peykchat/peyk/internal/models"
	"github.com/peykchat/peyk/internal/store"
	"github.com/peykchat/peyk/internal/transport"
)

// EventHandler receives asynchronous session events. Both methods are always
// invoked from the session's single dispatch goroutine, so implementations
// need no locking of their own.
type EventHandler interface {
	// MessageReceived fires for each frame delivered over the transport.
	MessageReceived(senderUsername, body string)
	// ConnectionLost fires when the transport drops; the session stays
	// usable for local history browsing.
	ConnectionLost()
}

type notification struct {
	sender string
	body   string
	lost   bool
}

type Session struct {
	store    *store.Store
	client   *transport.Client
	verifier credentials.Verifier
	handler  EventHandler

	mu      sync.Mutex
	account models.Account
	peerID  int

	inbox     chan notification
	done      chan struct{}
	closeOnce sync.Once
}

// SignIn authenticates username/password against the store. Failures surface
// as store.ErrNotFound so the caller cannot distinguish a missing account
// from a wrong password.
func SignIn(st *store.Store, verifier credentials.Verifier, username, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", store.ErrValidation)
	}

	acct, err := st.FindAccountByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("invalid username or password: %w", store.ErrNotFound)
		}
		return nil, err
	}

	if !verifier.Verify(acct.Password, password) {
		return nil, fmt.Errorf("invalid username or password: %w", store.ErrNotFound)
	}
	return acct, nil
}

// SignUp creates a new account. The password is run through the verifier's
// Hash before it reaches the store.
func SignUp(st *store.Store, verifier credentials.Verifier, username, phone, password string, profilePicture *string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	phone = strings.TrimSpace(phone)
	if username == "" || phone == "" || password == "" {
		return nil, fmt.Errorf("username, phone and password are required: %w", store.ErrValidation)
	}

	stored, err := verifier.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare credential: %w", err)
	}

	return st.CreateAccount(username, phone, stored, profilePicture)
}

// Open binds the account to the store and connects the transport client to
// the relay at host:port. If the connection fails the session is still
// returned alongside the error: local history stays browsable, live delivery
// does not work until a fresh session connects. Close releases the transport;
// the store's lifetime is the caller's.
func Open(acct *models.Account, st *store.Store, verifier credentials.Verifier, handler EventHandler, host string, port int) (*Session, error) {
	s := &Session{
		store:    st,
		verifier: verifier,
		handler:  handler,
		account:  *acct,
		inbox:    make(chan notification, 64),
		done:     make(chan struct{}),
	}

	s.client = transport.NewClient(s.enqueueMessage)
	s.client.OnDisconnect(s.enqueueLost)

	go s.dispatch()

	if err := s.client.Connect(host, port); err != nil {
		log.Printf("session: opening degraded, relay unreachable: %v", err)
		return s, err
	}
	return s, nil
}

// enqueueMessage runs on the transport receive goroutine. It only marshals
// the frame onto the inbox; the store is never touched from here.
func (s *Session) enqueueMessage(senderUsername, body string) {
	select {
	case s.inbox <- notification{sender: senderUsername, body: body}:
	default:
		log.Printf("session: inbox full, dropping message from %s", senderUsername)
	}
}

func (s *Session) enqueueLost() {
	select {
	case s.inbox <- notification{lost: true}:
	default:
	}
}

// dispatch drains the inbox and invokes the handler, one event at a time.
func (s *Session) dispatch() {
	for {
		select {
		case n := <-s.inbox:
			if n.lost {
				if s.handler != nil {
					s.handler.ConnectionLost()
				}
				continue
			}
			// Inbound messages are surfaced but not persisted; the sender's
			// side of the conversation already holds the durable copy.
			if _, err := s.store.FindAccountByUsername(n.sender); err != nil {
				log.Printf("session: message from unknown sender %q", n.sender)
			}
			if s.handler != nil {
				s.handler.MessageReceived(n.sender, n.body)
			}
		case <-s.done:
			return
		}
	}
}

// Account returns a copy of the signed-in account as last cached.
func (s *Session) Account() models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Connected reports whether live delivery is currently available.
func (s *Session) Connected() bool {
	return s.client.State() == transport.Connected
}

// SelectConversation makes peerID the active conversation and returns its
// persisted history for initial display.
func (s *Session) SelectConversation(peerID int) ([]models.Message, error) {
	s.mu.Lock()
	ownID := s.account.ID
	s.mu.Unlock()

	messages, err := s.store.Conversation(ownID, peerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.peerID = peerID
	s.mu.Unlock()
	return messages, nil
}

// SendMessage persists body into the active conversation, then transmits it.
// The persisted message is returned so the caller can render it immediately;
// a transport failure after the persist is absorbed.
func (s *Session) SendMessage(body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("message body is empty: %w", store.ErrValidation)
	}

	s.mu.Lock()
	ownID := s.account.ID
	username := s.account.Username
	peerID := s.peerID
	s.mu.Unlock()

	if peerID == 0 {
		return nil, fmt.Errorf("no conversation selected: %w", store.ErrValidation)
	}

	msg, err := s.store.AppendMessage(ownID, peerID, body)
	if err != nil {
		return nil, err
	}

	s.client.Send(username, body)
	return msg, nil
}

// AddContact adds the account with the given username to the signed-in
// account's contact list.
func (s *Session) AddContact(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("contact username is required: %w", store.ErrValidation)
	}

	s.mu.Lock()
	ownID := s.account.ID
	s.mu.Unlock()

	return s.store.AddContact(ownID, username)
}

// Contacts lists the signed-in account's contacts.
func (s *Session) Contacts() ([]models.Contact, error) {
	s.mu.Lock()
	ownID := s.account.ID
	s.mu.Unlock()

	return s.store.ListContacts(ownID)
}

// UpdateProfile applies a partial update to the signed-in account and
// refreshes the cached copy. A new password goes through the verifier's Hash.
func (s *Session) UpdateProfile(upd store.AccountUpdate) error {
	if upd.Password != "" {
		stored, err := s.verifier.Hash(upd.Password)
		if err != nil {
			return fmt.Errorf("failed to prepare credential: %w", err)
		}
		upd.Password = stored
	}

	s.mu.Lock()
	ownID := s.account.ID
	s.mu.Unlock()

	if err := s.store.UpdateAccount(ownID, upd); err != nil {
		return err
	}

	acct, err := s.store.FindAccountByID(ownID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.account = *acct
	s.mu.Unlock()
	return nil
}

// Close shuts down the transport client and the event dispatcher. The store
// is left open; it outlives the session. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.client.Close()
		close(s.done)
	})
}
