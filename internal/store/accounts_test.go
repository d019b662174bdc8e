package store

import (
	"errors"
	"testing"
)

func TestCreateAccount(t *testing.T) {
	s := newTestStore(t)

	acct, err := s.CreateAccount("alice", "+100", "pw1", nil)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if acct.ID == 0 {
		t.Error("Expected a non-zero account id")
	}
	if acct.Username != "alice" || acct.Phone != "+100" || acct.Password != "pw1" {
		t.Errorf("Unexpected account: %+v", acct)
	}
	if acct.ProfilePicture != nil {
		t.Errorf("Expected nil profile picture, got %v", *acct.ProfilePicture)
	}
}

func TestCreateAccountConflicts(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateAccount("alice", "+100", "pw1", nil); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if _, err := s.CreateAccount("bob", "+200", "pw2", nil); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	// Reusing alice's username must conflict
	if _, err := s.CreateAccount("alice", "+300", "pw3", nil); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate username, got %v", err)
	}

	// Reusing bob's phone must conflict
	if _, err := s.CreateAccount("carol", "+200", "pw3", nil); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate phone, got %v", err)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name     string
		username string
		phone    string
		password string
	}{
		{"empty username", "", "+100", "pw"},
		{"empty phone", "alice", "", "pw"},
		{"empty password", "alice", "+100", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateAccount(tt.username, tt.phone, tt.password, nil); !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestFindAccount(t *testing.T) {
	s := newTestStore(t)

	pic := "pics/alice.png"
	created, err := s.CreateAccount("alice", "+100", "pw1", &pic)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	byUsername, err := s.FindAccountByUsername("alice")
	if err != nil {
		t.Fatalf("FindAccountByUsername failed: %v", err)
	}
	if byUsername.ID != created.ID {
		t.Errorf("Expected id %d, got %d", created.ID, byUsername.ID)
	}
	if byUsername.ProfilePicture == nil || *byUsername.ProfilePicture != pic {
		t.Errorf("Expected profile picture %q, got %v", pic, byUsername.ProfilePicture)
	}

	byPhone, err := s.FindAccountByPhone("+100")
	if err != nil {
		t.Fatalf("FindAccountByPhone failed: %v", err)
	}
	if byPhone.ID != created.ID {
		t.Errorf("Expected id %d, got %d", created.ID, byPhone.ID)
	}

	byID, err := s.FindAccountByID(created.ID)
	if err != nil {
		t.Fatalf("FindAccountByID failed: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("Expected username alice, got %q", byID.Username)
	}

	if _, err := s.FindAccountByUsername("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown username, got %v", err)
	}
	if _, err := s.FindAccountByID(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestAddContact(t *testing.T) {
	s := newTestStore(t)

	alice, _ := s.CreateAccount("alice", "+100", "pw1", nil)
	bob, _ := s.CreateAccount("bob", "+200", "pw2", nil)

	if err := s.AddContact(alice.ID, "bob"); err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	contacts, err := s.ListContacts(alice.ID)
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	if contacts[0].AccountID != bob.ID || contacts[0].Username != "bob" {
		t.Errorf("Unexpected contact: %+v", contacts[0])
	}

	// Repeating the same edge must conflict and leave the set unchanged
	if err := s.AddContact(alice.ID, "bob"); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate contact, got %v", err)
	}
	contacts, _ = s.ListContacts(alice.ID)
	if len(contacts) != 1 {
		t.Errorf("Expected contact set unchanged, got %d entries", len(contacts))
	}

	// Contact edges are directed; bob has not added alice
	bobContacts, _ := s.ListContacts(bob.ID)
	if len(bobContacts) != 0 {
		t.Errorf("Expected bob to have no contacts, got %d", len(bobContacts))
	}

	if err := s.AddContact(alice.ID, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown contact, got %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	s := newTestStore(t)

	alice, _ := s.CreateAccount("alice", "+100", "pw1", nil)

	if err := s.UpdateAccount(alice.ID, AccountUpdate{Phone: "+999"}); err != nil {
		t.Fatalf("UpdateAccount failed: %v", err)
	}

	updated, _ := s.FindAccountByID(alice.ID)
	if updated.Phone != "+999" {
		t.Errorf("Expected phone +999, got %q", updated.Phone)
	}
	// Fields not supplied stay untouched
	if updated.Username != "alice" || updated.Password != "pw1" {
		t.Errorf("Unrelated fields changed: %+v", updated)
	}
}

func TestUpdateAccountConflict(t *testing.T) {
	s := newTestStore(t)

	alice, _ := s.CreateAccount("alice", "+100", "pw1", nil)
	bob, _ := s.CreateAccount("bob", "+200", "pw2", nil)

	if err := s.UpdateAccount(alice.ID, AccountUpdate{Phone: "+999"}); err != nil {
		t.Fatalf("UpdateAccount failed: %v", err)
	}

	// Bob taking alice's new phone must conflict and leave bob unchanged
	if err := s.UpdateAccount(bob.ID, AccountUpdate{Phone: "+999"}); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}

	unchanged, _ := s.FindAccountByID(bob.ID)
	if unchanged.Phone != "+200" {
		t.Errorf("Expected bob's phone unchanged, got %q", unchanged.Phone)
	}
}

func TestUpdateAccountEdgeCases(t *testing.T) {
	s := newTestStore(t)

	alice, _ := s.CreateAccount("alice", "+100", "pw1", nil)

	if err := s.UpdateAccount(alice.ID, AccountUpdate{}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for empty update, got %v", err)
	}

	if err := s.UpdateAccount(9999, AccountUpdate{Username: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}

	pic := "pics/new.png"
	if err := s.UpdateAccount(alice.ID, AccountUpdate{ProfilePicture: &pic}); err != nil {
		t.Fatalf("UpdateAccount failed: %v", err)
	}
	updated, _ := s.FindAccountByID(alice.ID)
	if updated.ProfilePicture == nil || *updated.ProfilePicture != pic {
		t.Errorf("Expected profile picture %q, got %v", pic, updated.ProfilePicture)
	}
}
