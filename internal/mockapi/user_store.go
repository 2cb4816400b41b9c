package mockapi

import (
	"strings"
	"sync"

	"github.com/jrsteele09/go-agri-dashboard/users"
)

type storedUser struct {
	profile      users.Profile
	passwordHash string
}

// userStore keeps accounts in memory with bcrypt password hashes
type userStore struct {
	lock   sync.RWMutex
	nextID int
	users  map[int]*storedUser
}

func newUserStore() *userStore {
	return &userStore{nextID: 1, users: make(map[int]*storedUser)}
}

func (u *userStore) create(username, email, password, firstName, lastName string) (*users.Profile, error) {
	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u.lock.Lock()
	defer u.lock.Unlock()
	profile := users.Profile{
		ID:        u.nextID,
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	u.users[profile.ID] = &storedUser{profile: profile, passwordHash: hash}
	u.nextID++
	return &profile, nil
}

func (u *userStore) byID(id int) (users.Profile, bool) {
	u.lock.RLock()
	defer u.lock.RUnlock()
	stored, ok := u.users[id]
	if !ok {
		return users.Profile{}, false
	}
	return stored.profile, true
}

// authenticate matches the username (or email) and password
func (u *userStore) authenticate(login, password string) (users.Profile, bool) {
	u.lock.RLock()
	var match *storedUser
	for _, stored := range u.users {
		if stored.profile.Username == login || strings.EqualFold(stored.profile.Email, login) {
			match = stored
			break
		}
	}
	u.lock.RUnlock()

	if match == nil || !users.CheckPasswordHash(password, match.passwordHash) {
		return users.Profile{}, false
	}
	return match.profile, true
}

// conflicts reports which of username and email are already registered
func (u *userStore) conflicts(username, email string) map[string][]string {
	u.lock.RLock()
	defer u.lock.RUnlock()
	fields := map[string][]string{}
	for _, stored := range u.users {
		if stored.profile.Username == username {
			fields["username"] = []string{"A user with that username already exists."}
		}
		if strings.EqualFold(stored.profile.Email, email) {
			fields["email"] = []string{"A user with that email already exists."}
		}
	}
	return fields
}
