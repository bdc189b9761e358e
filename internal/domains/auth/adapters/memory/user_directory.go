package memory

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"strings"
	"sync"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

var (
	_ ports.UserRepository = (*UserDirectory)(nil)
	_ ports.Authenticator  = (*UserDirectory)(nil)
)

type account struct {
	user         domain.User
	passwordHash [sha256.Size]byte
}

// UserDirectory is an in-memory user repository and authenticator, seeded at
// startup. Real credential storage is an external collaborator; this adapter
// exists for single-process deployments and tests.
type UserDirectory struct {
	mu       sync.RWMutex
	byID     map[int64]*account
	byName   map[string]*account
	nextID   int64
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		byID:   map[int64]*account{},
		byName: map[string]*account{},
	}
}

// Seed registers a user with credentials and returns the stored user.
func (d *UserDirectory) Seed(name, email, password string, role domain.Role) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	user, err := domain.NewUser(d.nextID, name, email, role)
	if err != nil {
		d.nextID--
		return nil, err
	}
	acct := &account{user: *user, passwordHash: sha256.Sum256([]byte(password))}
	d.byID[user.ID] = acct
	d.byName[strings.ToLower(user.Name)] = acct
	clone := acct.user
	return &clone, nil
}

func (d *UserDirectory) GetByID(_ context.Context, id int64) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acct, ok := d.byID[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	clone := acct.user
	return &clone, nil
}

func (d *UserDirectory) ListAdmins(_ context.Context) ([]*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var admins []*domain.User
	for _, acct := range d.byID {
		if acct.user.IsAdmin() {
			clone := acct.user
			admins = append(admins, &clone)
		}
	}
	return admins, nil
}

func (d *UserDirectory) Authenticate(_ context.Context, username, password string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acct, ok := d.byName[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, ports.ErrInvalidCredentials
	}
	sum := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(sum[:], acct.passwordHash[:]) != 1 {
		return nil, ports.ErrInvalidCredentials
	}
	clone := acct.user
	return &clone, nil
}
