package ports

import (
	"context"
	"errors"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/domain"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository reads staff and customer identities. The notification
// dispatcher uses ListAdmins for broadcast fan-out.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]*domain.User, error)
}

// Authenticator verifies credentials. Password storage and verification are
// an external collaborator concern; the session lifecycle only needs the
// resolved user back.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}
