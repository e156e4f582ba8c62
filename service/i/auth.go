package i

import (
	"github.com/beka-birhanu/vinom-pathfinder/domain"
)

// Authenticator registers users and signs them in.
type Authenticator interface {
	Register(username, password string) error
	SignIn(username, password string) (*domain.User, string, error)
}
