package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence surface the service needs. *Repository satisfies
// it; tests plug in an in-memory fake.
type Store interface {
	Create(ctx context.Context, u User) (User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
	ListStudents(ctx context.Context, year, division string) ([]User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	CountActiveAdmins(ctx context.Context) (int, error)
}

var (
	// ErrBadCredentials covers both unknown username and wrong password;
	// callers must not tell the two apart in user-facing output.
	ErrBadCredentials = errors.New("invalid credentials")
	// ErrInactive is an authentication failure for a soft-locked account.
	ErrInactive = errors.New("account locked")
	// ErrNotFound means the referenced account id does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken rejects duplicate usernames on create.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrSelfTarget rejects an admin locking or deleting their own account.
	ErrSelfTarget = errors.New("cannot modify own account")
	// ErrLastAdmin protects the invariant that one active admin always exists.
	ErrLastAdmin = errors.New("cannot remove the last active admin")
	// ErrValidation flags a missing or malformed required field.
	ErrValidation = errors.New("invalid input")
)

// NewUser is the input for account creation.
type NewUser struct {
	Username  string
	Password  string
	Role      Role
	Year      string
	Division  string
	SubjectID string
	Phone     string
}

// Service owns account lifecycle and credential checks.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Authenticate verifies credentials and returns the account. Unknown user and
// wrong password are distinct checks internally but collapse to
// ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, ErrBadCredentials
	}
	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	if !u.Active {
		return User{}, ErrInactive
	}
	return *u, nil
}

// Create validates and stores a new account with a bcrypt password hash.
func (s *Service) Create(ctx context.Context, in NewUser) (User, error) {
	if in.Username == "" || in.Password == "" || !in.Role.Valid() {
		return User{}, ErrValidation
	}
	if in.Role == RoleStudent && (in.Year == "" || in.Division == "") {
		return User{}, ErrValidation
	}
	existing, err := s.store.FindByUsername(ctx, in.Username)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		Year:         in.Year,
		Division:     in.Division,
		Phone:        in.Phone,
		Active:       true,
	}
	if in.Role == RoleTeacher && in.SubjectID != "" {
		u.SubjectID = &in.SubjectID
	}
	return s.store.Create(ctx, u)
}

// Bootstrap creates the initial admin account. It refuses to run once an
// active admin exists.
func (s *Service) Bootstrap(ctx context.Context, username, password string) (User, error) {
	n, err := s.store.CountActiveAdmins(ctx)
	if err != nil {
		return User{}, err
	}
	if n > 0 {
		return User{}, ErrValidation
	}
	return s.Create(ctx, NewUser{Username: username, Password: password, Role: RoleAdmin})
}

// Toggle flips an account's active flag. actorID is the authenticated admin;
// self-locking and deactivating the last active admin are rejected.
func (s *Service) Toggle(ctx context.Context, actorID, id string) (User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrNotFound
	}
	if u.ID == actorID {
		return User{}, ErrSelfTarget
	}
	if u.Role == RoleAdmin && u.Active {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return User{}, err
		}
	}
	if err := s.store.SetActive(ctx, id, !u.Active); err != nil {
		return User{}, err
	}
	u.Active = !u.Active
	return *u, nil
}

// Delete removes an account. Same guards as Toggle.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if u.ID == actorID {
		return ErrSelfTarget
	}
	if u.Role == RoleAdmin && u.Active {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) ensureNotLastAdmin(ctx context.Context) error {
	n, err := s.store.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}

// List pages through accounts.
func (s *Service) List(ctx context.Context, page, perPage int) ([]User, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	return s.store.List(ctx, perPage, (page-1)*perPage)
}

// Students returns the active students of a class.
func (s *Service) Students(ctx context.Context, year, division string) ([]User, error) {
	if year == "" || division == "" {
		return nil, ErrValidation
	}
	return s.store.ListStudents(ctx, year, division)
}

// AllStudents returns every active student account.
func (s *Service) AllStudents(ctx context.Context) ([]User, error) {
	return s.store.ListByRole(ctx, RoleStudent)
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrNotFound
	}
	return *u, nil
}

// HasAdmin reports whether an active admin exists (drives the setup flow).
func (s *Service) HasAdmin(ctx context.Context) (bool, error) {
	n, err := s.store.CountActiveAdmins(ctx)
	return n > 0, err
}
