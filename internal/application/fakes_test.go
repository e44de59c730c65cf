package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
	repo "github.com/oksasatya/recruitment-accounts/internal/domain/repository"
	"github.com/oksasatya/recruitment-accounts/internal/infrastructure/revocation"
	"github.com/oksasatya/recruitment-accounts/pkg/helpers"
	"github.com/oksasatya/recruitment-accounts/pkg/validation"
)

var errDBDown = errors.New("db down: SELECT * FROM users")

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*entity.User
	seq     int
	failGet error
	failAdd error
	writes  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return r.failAdd
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	r.seq++
	r.writes++
	u.ID = fmt.Sprintf("u-%d", r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return nil, r.failGet
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return nil, r.failGet
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	r.writes++
	u.UpdatedAt = time.Now()
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repo.ErrNotFound
	}
	r.writes++
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// passThroughIdentity trusts the posted email, as the default deployment does.
type passThroughIdentity struct {
	err error
}

func (p passThroughIdentity) VerifyGoogle(_ context.Context, a GoogleAssertion) (Identity, error) {
	if p.err != nil {
		return Identity{}, p.err
	}
	if !validation.IsEmail(a.Email) {
		return Identity{}, ErrInvalidEmail
	}
	return Identity{Email: a.Email, Name: a.Name}, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	welcome []string
	deleted []string
	err     error
}

func (n *recordingNotifier) Welcome(_ context.Context, p *entity.Profile) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcome = append(n.welcome, p.Email)
	return n.err
}

func (n *recordingNotifier) AccountDeleted(_ context.Context, email, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, email)
	return n.err
}

type recordingIndex struct {
	mu      sync.Mutex
	docs    map[string]entity.Profile
	err     error
	lastQ   string
	lastLen int
}

func newRecordingIndex() *recordingIndex {
	return &recordingIndex{docs: map[string]entity.Profile{}}
}

func (i *recordingIndex) Index(_ context.Context, p *entity.Profile) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs[p.ID] = *p
	return i.err
}

func (i *recordingIndex) Remove(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.docs, id)
	return i.err
}

func (i *recordingIndex) Search(_ context.Context, q string, size int) ([]entity.Profile, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lastQ, i.lastLen = q, size
	if i.err != nil {
		return nil, i.err
	}
	var out []entity.Profile
	for _, p := range i.docs {
		if strings.Contains(p.Name, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeFileStore struct {
	paths []string
	body  string
	err   error
}

func (f *fakeFileStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.body = string(b)
	f.paths = append(f.paths, objectPath)
	return "https://files.test/" + objectPath, nil
}

type failingLedger struct{}

func (failingLedger) Revoke(context.Context, string, time.Time) error { return errors.New("redis down") }
func (failingLedger) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type authFixture struct {
	svc      *AuthService
	repo     *fakeUserRepo
	ledger   *revocation.Memory
	tokens   *helpers.JWTManager
	notifier *recordingNotifier
	index    *recordingIndex
	logs     *test.Hook
}

func newAuthFixture() *authFixture {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f := &authFixture{
		repo:     newFakeUserRepo(),
		ledger:   revocation.NewMemory(),
		tokens:   helpers.NewJWTManager("test-secret", 72*time.Hour),
		notifier: &recordingNotifier{},
		index:    newRecordingIndex(),
		logs:     hook,
	}
	f.svc = NewAuthService(f.repo, helpers.NewPasswordHasher(bcrypt.MinCost, 4), f.tokens, f.ledger,
		passThroughIdentity{}, f.notifier, f.index, logger)
	return f
}
