package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/data/repository/memrepo"
	"yamdb/internal/notifier"
	"yamdb/pkg/apperr"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sequenceGenerator hands out codes in order, then repeats the last one.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []int64
	next  int
}

func (g *sequenceGenerator) Generate() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := g.codes[min(g.next, len(g.codes)-1)]
	g.next++
	return code
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifier.Message
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg notifier.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) last() notifier.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

type fixture struct {
	repo     *repository.Repository
	svc      *Service
	gen      *sequenceGenerator
	notifier *recordingNotifier
	config   *utils.Config
}

func newFixture(t *testing.T, codes ...int64) *fixture {
	t.Helper()
	if len(codes) == 0 {
		codes = []int64{111111}
	}

	config := &utils.Config{
		JWT:   utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		Email: utils.EmailConfig{From: "noreply@yamdb.test"},
		Code:  utils.CodeConfig{PinRange: 1000000},
	}
	f := &fixture{
		repo:     memrepo.New(),
		gen:      &sequenceGenerator{codes: codes},
		notifier: &recordingNotifier{},
		config:   config,
	}
	f.svc = NewService(f.repo, config, f.gen, f.notifier, zap.NewNop())
	return f
}

func (f *fixture) user(t *testing.T, username string, role entity.UserRole) *entity.User {
	t.Helper()
	now := time.Now()
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, f.repo.User.Create(context.Background(), user))
	return user
}

func (f *fixture) storedCode(t *testing.T, username string) *string {
	t.Helper()
	user, err := f.repo.User.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user.ConfirmationCode
}

func code(n int64) string {
	return strconv.FormatInt(n, 10)
}

func assertCode(t *testing.T, want apperr.Code, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %T: %v", err, err)
	assert.Equal(t, want, appErr.Code, appErr.Error())
}
