package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/pkg/apperr"
	"yamdb/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signup(f *fixture, username, email string) error {
	_, err := f.svc.Auth.Signup(context.Background(), &request.SignupRequest{Username: username, Email: email})
	return err
}

func token(f *fixture, username, confirmationCode string) (string, error) {
	resp, err := f.svc.Auth.IssueToken(context.Background(), &request.TokenRequest{
		Username:         username,
		ConfirmationCode: json.Number(confirmationCode),
	})
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func TestSignupCreatesOneUserAndMailsCode(t *testing.T) {
	f := newFixture(t, 424242)
	ctx := context.Background()

	resp, err := f.svc.Auth.Signup(ctx, &request.SignupRequest{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Username)
	assert.Equal(t, "bob@x.com", resp.Email)

	count, err := f.repo.User.CountAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	user, err := f.repo.User.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.True(t, utils.CheckCode("424242", user.ConfirmationCode))

	msg := f.notifier.last()
	assert.Equal(t, "confirmation_code", msg.Subject)
	assert.Equal(t, "Here is confirmation_code 424242", msg.Body)
	assert.Equal(t, []string{"bob@x.com"}, msg.To)
	assert.Equal(t, "noreply@yamdb.test", msg.From)
}

func TestRepeatedSignupRotatesCode(t *testing.T) {
	f := newFixture(t, 1001, 2002)

	require.NoError(t, signup(f, "bob", "bob@x.com"))
	first := f.storedCode(t, "bob")
	require.NoError(t, signup(f, "bob", "bob@x.com"))
	second := f.storedCode(t, "bob")

	assert.NotEqual(t, *first, *second)
	assert.False(t, utils.CheckCode(code(1001), second))
	assert.True(t, utils.CheckCode(code(2002), second))

	count, err := f.repo.User.CountAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSignupConflicts(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, signup(f, "bob", "bob@x.com"))

	err := signup(f, "bob", "other@x.com")
	assertCode(t, apperr.CodeConflict, err)

	err = signup(f, "alice", "bob@x.com")
	assertCode(t, apperr.CodeConflict, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "email")
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)

	assertCode(t, apperr.CodeValidation, signup(f, "me", "me@x.com"))
	assertCode(t, apperr.CodeValidation, signup(f, "bad name", "bad@x.com"))
	assertCode(t, apperr.CodeValidation, signup(f, "bob", "not-an-email"))
	assert.Empty(t, f.notifier.sent)
}

func TestSignupNotifierFailureKeepsCode(t *testing.T) {
	f := newFixture(t, 5555)
	f.notifier.err = errors.New("smtp down")

	err := signup(f, "bob", "bob@x.com")
	assertCode(t, apperr.CodeInternal, err)

	assert.True(t, utils.CheckCode(code(5555), f.storedCode(t, "bob")))
}

func TestIssueTokenUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := token(f, "ghost", "123")
	assertCode(t, apperr.CodeNotFound, err)
}

func TestIssueTokenKeepsCodeOnSuccess(t *testing.T) {
	f := newFixture(t, 777)
	require.NoError(t, signup(f, "bob", "bob@x.com"))
	before := *f.storedCode(t, "bob")

	signed, err := token(f, "bob", code(777))
	require.NoError(t, err)
	assert.Equal(t, before, *f.storedCode(t, "bob"))

	claims, err := utils.NewTokenIssuer(f.config.JWT).Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, entity.RoleUser, claims.Role)

	// same code keeps working until rotated
	_, err = token(f, "bob", code(777))
	assert.NoError(t, err)
}

func TestConfirmationCodeScenario(t *testing.T) {
	const c1, c2 = 314159, 271828
	f := newFixture(t, c1, c2)

	require.NoError(t, signup(f, "bob", "bob@x.com"))
	assert.True(t, utils.CheckCode(code(c1), f.storedCode(t, "bob")))

	_, err := token(f, "bob", "wrong")
	assertCode(t, apperr.CodeAuthentication, err)
	assert.Equal(t, 400, apperr.CodeOf(err).HTTPStatus())
	assert.True(t, utils.CheckCode(code(c2), f.storedCode(t, "bob")))

	_, err = token(f, "bob", code(c1))
	assertCode(t, apperr.CodeAuthentication, err)

	// the failed C1 attempt rotated again; the generator repeats C2
	signed, err := token(f, "bob", code(c2))
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
}

// staleLookups hides stored users from the first lookups, as if a concurrent
// signup inserted them between the check and the insert.
type staleLookups struct {
	repository.UserRepository
	misses int
}

func (r *staleLookups) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.UserRepository.FindByUsername(ctx, username)
}

func (r *staleLookups) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.UserRepository.FindByEmail(ctx, email)
}

func (f *fixture) withUserRepo(users repository.UserRepository) {
	repo := *f.repo
	repo.User = users
	f.svc = NewService(&repo, f.config, f.gen, f.notifier, zap.NewNop())
}

func TestSignupLosingInsertRaceForSameIdentity(t *testing.T) {
	f := newFixture(t, 1001, 2002)
	ctx := context.Background()
	require.NoError(t, signup(f, "bob", "bob@x.com"))

	f.withUserRepo(&staleLookups{UserRepository: f.repo.User, misses: 2})

	resp, err := f.svc.Auth.Signup(ctx, &request.SignupRequest{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Username)

	count, err := f.repo.User.CountAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.True(t, utils.CheckCode(code(2002), f.storedCode(t, "bob")))
	assert.Equal(t, "Here is confirmation_code 2002", f.notifier.last().Body)
}

func TestSignupLosingInsertRaceForOtherIdentity(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, signup(f, "bob", "bob@x.com"))

	f.withUserRepo(&staleLookups{UserRepository: f.repo.User, misses: 2})

	err := signup(f, "bob", "robert@x.com")
	assertCode(t, apperr.CodeConflict, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "username")
}
