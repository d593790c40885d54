package service

import (
	"context"
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/testutil"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func issueToken(t *testing.T, f *fixture, email string) string {
	t.Helper()

	require.NoError(t, f.reset.RequestReset(context.Background(), email))
	f.dispatcher.Wait()

	resets := f.notifier.Resets()
	require.NotEmpty(t, resets)
	url := resets[len(resets)-1].ResetURL
	return url[strings.LastIndex(url, "/")+1:]
}

func TestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.reset.RequestReset(context.Background(), "ghost@example.com"))
	f.dispatcher.Wait()
	assert.Empty(t, f.notifier.Resets())
}

func TestPasswordReset_TokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := testutil.CreateUser(t, f.db, "bob", model.RoleBuyer)

	token := issueToken(t, f, "  BOB@example.com ")
	resets := f.notifier.Resets()
	assert.True(t, strings.HasPrefix(resets[0].ResetURL, "http://shop.test/api/password/reset/"))
	assert.Equal(t, 30*time.Minute, resets[0].ExpiresIn)

	status, err := f.reset.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, TokenValid, status)

	require.NoError(t, f.reset.ResetPassword(ctx, token, "n3w-secret", "n3w-secret"))

	user, err := f.userRepo.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("n3w-secret")))

	status, err = f.reset.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, TokenInvalid, status)

	err = f.reset.ResetPassword(ctx, token, "another-one", "another-one")
	assert.True(t, errors.Is(err, apperr.ErrTokenInvalid))
}

func TestPasswordReset_TokenExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "bob", model.RoleBuyer)

	start := time.Now()
	f.reset.now = func() time.Time { return start }
	token := issueToken(t, f, "bob@example.com")

	f.reset.now = func() time.Time { return start.Add(29 * time.Minute) }
	status, err := f.reset.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, TokenValid, status)

	f.reset.now = func() time.Time { return start.Add(30 * time.Minute) }
	status, err = f.reset.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, TokenExpired, status)

	err = f.reset.ResetPassword(ctx, token, "n3w-secret", "n3w-secret")
	assert.True(t, errors.Is(err, apperr.ErrTokenExpired))
}

func TestPasswordReset_PasswordRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "bob", model.RoleBuyer)
	token := issueToken(t, f, "bob@example.com")

	assert.True(t, apperr.IsValidation(f.reset.ResetPassword(ctx, token, "short", "short")))
	assert.True(t, apperr.IsValidation(f.reset.ResetPassword(ctx, token, "long-enough", "long-enougH")))

	status, err := f.reset.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, TokenValid, status)

	status, err = f.reset.ValidateToken(ctx, "not-a-token")
	require.NoError(t, err)
	assert.Equal(t, TokenInvalid, status)
}
