package auth

import (
	"errors"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSession(t *testing.T) {
	s := NewStaticSession("tok")
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok", s.CurrentToken())
	assert.False(t, s.IsLoading())

	s.SetLoading(true)
	assert.True(t, s.IsLoading())
	s.SetToken("next")
	assert.False(t, s.IsLoading())
	assert.Equal(t, "next", s.CurrentToken())

	var order []int
	s.OnLogout(func() { order = append(order, 1) })
	s.OnLogout(nil)
	s.OnLogout(func() { order = append(order, 2) })

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.CurrentToken())
	assert.Equal(t, []int{1, 2}, order)
}

func TestStaticSession_EmptyTokenIsAnonymous(t *testing.T) {
	s := NewStaticSession("")
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.CurrentToken())
}

func TestStaticSession_ConcurrentUse(t *testing.T) {
	s := NewStaticSession("a")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetToken("b")
		}()
		go func() {
			defer wg.Done()
			_ = s.CurrentToken()
		}()
	}
	wg.Wait()
	assert.Equal(t, "b", s.CurrentToken())
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestUserFromToken(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"name":  "Maria Silva",
		"email": "maria@example.com",
		"realm_access": map[string]any{
			"roles": []string{"admin", "viewer"},
		},
	})

	u, err := UserFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, "Maria Silva", u.Name)
	assert.Equal(t, "maria@example.com", u.Email)
	assert.Equal(t, []string{"admin", "viewer"}, u.Roles)
	assert.True(t, u.HasRole("admin"))
	assert.False(t, u.HasRole("owner"))
}

func TestUserFromToken_PreferredUsernameFallback(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "u2", "preferred_username": "joao"})

	u, err := UserFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "joao", u.Name)
	assert.Empty(t, u.Roles)
}

func TestUserFromToken_Errors(t *testing.T) {
	_, err := UserFromToken("")
	assert.True(t, errors.Is(err, ErrNoToken))

	_, err = UserFromToken("not-a-jwt")
	assert.Error(t, err)
}
