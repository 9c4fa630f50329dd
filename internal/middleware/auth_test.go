package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/eventmatch/backend/internal/models"
)

type mapLookup map[string]*models.User

func (m mapLookup) GetUserByUID(_ context.Context, uid string) (*models.User, error) {
	if u, ok := m[uid]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func runAuth(t *testing.T, verifier TokenVerifier, users UserLookup, header string) (*httptest.ResponseRecorder, *models.User, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.User
	h := Authenticate(verifier, users)(func(c echo.Context) error {
		seen = Viewer(c)
		return c.NoContent(http.StatusNoContent)
	})
	err := h(c)
	return rec, seen, err
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestAuthenticate(t *testing.T) {
	v := NewJWTVerifier("secret")
	ann := &models.User{ID: 7, UID: "uid-ann"}
	users := mapLookup{"uid-ann": ann}

	good, err := v.Issue("uid-ann", time.Hour)
	require.NoError(t, err)
	stranger, err := v.Issue("uid-nobody", time.Hour)
	require.NoError(t, err)
	expired, err := v.Issue("uid-ann", -time.Minute)
	require.NoError(t, err)
	forged, err := NewJWTVerifier("other").Issue("uid-ann", time.Hour)
	require.NoError(t, err)

	t.Run("valid token sets viewer", func(t *testing.T) {
		rec, seen, err := runAuth(t, v, users, "Bearer "+good)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Same(t, ann, seen)
	})

	t.Run("missing header is forbidden", func(t *testing.T) {
		_, _, err := runAuth(t, v, users, "")
		assert.Equal(t, http.StatusForbidden, httpCode(t, err))
	})

	t.Run("header without token is forbidden", func(t *testing.T) {
		_, _, err := runAuth(t, v, users, "Bearer")
		assert.Equal(t, http.StatusForbidden, httpCode(t, err))
	})

	for name, token := range map[string]string{"expired": expired, "forged": forged, "garbage": "abc.def.ghi", "unknown user": stranger} {
		t.Run(name+" is unauthorized", func(t *testing.T) {
			_, seen, err := runAuth(t, v, users, "Bearer "+token)
			assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
			assert.Nil(t, seen)
		})
	}
}

func TestJWTVerifier_FallsBackToSubject(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "uid-ann"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	uid, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-ann", uid)
}
