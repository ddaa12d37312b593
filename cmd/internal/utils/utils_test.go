package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochHelpers(t *testing.T) {
	millis, err := FromEpoch("2025-03-10T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10T10:00:00Z", FormatEpoch(millis))

	_, err = FromEpoch("10/03/2025")
	assert.Error(t, err)

	assert.Equal(t,
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		MonthStart(millis))
}

func TestSanitize(t *testing.T) {
	name := "  Ada "
	v := struct {
		Title  string
		Name   *string
		Tags   []string
		Count  int
		hidden string
	}{Title: "  x ", Name: &name, Tags: []string{" a", "b "}, hidden: " keep "}

	Sanitize(&v)

	assert.Equal(t, "x", v.Title)
	assert.Equal(t, "Ada", *v.Name)
	assert.Equal(t, []string{"a", "b"}, v.Tags)
	assert.Equal(t, " keep ", v.hidden)

	assert.Panics(t, func() { Sanitize(v) })
}

func TestTokens(t *testing.T) {
	tok, err := MakeToken("user-1", "u@example.com", "secret", time.Hour)
	require.NoError(t, err)

	data, err := ParseBearer("Bearer "+tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, &TokenData{Sub: "user-1", Email: "u@example.com"}, data)

	_, err = ParseBearer("Bearer "+tok, "other-secret")
	assert.Error(t, err)

	_, err = ParseBearer("Bearer ", "secret")
	assert.ErrorIs(t, err, ErrNoSession)

	expired, err := MakeToken("user-1", "", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseBearer("Bearer "+expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseBearer("Bearer "+none, "secret")
	assert.Error(t, err, "unsigned tokens are rejected")
}

func TestSessionContext(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())

	_, err := ParseTokenDataCtx(c)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, SessionSub(c))

	SetTokenDataCtx(c, &TokenData{Sub: "user-1"})
	assert.Equal(t, "user-1", SessionSub(c))
}
