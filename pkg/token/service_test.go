package token

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	service := NewService(key, 3600)
	user := &model.User{ID: 123, Email: "jane@doe.org", Administrator: true}

	signed, err := service.GetAccessToken(user)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/events", nil)
	request.AddCookie(&http.Cookie{Name: "accessToken", Value: signed})

	parsed, err := ParseRequest(request, &key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed.ID)
	assert.Equal(t, user.Email, parsed.Email)
	assert.True(t, parsed.Administrator)
}

func TestParseRequestRejectsWrongKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	service := NewService(key, 3600)
	signed, err := service.GetAccessToken(&model.User{ID: 123})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/events", nil)
	request.AddCookie(&http.Cookie{Name: "accessToken", Value: signed})

	_, err = ParseRequest(request, &otherKey.PublicKey)
	assert.Error(t, err)
}

func TestParseRequestWithoutToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/events", nil)

	_, err = ParseRequest(request, &key.PublicKey)
	assert.Error(t, err)
}
