package token

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(privateKey *rsa.PrivateKey, accessTokenExpirationSeconds int) *tokenService {
	return &tokenService{
		privateKey:                   privateKey,
		accessTokenExpirationSeconds: accessTokenExpirationSeconds,
	}
}

type tokenService struct {
	privateKey                   *rsa.PrivateKey
	accessTokenExpirationSeconds int
}

// GetAccessToken signs a token carrying the user as a claim. The signed token
// is stored in the session cookie and parsed back by [ParseRequest].
func (t tokenService) GetAccessToken(user *model.User) (string, error) {
	unixTime := time.Now().Unix()
	tokenExpiration := unixTime + int64(t.accessTokenExpirationSeconds)

	token := jwt.New()

	err := token.Set(jwt.IssuedAtKey, unixTime)
	if err != nil {
		return "", err
	}

	err = token.Set(jwt.ExpirationKey, tokenExpiration)
	if err != nil {
		return "", err
	}

	err = token.Set("user", user)
	if err != nil {
		return "", err
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, t.privateKey))
	if err != nil {
		return "", err
	}

	return string(signed), nil
}

func (t tokenService) ExpirationSeconds() int {
	return t.accessTokenExpirationSeconds
}

// ParseRequest extracts and verifies the signed in user from the access token
// cookie or the Authorization header.
func ParseRequest(request *http.Request, key *rsa.PublicKey) (*model.User, error) {
	token, err := jwt.ParseRequest(
		request,
		jwt.WithKey(jwa.RS256, key),
		jwt.WithHeaderKey("Authorization"),
		jwt.WithCookieKey("accessToken"),
	)
	if err != nil {
		return nil, err
	}

	return extractUser(token)
}

func extractUser(token jwt.Token) (*model.User, error) {
	userData, ok := token.Get("user")
	if !ok {
		return nil, errors.New("user not found in claims")
	}

	bytes, err := json.Marshal(userData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user claim: %v", err)
	}

	user := &model.User{}
	err = json.Unmarshal(bytes, user)
	return user, err
}
