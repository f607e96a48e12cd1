package evegateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authorizer attaches credentials for characterID to an outgoing request.
// It returns a *ScopeError when the character cannot be used for scope.
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request, characterID int32, scope string) error
}

// CoreAuthorizer authenticates against a core application's ESI proxy: the app
// credentials go into a bearer token and the character is passed as datasource.
type CoreAuthorizer struct {
	AppID  string
	Secret string
}

func (a *CoreAuthorizer) Authorize(_ context.Context, req *http.Request, characterID int32, _ string) error {
	token := base64.StdEncoding.EncodeToString([]byte(a.AppID + ":" + a.Secret))
	req.Header.Set("Authorization", "Bearer "+token)
	q := req.URL.Query()
	q.Set("datasource", strconv.Itoa(int(characterID)))
	req.URL.RawQuery = q.Encode()
	return nil
}

// Token is a stored EVE SSO access token.
type Token struct {
	CharacterID int32
	AccessToken string
	ExpiresAt   time.Time
}

// TokenStore looks up access tokens.
type TokenStore interface {
	Token(ctx context.Context, characterID int32) (*Token, error)
}

// TokenAuthorizer sends the character's own SSO access token and refuses calls for
// scopes the token does not carry.
type TokenAuthorizer struct {
	Store TokenStore
	now   func() time.Time
}

func NewTokenAuthorizer(store TokenStore) *TokenAuthorizer {
	return &TokenAuthorizer{Store: store, now: time.Now}
}

func (a *TokenAuthorizer) Authorize(ctx context.Context, req *http.Request, characterID int32, scope string) error {
	token, err := a.Store.Token(ctx, characterID)
	if errors.Is(err, ErrTokenNotFound) {
		return &ScopeError{CharacterID: characterID, Scope: scope, Reason: "no token stored"}
	}
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}
	if !token.ExpiresAt.IsZero() && a.now().After(token.ExpiresAt) {
		return &ScopeError{CharacterID: characterID, Scope: scope, Reason: "token expired"}
	}
	if scope != "" {
		scopes, err := TokenScopes(token.AccessToken)
		if err != nil {
			return fmt.Errorf("failed to read token scopes: %w", err)
		}
		if !slices.Contains(scopes, scope) {
			return &ScopeError{CharacterID: characterID, Scope: scope}
		}
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return nil
}

// TokenScopes returns the scopes granted by an EVE SSO access token. The signature
// is not verified, ESI does that when the token is used.
func TokenScopes(accessToken string) ([]string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, err
	}
	switch scp := claims["scp"].(type) {
	case string:
		return strings.Fields(scp), nil
	case []any:
		scopes := make([]string, 0, len(scp))
		for _, s := range scp {
			if str, ok := s.(string); ok {
				scopes = append(scopes, str)
			}
		}
		return scopes, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected scp claim type %T", scp)
	}
}

// StaticTokenStore serves tokens from memory.
type StaticTokenStore map[int32]*Token

func (s StaticTokenStore) Token(_ context.Context, characterID int32) (*Token, error) {
	t, ok := s[characterID]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return t, nil
}
