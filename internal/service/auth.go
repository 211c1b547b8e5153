package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Andersonaa12/cerebro-packing/internal/api"
	"github.com/Andersonaa12/cerebro-packing/internal/credentials"
)

// AuthService handles operator login and the remembered-credentials
// flow.
type AuthService struct {
	Client *api.Client
	Store  *credentials.Store
	Log    zerolog.Logger
}

// AutoLogin tries stored credentials. Returns false when none are
// stored or they no longer work; the caller falls through to the login
// screen.
func (a *AuthService) AutoLogin(ctx context.Context) (api.User, bool) {
	saved, err := a.Store.Load()
	if err != nil {
		if !errors.Is(err, credentials.ErrNotFound) {
			a.Log.Warn().Err(err).Msg("read stored credentials")
		}
		return api.User{}, false
	}
	if saved.Email == "" || saved.Password == "" {
		return api.User{}, false
	}
	lr, err := a.Client.Login(ctx, saved.Email, saved.Password)
	if err != nil {
		a.Log.Info().Err(err).Msg("auto login failed")
		return api.User{}, false
	}
	// keep the stored token fresh
	saved.AccessToken = lr.AccessToken
	if err := a.Store.Save(saved); err != nil {
		a.Log.Warn().Err(err).Msg("update stored credentials")
	}
	return lr.User, true
}

// Login authenticates and, when remember is set, persists the
// credentials for auto login on the next start.
func (a *AuthService) Login(ctx context.Context, email, password string, remember bool) (api.User, error) {
	lr, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return api.User{}, fmt.Errorf("login: %w", err)
	}
	if remember {
		err = a.Store.Save(credentials.Saved{Email: email, Password: password, AccessToken: lr.AccessToken})
	} else {
		err = a.Store.Delete()
	}
	if err != nil {
		a.Log.Warn().Err(err).Msg("persist credentials")
	}
	return lr.User, nil
}

// Logout invalidates the session and forgets stored credentials.
func (a *AuthService) Logout(ctx context.Context) error {
	if err := a.Client.Logout(ctx); err != nil {
		a.Log.Warn().Err(err).Msg("logout request")
	}
	return a.Store.Delete()
}
