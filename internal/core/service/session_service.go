package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/uniblog/client/internal/core/domain"
	"github.com/uniblog/client/internal/core/ports"
	"github.com/uniblog/client/internal/pkg/metrics"
)

// SessionService implements the credential lifecycle. It is the sole writer
// of the credential store and the sole emitter of session signals; every
// other component only reads the store and listens on the bus.
type SessionService struct {
	store    ports.CredentialStore
	bus      ports.SessionBus
	gate     ports.Gateway
	validate *validator.Validate
	log      zerolog.Logger
}

func NewSessionService(store ports.CredentialStore, bus ports.SessionBus, gate ports.Gateway, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:    store,
		bus:      bus,
		gate:     gate,
		validate: validator.New(),
		log:      log,
	}
}

type credentialsInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// tokenResponse is the resource server's answer to POST /auth/token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The token endpoint speaks
// the OAuth2 password flow: form-encoded body, the email travels in the
// username field. On success the pair is saved first and SignalLogin is
// emitted second, so handlers re-reading the store see the new session.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if err := s.validate.Struct(credentialsInput{Email: email, Password: password}); err != nil {
		return domain.LocalValidation(credentialsMessage(err))
	}

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	raw, err := s.gate.Do(ctx, http.MethodPost, "/auth/token", form, domain.Session{})
	if err != nil {
		return err
	}

	var tok tokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return fmt.Errorf("login: decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("login: token response carries no access token")
	}

	if err := s.store.Save(tok.AccessToken, tok.TokenType); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	metrics.SessionSignalsTotal.WithLabelValues(string(domain.SignalLogin)).Inc()
	s.bus.Emit(domain.SignalLogin)
	s.log.Info().Msg("session established")
	return nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account via POST /users/. It does not authenticate:
// the caller logs in afterwards, matching the signup-then-login flow.
func (s *SessionService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if err := s.validate.Struct(credentialsInput{Email: email, Password: password}); err != nil {
		return nil, domain.LocalValidation(credentialsMessage(err))
	}

	raw, err := s.gate.Do(ctx, http.MethodPost, "/users/", registerRequest{Email: email, Password: password}, domain.Session{})
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("register: decode user response: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Msg("account created")
	return &user, nil
}

// Logout clears the store, then emits SignalLogout. The ordering guarantees
// that a handler which re-reads the store never observes a stale
// logged-in state.
func (s *SessionService) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	metrics.SessionSignalsTotal.WithLabelValues(string(domain.SignalLogout)).Inc()
	s.bus.Emit(domain.SignalLogout)
	s.log.Info().Msg("session cleared")
	return nil
}

// Current re-reads the credential store. A store read failure degrades to
// an absent session rather than an error: absence is always representable.
func (s *SessionService) Current() domain.Session {
	sess, err := s.store.Read()
	if err != nil {
		s.log.Warn().Err(err).Msg("credential store unreadable, treating session as absent")
		return domain.Session{}
	}
	return sess
}

// HandleUnauthorized is the mandated caller reaction to a 401 from any
// gated call: the stored token is invalid, so it is cleared before the
// logout broadcast.
func (s *SessionService) HandleUnauthorized() {
	if err := s.store.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear rejected credential")
	}
	metrics.SessionSignalsTotal.WithLabelValues(string(domain.SignalLogout)).Inc()
	s.bus.Emit(domain.SignalLogout)
	s.log.Info().Msg("credential rejected by server, session cleared")
}

// credentialsMessage converts validator errors on credentialsInput into a
// single user-readable message.
func credentialsMessage(err error) string {
	ve, ok := err.(validator.ValidationErrors)
	if !ok || len(ve) == 0 {
		return "invalid credentials input"
	}
	fe := ve[0]
	switch {
	case fe.Field() == "Email" && fe.Tag() == "required":
		return "email is required"
	case fe.Field() == "Email":
		return "email must be a valid address"
	case fe.Field() == "Password":
		return "password is required"
	}
	return "invalid credentials input"
}
