package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/hotp"

	"github.com/loftwall/atrium/internal/domain"
	"github.com/loftwall/atrium/internal/mail"
	"github.com/loftwall/atrium/internal/store"
	"github.com/loftwall/atrium/pkg/cryptox"
	"github.com/loftwall/atrium/pkg/idx"
	"github.com/loftwall/atrium/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrCodeInvalid        = errors.New("verification code is invalid or expired")
)

// Token purposes carried in the JWT "purpose" claim. A verification token
// cannot be replayed as a reset token and vice versa.
const (
	purposeVerify = "verify"
	purposeReset  = "reset"
)

// Provisioner is the seam to the tenant provisioner so session flows can
// trigger it without owning it.
type Provisioner interface {
	Ensure(ctx context.Context, user domain.User) (ProvisionResult, error)
}

// SessionService owns the authentication lifecycle: sign-up, password
// sign-in, cookie session resolution with sliding expiry, the email
// verification round-trip (link token and OTP code), and password reset.
type SessionService struct {
	Store       store.Store
	Mail        mail.Sender
	Provisioner Provisioner

	Secret     []byte // signs verification and reset tokens (HS256)
	Issuer     string
	BaseURL    string
	SessionTTL time.Duration
	VerifyTTL  time.Duration

	// DevMode skips email verification: sign-up signs in (or creates and
	// provisions) immediately.
	DevMode bool
}

// SessionWithToken pairs a stored session with the raw cookie token. The raw
// token exists only here and in the browser; the store keeps a fingerprint.
type SessionWithToken struct {
	Session domain.Session
	User    domain.User
	Token   string
}

// SignUpResult is either an immediate session (dev mode) or a pending
// verification (production flow).
type SignUpResult struct {
	PendingVerification bool
	Session             *SessionWithToken
}

type tokenClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SignUp registers a new account. The chosen organization name is parked
// server-side in pending_signups until verification completes, so the
// verification link works from any browser.
//
// In dev mode the sign-in branch runs first: submitting the form for an
// account that already exists with matching credentials just signs in and
// creates nothing.
func (s *SessionService) SignUp(ctx context.Context, email, password, fullName, orgName string) (SignUpResult, error) {
	log := slogx.FromContext(ctx)

	if s.DevMode {
		return s.signUpDev(ctx, email, password, fullName, orgName)
	}

	user, err := s.createUser(ctx, email, password, fullName, nil)
	if err != nil {
		return SignUpResult{}, err
	}

	pending, err := s.createPendingSignup(ctx, user.ID, orgName)
	if err != nil {
		return SignUpResult{}, err
	}

	if err := s.sendVerification(ctx, user, pending); err != nil {
		// The account exists; verification can be re-requested.
		log.Error("failed to send verification email", slog.Any("error", err))
	}

	return SignUpResult{PendingVerification: true}, nil
}

func (s *SessionService) signUpDev(ctx context.Context, email, password, fullName, orgName string) (SignUpResult, error) {
	swt, err := s.SignInWithPassword(ctx, email, password)
	if err == nil {
		return SignUpResult{Session: &swt}, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return SignUpResult{}, err
	}

	now := time.Now().UTC()
	user, err := s.createUser(ctx, email, password, fullName, &now)
	if err != nil {
		return SignUpResult{}, err
	}

	// Provision immediately through the same pending-signup path the
	// verified flow uses.
	if _, err := s.createPendingSignup(ctx, user.ID, orgName); err != nil {
		return SignUpResult{}, err
	}
	if _, err := s.Provisioner.Ensure(ctx, user); err != nil {
		return SignUpResult{}, err
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		return SignUpResult{}, err
	}
	return SignUpResult{Session: &session}, nil
}

// SignInWithPassword verifies credentials and issues a session. Unverified
// accounts are rejected with ErrEmailNotVerified rather than a credential
// error so the form can point at the verify page.
func (s *SessionService) SignInWithPassword(ctx context.Context, email, password string) (SessionWithToken, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return SessionWithToken{}, ErrInvalidCredentials
	}
	if err != nil {
		return SessionWithToken{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID))
		return SessionWithToken{}, ErrInvalidCredentials
	}

	if !user.Verified() {
		return SessionWithToken{}, ErrEmailNotVerified
	}

	return s.createSession(ctx, user)
}

// Resolve looks up the session behind a cookie token and returns its user.
// Sessions past their half-life are extended transparently.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.User, domain.Session, error) {
	hash := cryptox.FingerprintToken(token)

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}

	now := time.Now().UTC()
	if session.Expired(now) {
		_ = s.Store.Sessions().DeleteSessionByTokenHash(ctx, hash)
		return domain.User{}, domain.Session{}, ErrSessionNotFound
	}

	if session.ExpiresAt.Sub(now) < s.SessionTTL/2 {
		session.ExpiresAt = now.Add(s.SessionTTL)
		if err := s.Store.Sessions().ExtendSession(ctx, session.ID, session.ExpiresAt); err != nil {
			slogx.FromContext(ctx).Warn("failed to extend session", slog.Any("error", err))
		}
	}

	user, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}
	return user, session, nil
}

// SignOut deletes the session behind the token. Unknown tokens are a no-op.
func (s *SessionService) SignOut(ctx context.Context, token string) error {
	return s.Store.Sessions().DeleteSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
}

// ExchangeCode completes verification via the emailed link token and issues
// a session. Re-exchanging a token for an already verified account is
// accepted; the provisioner run is idempotent.
func (s *SessionService) ExchangeCode(ctx context.Context, code string) (SessionWithToken, error) {
	claims, err := s.parseToken(code, purposeVerify)
	if err != nil {
		return SessionWithToken{}, ErrCodeInvalid
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return SessionWithToken{}, ErrCodeInvalid
	}
	if err != nil {
		return SessionWithToken{}, err
	}

	pending, err := s.Store.PendingSignups().GetPendingSignupByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Pending state already consumed; only tolerate that for accounts
		// that did complete verification.
		if !user.Verified() {
			return SessionWithToken{}, ErrCodeInvalid
		}
	case err != nil:
		return SessionWithToken{}, err
	default:
		if pending.TokenID != claims.ID {
			return SessionWithToken{}, ErrCodeInvalid
		}
	}

	return s.completeVerification(ctx, user)
}

// VerifyOTP completes verification via the emailed 6-digit code.
func (s *SessionService) VerifyOTP(ctx context.Context, email, code string) (SessionWithToken, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return SessionWithToken{}, ErrCodeInvalid
	}
	if err != nil {
		return SessionWithToken{}, err
	}

	pending, err := s.Store.PendingSignups().GetPendingSignupByUserID(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return SessionWithToken{}, ErrCodeInvalid
	}
	if err != nil {
		return SessionWithToken{}, err
	}

	if time.Now().UTC().After(pending.ExpiresAt) {
		return SessionWithToken{}, ErrCodeInvalid
	}
	if !hotp.Validate(code, pending.OTPCounter, pending.OTPSecret) {
		return SessionWithToken{}, ErrCodeInvalid
	}

	return s.completeVerification(ctx, user)
}

// ResendVerification re-issues the emailed code for a pending sign-up. The
// HOTP counter advances so earlier codes stop validating.
func (s *SessionService) ResendVerification(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// No account enumeration through the resend form.
		log.Debug("resend requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	pending, err := s.Store.PendingSignups().GetPendingSignupByUserID(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pending.OTPCounter++
	if err := s.Store.PendingSignups().BumpOTPCounter(ctx, pending.ID, pending.OTPCounter); err != nil {
		return err
	}

	return s.sendVerification(ctx, user, pending)
}

// RequestPasswordReset emails a reset link. Always succeeds from the
// caller's perspective so the form can't be used to probe for accounts.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.signToken(user.ID, idx.New().String(), purposeReset, time.Hour)
	if err != nil {
		return err
	}

	return s.Mail.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Reset your password: %s/auth/reset-password?token=%s\nIf you did not request this, ignore this email.",
			s.BaseURL, token),
	})
}

// ResetPassword sets a new password from a reset token and revokes every
// session for the account. Completing a reset also proves email ownership.
func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.parseToken(token, purposeReset)
	if err != nil {
		return ErrCodeInvalid
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return ErrCodeInvalid
	}
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.Store.Users().MarkEmailVerified(ctx, user.ID, time.Now().UTC()); err != nil {
		return err
	}
	return s.Store.Sessions().DeleteUserSessions(ctx, user.ID)
}

func (s *SessionService) createUser(ctx context.Context, email, password, fullName string, verifiedAt *time.Time) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:              idx.New().String(),
		Email:           email,
		FullName:        fullName,
		PasswordHash:    hash,
		EmailVerifiedAt: verifiedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *SessionService) createPendingSignup(ctx context.Context, userID, orgName string) (domain.PendingSignup, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return domain.PendingSignup{}, err
	}

	now := time.Now().UTC()
	pending := domain.PendingSignup{
		ID:        idx.New().String(),
		UserID:    userID,
		OrgName:   orgName,
		OTPSecret: base32.StdEncoding.EncodeToString(secret),
		TokenID:   idx.New().String(),
		ExpiresAt: now.Add(s.VerifyTTL),
		CreatedAt: now,
	}

	if err := s.Store.PendingSignups().CreatePendingSignup(ctx, pending); err != nil {
		return domain.PendingSignup{}, err
	}
	return pending, nil
}

func (s *SessionService) sendVerification(ctx context.Context, user domain.User, pending domain.PendingSignup) error {
	token, err := s.signToken(user.ID, pending.TokenID, purposeVerify, s.VerifyTTL)
	if err != nil {
		return err
	}

	code, err := hotp.GenerateCode(pending.OTPSecret, pending.OTPCounter)
	if err != nil {
		return err
	}

	return s.Mail.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Verify your email",
		Body: fmt.Sprintf("Confirm your account: %s/auth/callback?code=%s\nOr enter this code on the verification page: %s",
			s.BaseURL, token, code),
	})
}

func (s *SessionService) completeVerification(ctx context.Context, user domain.User) (SessionWithToken, error) {
	now := time.Now().UTC()
	if err := s.Store.Users().MarkEmailVerified(ctx, user.ID, now); err != nil {
		return SessionWithToken{}, err
	}
	if user.EmailVerifiedAt == nil {
		user.EmailVerifiedAt = &now
	}

	if _, err := s.Provisioner.Ensure(ctx, user); err != nil {
		return SessionWithToken{}, err
	}

	return s.createSession(ctx, user)
}

func (s *SessionService) createSession(ctx context.Context, user domain.User) (SessionWithToken, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return SessionWithToken{}, err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: now.Add(s.SessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return SessionWithToken{}, err
	}

	return SessionWithToken{Session: session, User: user, Token: token}, nil
}

func (s *SessionService) signToken(userID, tokenID, purpose string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        tokenID,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *SessionService) parseToken(token, purpose string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(s.Issuer))
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("unexpected token purpose %q", claims.Purpose)
	}
	return claims, nil
}
