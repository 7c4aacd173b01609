package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/auth"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "inkpress"

// AuthPayload is the data carried by a successful login envelope.
type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// TwoFactorSetup is the data carried by a setupTwoFactor envelope.
type TwoFactorSetup struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qrCode"` // base64-encoded PNG
}

// Auth handles account registration, login/logout, and optional two-factor
// enrollment.
type Auth struct {
	users   *store.UserStore
	tokens  *auth.TokenService
	revoked *auth.Blacklist
}

// NewAuth creates the auth resolver.
func NewAuth(users *store.UserStore, tokens *auth.TokenService, revoked *auth.Blacklist) *Auth {
	return &Auth{users: users, tokens: tokens, revoked: revoked}
}

// Register creates a new account. Emails are unique across the system.
func (r *Auth) Register(email, password, name string) Envelope {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return fail("Please input a valid email!")
	}
	if len(password) < 6 {
		return fail("Password must be at least 6 characters!")
	}

	existing, err := r.users.FindByEmail(email)
	if err != nil {
		return catchErr("register", err)
	}
	if existing != nil {
		return fail("Email is existing... Please input another one!")
	}

	user, err := r.users.Create(email, password, name)
	if err != nil {
		return catchErr("register", err)
	}

	return ok("Successfully register a new account!", user)
}

// Login verifies credentials (and the TOTP code when two-factor is enabled)
// and issues a bearer token. Credential failures share one message so the
// response never reveals whether the email exists.
func (r *Auth) Login(email, password, totpCode string) Envelope {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := r.users.FindByEmail(email)
	if err != nil {
		return catchErr("login", err)
	}
	if user == nil || !r.users.CheckPassword(user, password) {
		return fail("Email or password is incorrect!")
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !auth.ValidateTOTP(totpCode, *user.TOTPSecret) {
			return fail("Invalid two-factor code!")
		}
	}

	token, _, err := r.tokens.Issue(user.ID, user.Name)
	if err != nil {
		return catchErr("login", err)
	}

	return ok("Successfully login!", AuthPayload{Token: token, User: user})
}

// Logout revokes the presented token until its natural expiry.
func (r *Auth) Logout(ctx context.Context, token string, expiresAt time.Time) Envelope {
	if err := r.revoked.Revoke(ctx, token, expiresAt); err != nil {
		return catchErr("logout", err)
	}
	return ok("Successfully logout!", nil)
}

// Me returns the authenticated user's account.
func (r *Auth) Me(ownerID uuid.UUID) Envelope {
	user, err := r.users.FindByID(ownerID)
	if err != nil {
		return catchErr("me", err)
	}
	if user == nil {
		return fail("User not found")
	}
	return ok("", user)
}

// SetupTwoFactor generates a fresh TOTP secret for the owner and returns the
// enrollment material (secret, otpauth URL, QR code). Calling it again before
// verification replaces the pending secret.
func (r *Auth) SetupTwoFactor(ownerID uuid.UUID) Envelope {
	user, err := r.users.FindByID(ownerID)
	if err != nil {
		return catchErr("setupTwoFactor", err)
	}
	if user == nil {
		return fail("User not found")
	}

	key, err := auth.GenerateTOTPKey(totpIssuer, user.Email)
	if err != nil {
		return catchErr("setupTwoFactor", err)
	}

	if err := r.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		return catchErr("setupTwoFactor", err)
	}

	qr, err := auth.QRCodeBase64(key.URL())
	if err != nil {
		return catchErr("setupTwoFactor", err)
	}

	return ok("Scan the QR code with your authenticator app!", TwoFactorSetup{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: qr,
	})
}

// VerifyTwoFactor checks the first code from the authenticator app and, if
// valid, turns two-factor enforcement on for the account.
func (r *Auth) VerifyTwoFactor(ownerID uuid.UUID, code string) Envelope {
	user, err := r.users.FindByID(ownerID)
	if err != nil {
		return catchErr("verifyTwoFactor", err)
	}
	if user == nil {
		return fail("User not found")
	}
	if user.TOTPSecret == nil {
		return fail("Two-factor setup has not been started!")
	}

	if !auth.ValidateTOTP(code, *user.TOTPSecret) {
		return fail("Invalid code. Please try again.")
	}

	if !user.TOTPEnabled {
		if err := r.users.EnableTOTP(user.ID); err != nil {
			return catchErr("verifyTwoFactor", err)
		}
	}

	return ok("Two-factor authentication enabled!", nil)
}
