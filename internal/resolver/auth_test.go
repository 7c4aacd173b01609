package resolver

import (
	"testing"
	"time"

	"inkpress/internal/auth"
	"inkpress/internal/models"
)

func newAuthResolver(f *fixture) *Auth {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewAuth(f.users, tokens, nil)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	r := newAuthResolver(f)

	env := r.Register("res-auth-new@test.local", "password123", "New Author")
	if !env.Success {
		t.Fatalf("Register = %+v", env)
	}
	user := env.Data.(*models.User)
	t.Cleanup(func() { f.db.Exec("DELETE FROM users WHERE id = $1", user.ID) })

	login := r.Login("res-auth-new@test.local", "password123", "")
	if !login.Success {
		t.Fatalf("Login = %+v", login)
	}
	payload := login.Data.(AuthPayload)
	if payload.Token == "" {
		t.Fatal("login issued no token")
	}
	if payload.User == nil || payload.User.ID != user.ID {
		t.Fatalf("login user = %+v", payload.User)
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	r := newAuthResolver(f)

	f.user(t, "res-auth-dup@test.local")

	env := r.Register("res-auth-dup@test.local", "password123", "Imposter")
	if env.Success {
		t.Fatalf("Register = %+v, want failure", env)
	}
	if env.Msg != "Email is existing... Please input another one!" {
		t.Fatalf("msg = %q", env.Msg)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	f := newFixture(t)
	r := newAuthResolver(f)

	if env := r.Register("no-at-sign", "password123", "X"); env.Success {
		t.Fatalf("bad email accepted: %+v", env)
	}
	if env := r.Register("res-auth-short@test.local", "12345", "X"); env.Success {
		t.Fatalf("short password accepted: %+v", env)
	}
}

func TestAuthLoginWrongCredentials(t *testing.T) {
	f := newFixture(t)
	r := newAuthResolver(f)

	f.user(t, "res-auth-wrong@test.local")

	// Unknown email and wrong password share one message.
	unknown := r.Login("res-auth-nobody@test.local", "password123", "")
	wrong := r.Login("res-auth-wrong@test.local", "bad-password", "")

	for _, env := range []Envelope{unknown, wrong} {
		if env.Success {
			t.Fatalf("Login = %+v, want failure", env)
		}
		if env.Msg != "Email or password is incorrect!" {
			t.Fatalf("msg = %q", env.Msg)
		}
	}
}

func TestAuthMe(t *testing.T) {
	f := newFixture(t)
	r := newAuthResolver(f)

	user := f.user(t, "res-auth-me@test.local")

	env := r.Me(user.ID)
	if !env.Success {
		t.Fatalf("Me = %+v", env)
	}
	if got := env.Data.(*models.User); got.Email != "res-auth-me@test.local" {
		t.Fatalf("Me user = %+v", got)
	}
}
