package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/config"
)

func testManager(ttl time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:   "test-secret",
		TokenTTL: ttl,
		Issuer:   "labportal-api",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	m := testManager(time.Hour)
	id := uuid.New()

	for _, actor := range []ActorType{ActorPatient, ActorAdmin} {
		signed, expiresAt, err := m.Generate(id, actor)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !expiresAt.After(time.Now()) {
			t.Error("expiry should be in the future")
		}

		claims, err := m.Validate(signed)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if claims.ID != id {
			t.Errorf("subject = %v, want %v", claims.ID, id)
		}
		if claims.ActorType != actor {
			t.Errorf("actor = %q, want %q", claims.ActorType, actor)
		}
	}
}

func TestValidateExpired(t *testing.T) {
	m := testManager(-time.Minute)
	signed, _, err := m.Generate(uuid.New(), ActorPatient)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.Validate(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	signed, _, err := testManager(time.Hour).Generate(uuid.New(), ActorAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewJWTManager(config.JWTConfig{Secret: "different", TokenTTL: time.Hour, Issuer: "labportal-api"})
	if _, err := other.Validate(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateWrongIssuer(t *testing.T) {
	foreign := NewJWTManager(config.JWTConfig{Secret: "test-secret", TokenTTL: time.Hour, Issuer: "someone-else"})
	signed, _, err := foreign.Generate(uuid.New(), ActorPatient)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := testManager(time.Hour).Validate(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	m := testManager(time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Validate(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Validate(%q): got %v, want ErrTokenInvalid", tok, err)
		}
	}
}
