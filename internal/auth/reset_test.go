package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/afzalbekoribjonov/zzz/internal/models"
)

func testUser() models.User {
	return models.User{ID: 1, Username: "ada"}
}

func TestResetTokenRoundTrip(t *testing.T) {
	codec := NewResetTokenCodec("secret", time.Hour)

	token, err := codec.Encode("ada@example.com")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	email, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if email != "ada@example.com" {
		t.Fatalf("got %q, want ada@example.com", email)
	}
}

func TestResetTokenExpiry(t *testing.T) {
	codec := NewResetTokenCodec("secret", -time.Minute)

	token, err := codec.Encode("ada@example.com")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := codec.Decode(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestResetTokenInvalid(t *testing.T) {
	codec := NewResetTokenCodec("secret", time.Hour)

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := codec.Decode(c.token); !errors.Is(err, ErrTokenInvalid) {
				t.Fatalf("got %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestResetTokenWrongSecret(t *testing.T) {
	token, err := NewResetTokenCodec("secret-a", time.Hour).Encode("ada@example.com")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := NewResetTokenCodec("secret-b", time.Hour).Decode(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestResetTokenRejectedAsSession(t *testing.T) {
	// A reset token must not pass for a session token even under the same
	// secret: the audience claim separates the two purposes.
	codec := NewResetTokenCodec("secret", time.Hour)
	sessionToken, err := GenerateJWT(testUser())
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	if _, err := codec.Decode(sessionToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("session token accepted as reset token: %v", err)
	}
}
