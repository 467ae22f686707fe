package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "correct horse battery") {
		t.Fatal("correct password should verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Fatal("wrong password should not verify")
	}
}

func testJWTService(ttl time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:    "unit-test-secret",
		Issuer:    "course-service-test",
		AccessTTL: ttl,
	})
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := &models.User{ID: 42, Email: "t@example.com", Role: models.RoleTeacher}

	token, jti, expiresAt, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if jti == "" {
		t.Fatal("expected a jti for revocation")
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("token should expire in the future")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Role != models.RoleTeacher || claims.ID != jti {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWT_ExpiredToken(t *testing.T) {
	svc := testJWTService(-time.Minute)
	token, _, _, err := svc.GenerateToken(&models.User{ID: 1, Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	token, _, _, err := testJWTService(time.Hour).GenerateToken(&models.User{ID: 1, Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewJWTService(config.JWTConfig{Secret: "different-secret", Issuer: "x", AccessTTL: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer lower-case", "lower-case", false},
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer", "", true},
	}

	for _, tc := range cases {
		got, err := ExtractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("header %q: expected error", tc.header)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("header %q: got (%q, %v), want %q", tc.header, got, err, tc.want)
		}
	}
}
