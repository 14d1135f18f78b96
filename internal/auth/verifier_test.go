package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chessclass/liveboard/internal/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claimMap jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claimMap)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifyValidToken(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"id":   "u-42",
		"name": "Ms. Taylor",
		"role": "teacher",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "u-42" || id.DisplayName != "Ms. Taylor" || id.Role != domain.RoleTeacher {
		t.Errorf("identity = %+v", id)
	}
}

func TestVerifySubjectFallback(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "u-7",
		"name": "Sam",
		"role": "student",
	})

	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "u-7" {
		t.Errorf("userID = %q, want u-7", id.UserID)
	}
}

func TestVerifyDefaultDisplayName(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"id":   "u-9",
		"role": "student",
	})

	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.DisplayName == "" {
		t.Error("display name not defaulted")
	}
}

func TestVerifyRejections(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrNoToken},
		{"whitespace", "   ", ErrNoToken},
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{
			"wrong key",
			signToken(t, "other-secret", jwt.MapClaims{"id": "u-1", "role": "student"}),
			ErrInvalidToken,
		},
		{
			"expired",
			signToken(t, testSecret, jwt.MapClaims{
				"id": "u-1", "role": "student",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
			ErrInvalidToken,
		},
		{
			"unknown role",
			signToken(t, testSecret, jwt.MapClaims{"id": "u-1", "role": "superuser"}),
			ErrInvalidToken,
		},
		{
			"missing user id",
			signToken(t, testSecret, jwt.MapClaims{"role": "student"}),
			ErrInvalidToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyRejectsForeignAlg(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	// alg=none style tokens must not pass.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "u-1", "role": "admin"})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(s); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("none-alg token accepted: %v", err)
	}
}
