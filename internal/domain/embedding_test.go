package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCheckDimensions(t *testing.T) {
	tests := []struct {
		name    string
		vec     Vector
		want    int
		wantErr error
	}{
		{"match", Vector{0.1, 0.2, 0.3}, 3, nil},
		{"any length when unset", Vector{0.1}, 0, nil},
		{"empty", nil, 3, ErrInvalidResponseShape},
		{"empty unset", Vector{}, 0, ErrInvalidResponseShape},
		{"mismatch", Vector{0.1, 0.2}, 3, ErrVectorDimMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckDimensions(tc.vec, tc.want)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestIsHardFailure(t *testing.T) {
	if !IsHardFailure(ErrIndexUnauthorized) {
		t.Error("unauthorized must be hard")
	}
	if !IsHardFailure(errors.Join(errors.New("query"), ErrIndexNotFound)) {
		t.Error("wrapped not found must be hard")
	}
	for _, err := range []error{ErrIndexUnavailable, ErrEmbeddingUnavailable, ErrInvalidResponseShape, ErrConfigurationMissing} {
		if IsHardFailure(err) {
			t.Errorf("%v must not be hard", err)
		}
	}
}

func TestCredentials_Missing(t *testing.T) {
	c := Credentials{IndexName: "docs"}
	missing := c.Missing()
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", missing)
	}
	if c.Complete() {
		t.Error("expected incomplete credentials")
	}

	full := Credentials{EmbeddingAPIKey: "sk", IndexAPIKey: "pc", IndexName: "docs"}
	if !full.Complete() {
		t.Errorf("expected complete credentials, missing %v", full.Missing())
	}
}

func TestCredentials_StringHidesSecrets(t *testing.T) {
	c := Credentials{EmbeddingAPIKey: "sk-secret", IndexAPIKey: "pc-secret", IndexName: "docs"}
	s := c.String()
	if strings.Contains(s, "secret") {
		t.Errorf("String() leaked a secret: %s", s)
	}
}

func TestUsage_NilSafe(t *testing.T) {
	var u *Usage
	u.AddEmbedding(10)
	u.AddIndexQuery()

	ctx, usage := NewContextWithUsage(context.Background())
	UsageFromContext(ctx).AddEmbedding(7)
	UsageFromContext(ctx).AddIndexQuery()
	if usage.EmbeddingTokens != 7 || usage.EmbeddingCalls != 1 || usage.IndexCalls != 1 {
		t.Errorf("unexpected usage: %+v", usage)
	}
	if UsageFromContext(context.Background()) != nil {
		t.Error("expected nil usage for bare context")
	}
}
