package httpapi

import (
	"context"
	"testing"

	"github.com/riskibarqy/darts-tournament/internal/domain/user"
)

func TestPrincipalFromContext(t *testing.T) {
	t.Parallel()

	if _, ok := principalFromContext(context.Background()); ok {
		t.Fatalf("expected no principal on a bare context")
	}
	if _, ok := principalFromContext(withPrincipal(context.Background(), user.Principal{Email: "x@example.com"})); ok {
		t.Fatalf("expected principal without user id to be rejected")
	}

	got, ok := principalFromContext(withPrincipal(context.Background(), user.Principal{UserID: "player-1", IsStaff: true}))
	if !ok || got.UserID != "player-1" || !got.IsStaff {
		t.Fatalf("unexpected principal: %+v ok=%v", got, ok)
	}
}
