package roles_test

import (
	"testing"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/roles"
)

func TestAllowList(t *testing.T) {
	a := roles.NewAllowList([]string{" Admin@PathX.dev ", ""}, []string{"uid-7"})

	tests := []struct {
		sess models.Session
		want bool
	}{
		{models.Session{ID: "x", Email: "admin@pathx.dev"}, true},
		{models.Session{ID: "x", Email: "ADMIN@pathx.dev"}, true},
		{models.Session{ID: "uid-7"}, true},
		{models.Session{ID: "uid-8", Email: "other@pathx.dev"}, false},
		{models.Session{}, false},
	}
	for _, tt := range tests {
		if got := a.Allows(tt.sess); got != tt.want {
			t.Errorf("Allows(%+v) = %v, want %v", tt.sess, got, tt.want)
		}
	}

	if a.Empty() {
		t.Error("Empty() = true for a populated list")
	}
	if !roles.NewAllowList(nil, nil).Empty() {
		t.Error("Empty() = false for an empty list")
	}
}
