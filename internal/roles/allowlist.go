package roles

import (
	"strings"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
)

// AllowList names the operators who may promote themselves.
type AllowList struct {
	emails map[string]struct{}
	ids    map[string]struct{}
}

// NewAllowList builds an allow-list. Emails compare case-insensitively.
func NewAllowList(emails, ids []string) AllowList {
	a := AllowList{
		emails: make(map[string]struct{}, len(emails)),
		ids:    make(map[string]struct{}, len(ids)),
	}
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			a.emails[e] = struct{}{}
		}
	}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			a.ids[id] = struct{}{}
		}
	}
	return a
}

func (a AllowList) Empty() bool {
	return len(a.emails) == 0 && len(a.ids) == 0
}

func (a AllowList) Allows(sess models.Session) bool {
	if _, ok := a.ids[sess.ID]; ok && sess.ID != "" {
		return true
	}
	if sess.Email == "" {
		return false
	}
	_, ok := a.emails[strings.ToLower(sess.Email)]
	return ok
}
