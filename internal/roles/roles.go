// Package roles decides who gets the admin role.
package roles

import "strings"

type AdminList map[string]struct{}

// ParseAdminEmails reads a comma separated ADMIN_EMAILS value.
func ParseAdminEmails(raw string) AdminList {
	out := AdminList{}
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out[e] = struct{}{}
		}
	}
	return out
}

func (a AdminList) IsAdmin(email string) bool {
	_, ok := a[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
