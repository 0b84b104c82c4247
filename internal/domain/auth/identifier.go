package auth

import "strings"

// DefaultEmailDomain completes bare staff handles such as "rabnawaz".
const DefaultEmailDomain = "codenest.com"

// NormalizeIdentifier turns a sign-in identifier into the stored email form.
func NormalizeIdentifier(identifier string) string {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" || strings.Contains(id, "@") {
		return id
	}
	return id + "@" + DefaultEmailDomain
}
