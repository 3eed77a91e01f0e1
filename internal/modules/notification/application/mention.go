package application

import (
	"regexp"
	"strings"
)

var (
	// An @handle counts only at start of text or after whitespace/'(' so
	// that the local part of an email address is never treated as one.
	usernamePattern = regexp.MustCompile(`(^|[\s(])@([a-zA-Z0-9._-]{2,50})`)
	emailPattern    = regexp.MustCompile(`(?i)([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-z]{2,})`)
)

// MentionTargets holds the lower-cased, deduplicated mention candidates
// extracted from free text.
type MentionTargets struct {
	Usernames []string
	Emails    []string
}

func (t MentionTargets) Empty() bool {
	return len(t.Usernames) == 0 && len(t.Emails) == 0
}

// ExtractMentionTargets scans text for @handle tokens and bare email
// addresses. Candidates are lower-cased and deduplicated, first occurrence
// order preserved.
func ExtractMentionTargets(text string) MentionTargets {
	var targets MentionTargets

	seenUsernames := map[string]bool{}
	for _, match := range usernamePattern.FindAllStringSubmatch(text, -1) {
		username := strings.ToLower(match[2])
		if !seenUsernames[username] {
			seenUsernames[username] = true
			targets.Usernames = append(targets.Usernames, username)
		}
	}

	seenEmails := map[string]bool{}
	for _, match := range emailPattern.FindAllStringSubmatch(text, -1) {
		email := strings.ToLower(match[1])
		if !seenEmails[email] {
			seenEmails[email] = true
			targets.Emails = append(targets.Emails, email)
		}
	}

	return targets
}
