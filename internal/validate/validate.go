// Package validate holds the local input checks run before any request is sent.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinCommentLength = 2
	MaxCommentLength = 500
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Error is a validation failure meant to be shown to the user as is.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Email checks s against the local@domain.tld pattern.
func Email(s string) error {
	if s == "" {
		return &Error{Field: "email", Message: "Please enter your email"}
	}
	if !emailPattern.MatchString(s) {
		return &Error{Field: "email", Message: "Invalid email. Use: you@domain.com"}
	}
	return nil
}

// CommentText checks that s holds between MinCommentLength and MaxCommentLength characters.
func CommentText(s string) error {
	if s == "" {
		return &Error{Field: "text", Message: "Please fill in email and comment"}
	}
	n := utf8.RuneCountInString(s)
	if n < MinCommentLength || n > MaxCommentLength {
		return &Error{Field: "text", Message: "Comment must be between 2 and 500 characters"}
	}
	return nil
}

// Comment validates a comment submission after trimming both fields and
// returns the trimmed values.
func Comment(email, text string) (string, string, error) {
	email = strings.TrimSpace(email)
	text = strings.TrimSpace(text)
	if email == "" || text == "" {
		return email, text, &Error{Field: "form", Message: "Please fill in email and comment"}
	}
	if err := Email(email); err != nil {
		return email, text, err
	}
	if err := CommentText(text); err != nil {
		return email, text, err
	}
	return email, text, nil
}
