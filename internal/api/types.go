package api

import (
	"fmt"
	"time"
)

// Image is one gallery entry as returned by the list endpoint.
type Image struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	Likes       int    `json:"likes"`
	UploadedAt  string `json:"uploaded_at,omitempty"`
}

// Comment is one comment on an image.
type Comment struct {
	Email     string `json:"email"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// commentTimeLayouts are the formats the server is known to send.
var commentTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Created parses CreatedAt.
func (c Comment) Created() (time.Time, error) {
	for _, layout := range commentTimeLayouts {
		if t, err := time.Parse(layout, c.CreatedAt); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized comment timestamp %q", c.CreatedAt)
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// NetworkError covers rejected requests and undecodable responses.
type NetworkError struct {
	Op     string
	Status int // Zero when no response was received.
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is an {"error": "..."} body sent back by the server.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
