// Package models defines the data exchanged with the game service.
package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMalformed is wrapped by every validation failure of a server document.
var ErrMalformed = errors.New("malformed response")

// User is the player record owned by the remote service. The client only ever
// replaces it wholesale with a fresh server response.
type User struct {
	ID        string  `json:"user_id"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"created_at"`
	Points    int64   `json:"points"`
}

// userWire mirrors User with pointer fields so that missing keys can be told
// apart from zero values.
type userWire struct {
	ID        *string `json:"user_id"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"created_at"`
	Points    *int64  `json:"points"`
}

// Button is one preset increment offered by the content document.
type Button struct {
	Amount int    `json:"amount"`
	Label  string `json:"label"`
}

// UIContent is the localization/content document served as ui.json.
type UIContent struct {
	Title       string   `json:"title"`
	Loading     string   `json:"loading"`
	ErrorPrefix string   `json:"errorPrefix"`
	PointsLabel string   `json:"pointsLabel"`
	UserLabel   string   `json:"userLabel"`
	Buttons     []Button `json:"buttons"`
}

// ShortID returns the first eight characters of the user id, the form shown
// on screen. Canonical UUIDs are normalised to lower case first.
func (u User) ShortID() string {
	id := u.ID
	if parsed, err := uuid.Parse(id); err == nil {
		id = parsed.String()
	}
	runes := []rune(id)
	if len(runes) > 8 {
		return string(runes[:8])
	}
	return id
}

// DisplayName returns the user's name or "" when the service has none.
func (u User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}

// UnmarshalJSON decodes a user record, rejecting bodies that omit the id or
// the points total instead of defaulting them.
func (u *User) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == nil || *w.ID == "" {
		return fmt.Errorf("%w: user record has no user_id", ErrMalformed)
	}
	if w.Points == nil {
		return fmt.Errorf("%w: user record has no points", ErrMalformed)
	}
	if *w.Points < 0 {
		return fmt.Errorf("%w: negative points %d", ErrMalformed, *w.Points)
	}
	*u = User{ID: *w.ID, Name: w.Name, CreatedAt: w.CreatedAt, Points: *w.Points}
	return nil
}

// Validate checks the content document invariants.
func (c *UIContent) Validate() error {
	for i, b := range c.Buttons {
		if b.Amount < 1 {
			return fmt.Errorf("%w: button %d has non-positive amount %d", ErrMalformed, i, b.Amount)
		}
	}
	return nil
}

// ButtonFor returns the button declaring amount.
func (c *UIContent) ButtonFor(amount int) (Button, bool) {
	for _, b := range c.Buttons {
		if b.Amount == amount {
			return b, true
		}
	}
	return Button{}, false
}

// ButtonByLabel returns the button whose label equals label.
func (c *UIContent) ButtonByLabel(label string) (Button, bool) {
	for _, b := range c.Buttons {
		if b.Label == label {
			return b, true
		}
	}
	return Button{}, false
}
