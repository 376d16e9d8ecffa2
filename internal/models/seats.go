// internal/models/seats.go
package models

import "fmt"

// ControllerKind says whether a seat is driven by a human or a model.
type ControllerKind string

const (
	ControllerHuman ControllerKind = "human"
	ControllerModel ControllerKind = "model"
)

// Controller is the configured driver of one seat. Model is set only when
// Kind is ControllerModel.
type Controller struct {
	Kind  ControllerKind
	Model string
}

// Human reports whether the seat is human-controlled.
func (c Controller) Human() bool { return c.Kind != ControllerModel }

func (c Controller) String() string {
	if c.Kind == ControllerModel {
		return c.Model
	}
	return string(ControllerHuman)
}

// ParseController interprets a lobby setting: the literal "human" (or empty)
// means a human seat, anything else is taken as a model name.
func ParseController(s string) Controller {
	if s == "" || s == string(ControllerHuman) {
		return Controller{Kind: ControllerHuman}
	}
	return Controller{Kind: ControllerModel, Model: s}
}

// Seats holds the lobby configuration for the four controllable seats
// (red/blue x spymaster/operative).
type Seats struct {
	RedSpymaster  Controller
	RedOperative  Controller
	BlueSpymaster Controller
	BlueOperative Controller
}

// ControllerFor resolves the seat on move for a turn: the team's spymaster
// when the role is HINTER, the team's operative otherwise.
func (s Seats) ControllerFor(team TeamColor, role PlayerRole) Controller {
	switch {
	case team == TeamRed && role == RoleHinter:
		return s.RedSpymaster
	case team == TeamRed:
		return s.RedOperative
	case role == RoleHinter:
		return s.BlueSpymaster
	default:
		return s.BlueOperative
	}
}

func (s Seats) String() string {
	return fmt.Sprintf("red: %s/%s, blue: %s/%s",
		s.RedSpymaster, s.RedOperative, s.BlueSpymaster, s.BlueOperative)
}
