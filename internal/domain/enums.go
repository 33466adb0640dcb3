package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CordSide is the side of the blind the control cord hangs from
type CordSide int

const (
	CordSideLeft CordSide = iota
	CordSideRight
)

// String returns the wire value ("left" / "right")
func (s CordSide) String() string {
	switch s {
	case CordSideLeft:
		return "left"
	case CordSideRight:
		return "right"
	default:
		return fmt.Sprintf("CordSide(%d)", int(s))
	}
}

// IsValid checks if the cord side is one of the declared values
func (s CordSide) IsValid() bool {
	switch s {
	case CordSideLeft, CordSideRight:
		return true
	default:
		return false
	}
}

// ParseCordSide accepts the wire values and the Portuguese display words.
func ParseCordSide(v string) (CordSide, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "esquerda":
		return CordSideLeft, nil
	case "right", "direita":
		return CordSideRight, nil
	default:
		return CordSideLeft, fmt.Errorf("invalid cord side %q", v)
	}
}

func (s CordSide) MarshalJSON() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid cord side %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *CordSide) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("cord side must be a string: %w", err)
	}
	if v == "" {
		*s = CordSideLeft
		return nil
	}
	parsed, err := ParseCordSide(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CordSideLabels translates cord sides into display labels
type CordSideLabels struct {
	Left  string
	Right string
}

// DefaultCordSideLabels are the labels used by the sales team
var DefaultCordSideLabels = CordSideLabels{Left: "Esquerda", Right: "Direita"}

// Label returns the display label for a side; unset labels fall back to the defaults.
func (l CordSideLabels) Label(s CordSide) string {
	switch s {
	case CordSideLeft:
		if l.Left != "" {
			return l.Left
		}
		return DefaultCordSideLabels.Left
	case CordSideRight:
		if l.Right != "" {
			return l.Right
		}
		return DefaultCordSideLabels.Right
	default:
		return s.String()
	}
}
