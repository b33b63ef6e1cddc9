package types

import (
	"errors"
	"fmt"
	"strings"
)

// Zone is one of the four Swedish electricity price areas.
type Zone string

const (
	ZoneSE1 Zone = "SE1" // Luleå
	ZoneSE2 Zone = "SE2" // Sundsvall
	ZoneSE3 Zone = "SE3" // Stockholm
	ZoneSE4 Zone = "SE4" // Malmö
)

var ErrInvalidZone = errors.New("invalid price zone")

func Zones() []Zone {
	return []Zone{ZoneSE1, ZoneSE2, ZoneSE3, ZoneSE4}
}

func ParseZone(str string) (Zone, error) {
	z := Zone(strings.ToUpper(strings.TrimSpace(str)))
	for _, valid := range Zones() {
		if z == valid {
			return z, nil
		}
	}
	return "", fmt.Errorf("%w: %q, expected one of SE1, SE2, SE3, SE4", ErrInvalidZone, str)
}

func (z Zone) String() string {
	return string(z)
}
