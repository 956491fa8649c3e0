package tts

import (
	"fmt"
	"strconv"
	"strings"
)

// OpenAI accepts speech speed in the range 0.25-4.0.
const (
	minSpeed = 0.25
	maxSpeed = 4.0
)

// ParseRate converts a percentage rate modifier ("+15%", "-10%") into a
// speed multiplier. An empty modifier means normal speed. Values outside the
// provider's supported range are clamped.
func ParseRate(rate string) (float64, error) {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return 1.0, nil
	}
	if !strings.HasSuffix(rate, "%") {
		return 0, fmt.Errorf("invalid speech rate %q: expected a percentage like +15%%", rate)
	}

	pct, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSuffix(rate, "%"), "+"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid speech rate %q: %w", rate, err)
	}

	speed := 1.0 + pct/100.0
	if speed < minSpeed {
		speed = minSpeed
	}
	if speed > maxSpeed {
		speed = maxSpeed
	}
	return speed, nil
}
