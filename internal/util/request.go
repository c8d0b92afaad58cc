package util

import (
	"fmt"
	"math/rand/v2"
)

// GenerateRequestID returns a short, human friendly id used to tie together
// the log lines of one Chat or StreamChat call.
func GenerateRequestID() string {
	actions := []string{
		"grazing", "trekking", "humming", "spitting", "prancing",
		"carrying", "leading", "following", "resting", "alerting",
		"browsing", "foraging", "wandering", "galloping", "ambling",
	}
	llamas := []string{
		"huacaya", "suri", "vicuna", "alpaca", "guanaco",
		"woolly", "silky", "fluffy", "curly", "shaggy",
		"noble", "gentle", "swift", "steady", "proud",
	}

	group := llamas[rand.IntN(len(llamas))]
	action := actions[rand.IntN(len(actions))]
	suffix := fmt.Sprintf("%04x", rand.IntN(65536))

	return fmt.Sprintf("%s_%s_%s", group, action, suffix)
}
