package testutil

import (
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mazen160/go-random"
)

// FixtureServer serves the given body for every request it receives.
// The server is torn down when the test finishes.
func FixtureServer(t testing.TB, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// RandomString generates a random string of the given length.
func RandomString(t testing.TB, length int) string {
	str, err := random.String(length)
	if err != nil {
		t.Fatal(err)
	}
	return str
}

// RandomSwitch returns a function that will output various integers at different weights.
//
// Ex. RandomSwitch(2, 3, 5) will return a function that will output:
//   - `0` 20% of the time
//   - `1` 30% of the time
//   - `2` 50% of the time
func RandomSwitch(weights ...int) func(rndm *rand.Rand) int {
	if len(weights) == 0 {
		panic("a random switch must have at least 1 probability")
	}

	var sum int
	for _, p := range weights {
		if p == 0 {
			panic("cannot have weight that is 0")
		}
		sum += p
	}

	return func(rndm *rand.Rand) int {
		value := rndm.Intn(sum)

		threshold := 0
		for i := 0; i < len(weights); i++ {
			threshold += weights[i]
			if value < threshold {
				return i
			}
		}

		panic(fmt.Sprintf("random value generated was out of bounds: %d", value))
	}
}
