package orders

import (
	"strings"

	"github.com/google/uuid"
)

const (
	orderIDPrefix    = "MTS"
	orderIDRandomLen = 10
)

// IDGenerator produces human-readable order ids.
type IDGenerator interface {
	NewOrderID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewOrderID() string { return f() }

// RandomIDGenerator yields MTS followed by ten upper-case hex characters of a
// random UUID.
type RandomIDGenerator struct{}

func (RandomIDGenerator) NewOrderID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return orderIDPrefix + strings.ToUpper(raw[:orderIDRandomLen])
}
