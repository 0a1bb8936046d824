package field

import (
	"fmt"
	"math"
)

// Nonlinearity selects the activation used by the coupled-map update.
type Nonlinearity int

const (
	Tanh Nonlinearity = iota
	Sine
	Cubic
	Logistic
	ReLU
)

var nonlinNames = [...]string{"tanh", "sine", "cubic", "logistic", "relu"}

func (n Nonlinearity) String() string {
	if n >= 0 && int(n) < len(nonlinNames) {
		return nonlinNames[n]
	}
	return fmt.Sprintf("nonlinearity(%d)", int(n))
}

// ParseNonlinearity resolves a name to a Nonlinearity.
func ParseNonlinearity(s string) (Nonlinearity, error) {
	for i, name := range nonlinNames {
		if s == name {
			return Nonlinearity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown nonlinearity %q (have %v)", s, nonlinNames)
}

// Apply evaluates the activation at x.
func (n Nonlinearity) Apply(x float64) float64 {
	switch n {
	case Tanh:
		return math.Tanh(x)
	case Sine:
		return math.Sin(x)
	case Cubic:
		return x * x * x
	case Logistic:
		return x * (1 - x)
	case ReLU:
		if x < 0 {
			return 0
		}
		return x
	default:
		return x
	}
}
