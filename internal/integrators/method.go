package integrators

import (
	"fmt"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Method selects a time-stepping scheme. The zero value is not a valid method.
type Method int

const (
	Euler Method = iota + 1
	SemiImplicitEuler
	RK4
	RK38
)

var methodNames = map[Method]string{
	Euler:             "euler",
	SemiImplicitEuler: "semi_implicit_euler",
	RK4:               "rk4",
	RK38:              "rk38",
}

// Methods lists every supported method in declaration order.
func Methods() []Method {
	return []Method{Euler, SemiImplicitEuler, RK4, RK38}
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

// ParseMethod maps a configuration name to its Method.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownMethod, name, Methods())
}

func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", dynamo.ErrUnknownMethod, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
