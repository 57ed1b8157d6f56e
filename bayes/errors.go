package bayes

import (
	"fmt"

	"github.com/SFUStatgen/TJ2022/genotype"
)

// InvalidParameterError reports an input outside its domain, detected
// before any inference work starts.
type InvalidParameterError struct {
	Msg string
}

func (e *InvalidParameterError) Error() string {
	return "invalid parameter: " + e.Msg
}

func invalidf(format string, args ...interface{}) *InvalidParameterError {
	return &InvalidParameterError{Msg: fmt.Sprintf(format, args...)}
}

// InferenceError reports an attempt to condition a variable on a state
// that has zero probability under the current conditioning.
type InferenceError struct {
	ID    int
	State genotype.State
	Msg   string
}

func (e *InferenceError) Error() string {
	if e.Msg != "" {
		return "inference error: " + e.Msg
	}
	return fmt.Sprintf("inference error: state %d of individual %d has zero probability", e.State, e.ID)
}
