package phpserialize

import "fmt"

// DecodeError describes where and why a serialized value could not be read.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unserialize at byte %d: %s", e.Offset, e.Reason)
}
