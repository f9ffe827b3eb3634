package kernel

// Error describes a kernel error. Kernel errors are declared as global
// variables pointing to an Error instance. This requirement stems from the
// fact that the Go allocator is not available during early boot so we cannot
// use errors.New.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
