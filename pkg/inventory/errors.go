package inventory

import "fmt"

// UnknownToolError is returned when a call names a tool outside the catalog.
// It is a protocol-level fault, never a tool result.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "Unknown tool: " + e.Name
}

func (e *UnknownToolError) Is(target error) bool {
	_, ok := target.(*UnknownToolError)
	return ok
}

// NewUnknownToolError creates a new UnknownToolError.
func NewUnknownToolError(name string) *UnknownToolError {
	return &UnknownToolError{Name: name}
}

// ToolDoesNotExistError is returned when configuration names a tool that is
// not in the catalog.
type ToolDoesNotExistError struct {
	Name string
}

func (e *ToolDoesNotExistError) Error() string {
	return fmt.Sprintf("tool %s does not exist", e.Name)
}

// NewToolDoesNotExistError creates a new ToolDoesNotExistError.
func NewToolDoesNotExistError(name string) *ToolDoesNotExistError {
	return &ToolDoesNotExistError{Name: name}
}

// InvalidArgumentsError is returned when a call's arguments are not a JSON object.
type InvalidArgumentsError struct {
	Err error
}

func (e *InvalidArgumentsError) Error() string {
	return "arguments must be a JSON object"
}

func (e *InvalidArgumentsError) Unwrap() error {
	return e.Err
}
