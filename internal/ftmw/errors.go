package ftmw

import "fmt"

// ConfigError reports an invalid or incomplete acquisition
// configuration, detected before any numeric work is done.
type ConfigError struct {
	msg string
}

func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return e.msg
}

// DataError reports unreadable or inconsistent line-list contents.
type DataError struct {
	msg string
}

func NewDataError(format string, args ...any) *DataError {
	return &DataError{fmt.Sprintf(format, args...)}
}

func (e *DataError) Error() string {
	return e.msg
}

// ComputeError reports a numeric failure, such as incompatible array
// shapes or non-finite input values.
type ComputeError struct {
	msg string
}

func NewComputeError(format string, args ...any) *ComputeError {
	return &ComputeError{fmt.Sprintf(format, args...)}
}

func (e *ComputeError) Error() string {
	return e.msg
}
