package plugin

import "fmt"

// PluginError names the plugin and the lifecycle step (configure, validate,
// apply) that failed.
type PluginError struct {
	PluginName string
	Operation  string
	Err        error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %q %s: %v", e.PluginName, e.Operation, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

func NewPluginError(name, operation string, err error) *PluginError {
	return &PluginError{PluginName: name, Operation: operation, Err: err}
}
