// Package wizard runs the interactive cluster deployment wizard.
//
// Each step is a charmbracelet/huh form collecting typed values that are
// handed to a Saver (the workflow controller) before the next step starts.
// A failed save shows its message and asks the step again. The collected
// values can be written as YAML files for later non-interactive runs.
package wizard
