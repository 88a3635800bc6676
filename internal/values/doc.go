// Package values defines the typed per-step values of the deployment wizard.
//
// Values reach the workflow already validated; [Validate] is applied where
// they enter the program (YAML files and interactive prompts).
package values
