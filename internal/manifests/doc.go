// Package manifests builds well formed record bodies from typed wizard values.
//
// All builders are pure: they never talk to the store.
package manifests
