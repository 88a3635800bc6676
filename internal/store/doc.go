// Package store is the resource store the deployment wizard reads and writes
// records through.
//
// [Dynamic] talks to the API server with the client-go dynamic client and
// submits JSON patches. [Memory] keeps records in process and applies patches
// locally; it backs client-side dry runs and tests.
package store
