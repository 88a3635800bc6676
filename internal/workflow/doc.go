// Package workflow drives the steps of the cluster deployment wizard.
//
// A Controller starts either uninitialized, when a new cluster is being
// defined, or linked to an existing ClusterDeployment. The first successful
// details step of a new cluster creates its records and links the
// controller; every later step patches the linked records. Failures are
// returned as a StepError carrying a single display message.
package workflow
