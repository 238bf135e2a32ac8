// Package metrics exposes the Prometheus collectors of the IAM service and
// the remote client.
package metrics
