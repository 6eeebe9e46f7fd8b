package gcloud

import (
	"strconv"

	"github.com/panoptes-survey/gce-deployer/internal/descriptor"
)

// DeployArgs renders the `functions deploy` invocation for d. Flag order is
// fixed so the composed command is identical across runs, and every value is
// passed through verbatim.
func DeployArgs(d descriptor.Descriptor) []string {
	return []string{
		"functions", "deploy", d.Name,
		"--entry-point", d.EntryPoint,
		"--runtime", d.Runtime,
		"--trigger-resource", d.TriggerResource,
		"--trigger-event", d.TriggerEvent,
	}
}

// DescribeArgs renders the invocation that reads back a deployed function's
// registered state.
func DescribeArgs(name string) []string {
	return []string{"functions", "describe", name}
}

// LogArgs renders the invocation that reads the most recent log entries for
// a deployed function.
func LogArgs(name string, limit int) []string {
	return []string{"functions", "logs", "read", name, "--limit", strconv.Itoa(limit)}
}
