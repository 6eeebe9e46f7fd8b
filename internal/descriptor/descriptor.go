package descriptor

import (
	"fmt"

	"go.uber.org/multierr"
)

// Descriptor names one cloud function deployment: what gets registered,
// which symbol runs, and which storage event fires it. It is built once
// per run and never mutated.
type Descriptor struct {
	Name            string `yaml:"name"`
	EntryPoint      string `yaml:"entry_point"`
	Runtime         string `yaml:"runtime"`
	TriggerResource string `yaml:"trigger_resource"`
	TriggerEvent    string `yaml:"trigger_event"`
}

// Default returns the authored descriptor for the plate-solver receiver
// function. The runtime tag is a config value, not a fixed behavior;
// override it when the provider retires the tag.
func Default() Descriptor {
	return Descriptor{
		Name:            "gce-plate-solver",
		EntryPoint:      "ack_fits_received",
		Runtime:         "python312",
		TriggerResource: "panoptes-survey",
		TriggerEvent:    "google.storage.object.finalize",
	}
}

// Validate checks that every field is set. The deployment tool would reject
// an incomplete descriptor anyway, but only after a remote round trip, and
// one field at a time. All missing fields are reported together.
func (d Descriptor) Validate() error {
	var err error
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", d.Name},
		{"entry_point", d.EntryPoint},
		{"runtime", d.Runtime},
		{"trigger_resource", d.TriggerResource},
		{"trigger_event", d.TriggerEvent},
	} {
		if field.value == "" {
			err = multierr.Append(err, fmt.Errorf("descriptor field %s is required", field.name))
		}
	}
	return err
}
