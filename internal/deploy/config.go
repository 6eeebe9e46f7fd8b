package deploy

import (
	"github.com/panoptes-survey/gce-deployer/internal/descriptor"
)

// Config is the `deployer` section of the YAML config. Fields left out of
// the file keep the authored defaults.
type Config struct {
	GcloudPath string                `yaml:"gcloud_path"`
	Project    string                `yaml:"project"`
	Region     string                `yaml:"region"`
	Function   descriptor.Descriptor `yaml:"function"`
}

// DefaultConfig returns the configuration the tool was authored with: the
// plate-solver descriptor, the project that owns its bucket, and whatever
// gcloud is on PATH.
func DefaultConfig() Config {
	return Config{
		GcloudPath: "gcloud",
		Project:    "panoptes-survey",
		Function:   descriptor.Default(),
	}
}
