package migration

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	manifestDateLayoutConstant               = "2006-01-02"
	manifestLoadErrorTemplateConstant        = "failed to load migration manifest: %w"
	manifestParseErrorTemplateConstant       = "failed to parse migration manifest: %w"
	manifestDateParseErrorTemplateConstant   = "failed to parse manifest start date %q: %w"
	manifestPathRequiredMessageConstant      = "migration manifest path must be provided"
	manifestEpicRequiredMessageConstant      = "migration manifest must name a source epic"
	manifestProjectRequiredMessageConstant   = "migration manifest must name a target project"
	manifestStartDateRequiredMessageConstant = "migration manifest must provide a new start date"
)

// Manifest is the declarative form of one migration run, loaded from YAML. It
// lets operators keep recurring template instantiations under version control
// instead of retyping flags.
type Manifest struct {
	SourceEpic    string `yaml:"source_epic"`
	TargetProject string `yaml:"target_project"`
	NewStartDate  string `yaml:"new_start_date"`
}

// LoadManifest reads a migration manifest from disk and performs basic
// validation.
func LoadManifest(filePath string) (Manifest, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Manifest{}, errors.New(manifestPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf(manifestLoadErrorTemplateConstant, readError)
	}

	var manifest Manifest
	if unmarshalError := yaml.Unmarshal(contentBytes, &manifest); unmarshalError != nil {
		return Manifest{}, fmt.Errorf(manifestParseErrorTemplateConstant, unmarshalError)
	}

	if validationError := manifest.Validate(); validationError != nil {
		return Manifest{}, validationError
	}

	return manifest, nil
}

// Validate checks that every required manifest field is present.
func (manifest Manifest) Validate() error {
	if len(strings.TrimSpace(manifest.SourceEpic)) == 0 {
		return errors.New(manifestEpicRequiredMessageConstant)
	}
	if len(strings.TrimSpace(manifest.TargetProject)) == 0 {
		return errors.New(manifestProjectRequiredMessageConstant)
	}
	if len(strings.TrimSpace(manifest.NewStartDate)) == 0 {
		return errors.New(manifestStartDateRequiredMessageConstant)
	}
	return nil
}

// MigrationOptions converts the manifest into executor options, parsing the
// start date as a calendar day.
func (manifest Manifest) MigrationOptions() (MigrationOptions, error) {
	startDate, parseError := time.Parse(manifestDateLayoutConstant, strings.TrimSpace(manifest.NewStartDate))
	if parseError != nil {
		return MigrationOptions{}, fmt.Errorf(manifestDateParseErrorTemplateConstant, manifest.NewStartDate, parseError)
	}

	return MigrationOptions{
		SourceEpicKey:    strings.TrimSpace(manifest.SourceEpic),
		TargetProjectKey: strings.TrimSpace(manifest.TargetProject),
		NewStartDate:     startDate,
	}, nil
}
