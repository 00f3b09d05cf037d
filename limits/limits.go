// Package limits holds the physical-limit thresholds the semantic
// analyzer checks requested movement magnitudes against (spec §4.3). The
// spec's own Open Question notes that the source material carries
// conflicting head-translation tables (30 mm vs 50 mm) and says
// alternatives "should be surfaced as a configuration option, not
// hard-coded divergence" — Config is that option, with Default()
// returning the tighter table spec.md mandates.
package limits

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every warn threshold from spec §4.3, in the source units
// (degrees, millimeters) the thresholds are expressed in.
type Config struct {
	BodyYawWarnDeg        float64 `yaml:"body_yaw_warn_deg"`
	HeadPitchWarnDeg      float64 `yaml:"head_pitch_warn_deg"`
	HeadRollWarnDeg       float64 `yaml:"head_roll_warn_deg"`
	HeadYawWarnDeg        float64 `yaml:"head_yaw_warn_deg"`
	AntennaWarnDeg        float64 `yaml:"antenna_warn_deg"`
	AntennaHardCeilingDeg float64 `yaml:"antenna_hard_ceiling_deg"`
	HeadXWarnMM           float64 `yaml:"head_x_warn_mm"`
	HeadYWarnMM           float64 `yaml:"head_y_warn_mm"`
	HeadZPlusWarnMM       float64 `yaml:"head_z_plus_warn_mm"`
	HeadZMinusWarnMM      float64 `yaml:"head_z_minus_warn_mm"`
}

// Default returns the tighter physical-limit table spec §4.3 mandates.
func Default() Config {
	return Config{
		BodyYawWarnDeg:        160,
		HeadPitchWarnDeg:      40,
		HeadRollWarnDeg:       40,
		HeadYawWarnDeg:        65,
		AntennaWarnDeg:        65,
		AntennaHardCeilingDeg: 180,
		HeadXWarnMM:           30,
		HeadYWarnMM:           30,
		HeadZPlusWarnMM:       20,
		HeadZMinusWarnMM:      40,
	}
}

// LoadYAML reads an alternate threshold table from path. Fields absent
// from the file keep their Default() value, so a caller can override a
// single threshold (e.g. a looser head-translation ceiling) without
// restating the rest of the table.
func LoadYAML(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
