package conf

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/grader/gradebook"
)

// Policy is the grading policy of a deployment, read from a TOML file.
//
//	withdrawal_token = "WDR"
//	weight_tolerance = 1e-6
//	comment_prefix = "#"
//
//	[[bands]]
//	letter = "A"
//	min = 90
//
//	[[bands]]
//	letter = "F" # lowest band, no min
type Policy struct {
	WithdrawalToken string       `toml:"withdrawal_token"`
	WeightTolerance float64      `toml:"weight_tolerance"`
	CommentPrefix   *string      `toml:"comment_prefix"`
	Bands           []PolicyBand `toml:"bands"`
}

type PolicyBand struct {
	Letter string   `toml:"letter"`
	Min    *float64 `toml:"min"`
}

func ReadPolicy(path string) (gradebook.Options, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return gradebook.Options{}, fmt.Errorf("error reading policy: %w", err)
	}
	opts, err := ParsePolicy(content)
	if err != nil {
		return gradebook.Options{}, fmt.Errorf("policy %s: %w", path, err)
	}
	slog.Debug("grading policy loaded", "path", path, "bands", len(opts.Bands))
	return opts, nil
}

// ParsePolicy overlays the TOML policy on the default options.
func ParsePolicy(content []byte) (gradebook.Options, error) {
	var p Policy
	if err := toml.Unmarshal(content, &p); err != nil {
		return gradebook.Options{}, fmt.Errorf("failed to unmarshal policy: %w", err)
	}

	opts := gradebook.DefaultOptions()
	if p.WithdrawalToken != "" {
		opts.WithdrawalToken = p.WithdrawalToken
	}
	if p.WeightTolerance < 0 {
		return gradebook.Options{}, fmt.Errorf("weight_tolerance must not be negative, got %g", p.WeightTolerance)
	}
	if p.WeightTolerance > 0 {
		opts.WeightTolerance = p.WeightTolerance
	}
	if p.CommentPrefix != nil {
		opts.CommentPrefix = *p.CommentPrefix
	}

	if len(p.Bands) > 0 {
		bands := make(gradebook.BandTable, 0, len(p.Bands))
		for i, b := range p.Bands {
			band := gradebook.Band{Letter: b.Letter, Min: math.Inf(-1)}
			if b.Min != nil {
				band.Min = *b.Min
			} else if i != len(p.Bands)-1 {
				return gradebook.Options{}, fmt.Errorf("band %q needs a min, only the last band may omit it", b.Letter)
			}
			bands = append(bands, band)
		}
		if err := bands.Validate(); err != nil {
			return gradebook.Options{}, fmt.Errorf("invalid band table: %w", err)
		}
		opts.Bands = bands
	}
	return opts, nil
}
