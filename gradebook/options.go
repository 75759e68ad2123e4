package gradebook

import "log/slog"

const (
	DefaultWithdrawalToken = "WDR"
	DefaultWeightTolerance = 1e-6
	DefaultCommentPrefix   = "#"
)

// Options are the per-deployment knobs of a grading run.
type Options struct {
	// WithdrawalToken marks a student line as a withdrawal, compared
	// case-insensitively.
	WithdrawalToken string
	// WeightTolerance is the allowed absolute deviation of the weight sum
	// from 100.
	WeightTolerance float64
	// CommentPrefix starts a comment that runs to the end of the line. Empty
	// disables comments.
	CommentPrefix string
	Bands         BandTable
	// StudentFilter restricts parsing to the student with this identifier.
	StudentFilter string

	log *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.log == nil {
		return slog.Default()
	}
	return o.log
}

func DefaultOptions() Options {
	return Options{
		WithdrawalToken: DefaultWithdrawalToken,
		WeightTolerance: DefaultWeightTolerance,
		CommentPrefix:   DefaultCommentPrefix,
		Bands:           DefaultBands(),
	}
}

func (o Options) withDefaults() Options {
	if o.WithdrawalToken == "" {
		o.WithdrawalToken = DefaultWithdrawalToken
	}
	if o.WeightTolerance <= 0 {
		o.WeightTolerance = DefaultWeightTolerance
	}
	if len(o.Bands) == 0 {
		o.Bands = DefaultBands()
	}
	return o
}
