// Package telemetry provides phase tracking, window statistics and performance output.
package telemetry

import "log/slog"

// PhaseEvent records one advance of the phase target.
type PhaseEvent struct {
	Tick         int64   `csv:"tick"`
	From         string  `csv:"from"`
	To           string  `csv:"to"`
	Direction    int     `csv:"direction"`
	Resampled    bool    `csv:"resampled"`
	GravitySign  float64 `csv:"gravity_sign"`
	GravityScale float64 `csv:"gravity_scale"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e PhaseEvent) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("tick", e.Tick),
		slog.String("from", e.From),
		slog.String("to", e.To),
		slog.Int("direction", e.Direction),
	}
	if e.Resampled {
		attrs = append(attrs,
			slog.Float64("gravity_sign", e.GravitySign),
			slog.Float64("gravity_scale", e.GravityScale),
		)
	}
	return slog.GroupValue(attrs...)
}
