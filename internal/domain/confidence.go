package domain

// Confidence labels and thresholds. An insight scoring below the show
// threshold is suppressed by the caller, never by the scorer itself.
const (
	ConfidenceLabelHigh   = "high"
	ConfidenceLabelMedium = "medium"
	ConfidenceLabelLow    = "low"

	confidenceShowThreshold = 0.5
	confidenceHighThreshold = 0.8
)

const confidenceBase = 0.3

// ScoreConfidence combines data-volume, source-diversity, time-range and
// context-availability signals into a bounded score. Piecewise-additive from a
// base of 0.3, clamped to [0, 1].
func ScoreConfidence(factors ConfidenceFactors) Confidence {
	score := confidenceBase

	switch {
	case factors.DataPoints >= 30:
		score += 0.25
	case factors.DataPoints >= 14:
		score += 0.15
	case factors.DataPoints >= 7:
		score += 0.05
	}

	switch {
	case factors.DataSources >= 3:
		score += 0.2
	case factors.DataSources >= 2:
		score += 0.1
	case factors.DataSources >= 1:
		score += 0.05
	}

	switch {
	case factors.TimeRangeDays >= 30:
		score += 0.15
	case factors.TimeRangeDays >= 14:
		score += 0.1
	case factors.TimeRangeDays >= 7:
		score += 0.05
	}

	switch {
	case factors.MetricVariety >= 5:
		score += 0.1
	case factors.MetricVariety >= 3:
		score += 0.05
	}

	if factors.HasHistoricalData {
		score += 0.1
	}

	if factors.ContextAvailable {
		score += 0.1
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	label := ConfidenceLabelLow
	switch {
	case score >= confidenceHighThreshold:
		label = ConfidenceLabelHigh
	case score >= confidenceShowThreshold:
		label = ConfidenceLabelMedium
	}

	return Confidence{
		Score:    score,
		Label:    label,
		Showable: score >= confidenceShowThreshold,
	}
}
