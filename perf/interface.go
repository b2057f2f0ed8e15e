package perf

import "context"

// Estimator types locate the single most likely change point in a series.
type Estimator interface {
	Estimate([]OrderedValue) (EstimationResult, error)
	Info() AlgorithmInfo
}

// ChangeDetector types calculate change points.
type ChangeDetector interface {
	DetectChanges(context.Context, []float64) ([]ChangePoint, error)
}

// EstimationResult is the best split found by one Estimate call. Index
// is the length of the left segment.
type EstimationResult struct {
	Index     int     `bson:"index" json:"index" yaml:"index"`
	Statistic float64 `bson:"statistic" json:"statistic" yaml:"statistic"`
}

type ChangePoint struct {
	Index     int           `bson:"index" json:"index" yaml:"index"`
	Statistic float64       `bson:"statistic" json:"statistic" yaml:"statistic"`
	PValue    float64       `bson:"p_value" json:"p_value" yaml:"p_value"`
	Info      AlgorithmInfo `bson:"info" json:"info" yaml:"info"`
}

type AlgorithmInfo struct {
	Name    string            `bson:"name" json:"name" yaml:"name"`
	Version int               `bson:"version" json:"version" yaml:"version"`
	Options []AlgorithmOption `bson:"options" json:"options" yaml:"options"`
}

type AlgorithmOption struct {
	Name  string      `bson:"name" json:"name" yaml:"name"`
	Value interface{} `bson:"value" json:"value" yaml:"value"`
}
