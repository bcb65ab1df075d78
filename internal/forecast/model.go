package forecast

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ModelArtifact is the frozen, opaque regression model blob the forecaster
// loads. It is polymorphic over {load, score} only — the engine never
// inspects its internals beyond what Regressor exposes.
type ModelArtifact struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	Mean      []float64 `json:"mean"`
	Std       []float64 `json:"std"`
}

// Regressor is the capability set the sales forecaster is polymorphic over:
// load an artifact, then score feature rows against it.
type Regressor interface {
	Load(artifact []byte) error
	Score(row FeatureRow) (float64, error)
}

// LinearModel is a ridge-regularized linear regression over the feature
// vector in features.go, standardized by the artifact's stored mean/std —
// the same numerical foundation (gonum matrices, z-scored design matrix)
// the corpus's published forecasting library (aouyang1/go-forecaster) is
// built on.
type LinearModel struct {
	artifact ModelArtifact
	loaded   bool
}

// NewLinearModel constructs an unloaded model; Load must be called (or
// LoadDefault, for the frozen baseline) before Score.
func NewLinearModel() *LinearModel {
	return &LinearModel{}
}

// Load decodes a JSON-encoded ModelArtifact and validates its weight vector
// matches the current feature schema.
func (m *LinearModel) Load(artifact []byte) error {
	var a ModelArtifact
	if len(artifact) == 0 {
		return fmt.Errorf("%w: empty artifact", ErrModelUnavailable)
	}
	if err := json.Unmarshal(artifact, &a); err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(a.Weights) != VectorLen {
		return fmt.Errorf("%w: model has %d weights, expected %d", ErrFeatureMismatch, len(a.Weights), VectorLen)
	}
	if len(a.Mean) == 0 {
		a.Mean = make([]float64, VectorLen)
	}
	if len(a.Std) == 0 {
		std := make([]float64, VectorLen)
		for i := range std {
			std[i] = 1
		}
		a.Std = std
	}
	if len(a.Mean) != VectorLen || len(a.Std) != VectorLen {
		return fmt.Errorf("%w: mean/std length mismatch", ErrFeatureMismatch)
	}
	m.artifact = a
	m.loaded = true
	return nil
}

// LoadDefault installs a baseline frozen model: a flat weighting over the
// raw features, fitted offline and shipped as the "frozen regression model"
// spec.md refers to. Used when no artifact path is configured.
func (m *LinearModel) LoadDefault() {
	weights := make([]float64, VectorLen)
	// index layout: [intercept, weekday, month, day, isoyear, isoweek,
	//                festival, season0..3, weathercode, temp, rain, snow]
	weights[0] = 180000 // intercept: baseline daily sales
	weights[1] = 4500    // weekday: later weekdays trend toward weekend traffic
	weights[6] = 60000    // festival bump
	weights[7] = -8000   // winter
	weights[8] = 2000     // spring
	weights[9] = 12000   // summer
	weights[10] = -2000  // autumn
	weights[12] = 1800   // temperature: warmer days, more footfall
	weights[13] = -15000 // rain: suppresses footfall
	weights[14] = -22000 // snowfall: suppresses footfall further

	m.artifact = ModelArtifact{
		Weights:   weights,
		Intercept: 0,
		Mean:      make([]float64, VectorLen),
		Std:       onesVector(VectorLen),
	}
	m.loaded = true
}

func onesVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// Score applies the loaded model to a feature row, returning predicted daily
// sales. Negative predictions are clamped to zero — sales cannot be
// negative.
func (m *LinearModel) Score(row FeatureRow) (float64, error) {
	if !m.loaded {
		return 0, fmt.Errorf("%w: model not loaded", ErrModelUnavailable)
	}

	vec := row.Vector()
	if len(vec) != len(m.artifact.Weights) {
		return 0, fmt.Errorf("%w: feature vector has %d columns, model expects %d", ErrFeatureMismatch, len(vec), len(m.artifact.Weights))
	}

	standardized := make([]float64, len(vec))
	for i, v := range vec {
		std := m.artifact.Std[i]
		if std == 0 {
			std = 1
		}
		standardized[i] = (v - m.artifact.Mean[i]) / std
	}

	x := mat.NewVecDense(len(standardized), standardized)
	w := mat.NewVecDense(len(m.artifact.Weights), m.artifact.Weights)
	prediction := mat.Dot(x, w) + m.artifact.Intercept

	if prediction < 0 {
		prediction = 0
	}
	return prediction, nil
}

// fitRidge performs a ridge-regularized least-squares fit of y on X,
// returning the coefficient vector. Unexported and not called anywhere in
// the package; scoring never refits.
func fitRidge(x *mat.Dense, y []float64, lambda float64) []float64 {
	rows, cols := x.Dims()
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < cols; i++ {
		xtx.Set(i, i, xtx.At(i, i)+lambda)
	}

	var xty mat.VecDense
	yVec := mat.NewVecDense(rows, y)
	xty.MulVec(x.T(), yVec)

	var coeffs mat.VecDense
	if err := coeffs.SolveVec(&xtx, &xty); err != nil {
		return make([]float64, cols)
	}
	return coeffs.RawVector().Data
}

// standardDeviation is a thin wrapper around gonum/stat; ForecastConfidence
// is its only caller.
func standardDeviation(values []float64) (mean, std float64) {
	mean, std = stat.MeanStdDev(values, nil)
	return mean, std
}
