package regression

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"grid-forecast/models"
)

// ErrFeatureMismatch is returned when an artifact was fitted on a different
// feature layout than the one the forecaster builds.
var ErrFeatureMismatch = errors.New("model feature layout mismatch")

// LinearModel is a fitted linear regressor (ridge or OLS) exported as JSON.
type LinearModel struct {
	Name         string    `json:"model"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Alpha        float64   `json:"alpha,omitempty"`
	TrainedAt    string    `json:"trained_at,omitempty"`

	coef *mat.VecDense
}

// ParseLinearModel decodes and validates a model artifact.
func ParseLinearModel(data []byte) (*LinearModel, error) {
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model artifact: %w", err)
	}
	if err := m.init(); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewLinearModel builds a model over the standard feature layout.
func NewLinearModel(coefficients []float64, intercept float64) (*LinearModel, error) {
	m := &LinearModel{
		Name:         "ridge",
		Features:     append([]string(nil), models.FeatureNames...),
		Coefficients: append([]float64(nil), coefficients...),
		Intercept:    intercept,
	}
	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LinearModel) init() error {
	if len(m.Features) != len(models.FeatureNames) {
		return fmt.Errorf("%w: got %d features, want %d", ErrFeatureMismatch, len(m.Features), len(models.FeatureNames))
	}
	for i, name := range models.FeatureNames {
		if m.Features[i] != name {
			return fmt.Errorf("%w: feature %d is %q, want %q", ErrFeatureMismatch, i, m.Features[i], name)
		}
	}
	if len(m.Coefficients) != len(m.Features) {
		return fmt.Errorf("%w: %d coefficients for %d features", ErrFeatureMismatch, len(m.Coefficients), len(m.Features))
	}
	m.coef = mat.NewVecDense(len(m.Coefficients), append([]float64(nil), m.Coefficients...))
	return nil
}

// Predict returns intercept + coefficients . features.
func (m *LinearModel) Predict(features models.FeatureVector) (float64, error) {
	if m.coef == nil {
		return 0, errors.New("model is not initialised")
	}
	x := mat.NewVecDense(len(models.FeatureNames), features.Values())
	return m.Intercept + mat.Dot(m.coef, x), nil
}

// Marshal encodes the artifact in the format ParseLinearModel reads.
func (m *LinearModel) Marshal() ([]byte, error) {
	return json.Marshal(m)
}
