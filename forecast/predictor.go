package forecast

import "grid-forecast/models"

// Predictor is a fitted model that scores one feature vector.
type Predictor interface {
	Predict(features models.FeatureVector) (float64, error)
}

// PredictorFunc adapts an ordinary function to Predictor.
type PredictorFunc func(features models.FeatureVector) (float64, error)

// Predict calls f(features).
func (f PredictorFunc) Predict(features models.FeatureVector) (float64, error) {
	return f(features)
}
