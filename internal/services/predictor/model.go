package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/interfaces"
	"github.com/bobmcallan/aurum/internal/models"
)

// artifact is the on-disk form of the trained model: an ordered feature list
// with per-feature weights and an intercept. The internals are opaque to the
// pipeline — only the column contract is validated.
type artifact struct {
	FeatureNames []string  `json:"feature_names"`
	Weights      []float64 `json:"weights"`
	Intercept    float64   `json:"intercept"`
}

// ArtifactModel is the production Model backend, loaded once at startup.
type ArtifactModel struct {
	weights   [4]float64
	intercept float64
}

// LoadArtifact reads and validates a model artifact file. The feature columns
// must match {Open, Prev_Price, Price_Change, 7_day_avg} in that exact order;
// anything else is a contract violation, not something to reorder silently.
func LoadArtifact(path string) (*ArtifactModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact %s: %s", common.ErrModelInvocation, path, err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: parse artifact %s: %s", common.ErrModelInvocation, path, err)
	}

	if len(a.FeatureNames) != len(models.FeatureNames) || len(a.Weights) != len(models.FeatureNames) {
		return nil, fmt.Errorf("%w: artifact expects %d features, got %d names / %d weights",
			common.ErrModelInvocation, len(models.FeatureNames), len(a.FeatureNames), len(a.Weights))
	}
	for i, name := range models.FeatureNames {
		if a.FeatureNames[i] != name {
			return nil, fmt.Errorf("%w: feature column %d is %q, want %q",
				common.ErrModelInvocation, i, a.FeatureNames[i], name)
		}
	}

	m := &ArtifactModel{intercept: a.Intercept}
	copy(m.weights[:], a.Weights)
	return m, nil
}

// Predict applies the artifact to the feature vector in contract order.
func (m *ArtifactModel) Predict(ctx context.Context, features models.DerivedFeatures) (float64, error) {
	vec := features.Vector()
	out := m.intercept
	for i, w := range m.weights {
		out += w * vec[i]
	}
	return out, nil
}

// Compile-time check
var _ interfaces.Model = (*ArtifactModel)(nil)
