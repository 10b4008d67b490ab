package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"caseclub/internal/domains/partner/model"
)

func TestSimilarity(t *testing.T) {
	strong := map[string]float64{"Framework": 5, "Estimation": 5}

	t.Run("identical profiles score one", func(t *testing.T) {
		assert.InDelta(t, 1.0, model.Similarity(strong, strong), 0.0001)
	})

	t.Run("closer profile scores higher", func(t *testing.T) {
		close := map[string]float64{"Framework": 4, "Estimation": 5}
		far := map[string]float64{"Framework": 1, "Estimation": 1}

		assert.Greater(t, model.Similarity(strong, close), model.Similarity(strong, far))
	})

	t.Run("missing skills count as neutral", func(t *testing.T) {
		a := map[string]float64{"Framework": 3}
		b := map[string]float64{"Estimation": 3}

		// Both sides resolve to the neutral rating on every skill.
		assert.InDelta(t, 1.0, model.Similarity(a, b), 0.0001)
	})

	t.Run("empty profiles score zero", func(t *testing.T) {
		assert.Zero(t, model.Similarity(nil, nil))
	})
}

func TestComplementarity(t *testing.T) {
	weak := map[string]float64{"Framework": 1, "Estimation": 1}

	t.Run("strong partner covers weaknesses", func(t *testing.T) {
		strong := map[string]float64{"Framework": 5, "Estimation": 5}
		alsoWeak := map[string]float64{"Framework": 1, "Estimation": 1}

		assert.Greater(t, model.Complementarity(weak, strong), model.Complementarity(weak, alsoWeak))
	})

	t.Run("exact value over shared skills", func(t *testing.T) {
		b := map[string]float64{"Framework": 4, "Estimation": 2}

		// ((5-1)*4 + (5-1)*2) / 2
		assert.InDelta(t, 12.0, model.Complementarity(weak, b), 0.0001)
	})
}
