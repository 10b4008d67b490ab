package model

import (
	"math"

	"caseclub/shared/constant"
)

// Similarity is the cosine similarity of two skill profiles over the union of
// their rated skills. A skill missing from either side counts as neutral.
// Identical profiles score 1.
func Similarity(a, b map[string]float64) float64 {
	var dot, normA, normB float64

	for _, skill := range unionSkills(a, b) {
		ratingA := rating(a, skill)
		ratingB := rating(b, skill)

		dot += ratingA * ratingB
		normA += ratingA * ratingA
		normB += ratingB * ratingB
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}

// Complementarity measures how much b covers a's weaknesses: the mean of
// (5-a)*b over the union of rated skills, high when a is weak exactly where
// b is strong.
func Complementarity(a, b map[string]float64) float64 {
	skills := unionSkills(a, b)
	if len(skills) == 0 {
		return 0
	}

	var sum float64

	for _, skill := range skills {
		sum += (constant.MaxSkillRating - rating(a, skill)) * rating(b, skill)
	}

	return sum / float64(len(skills))
}

func unionSkills(a, b map[string]float64) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	skills := make([]string, 0, len(a)+len(b))

	for skill := range a {
		if _, ok := seen[skill]; !ok {
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}
	}

	for skill := range b {
		if _, ok := seen[skill]; !ok {
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}
	}

	return skills
}

func rating(profile map[string]float64, skill string) float64 {
	if r, ok := profile[skill]; ok {
		return r
	}

	return constant.NeutralSkillRating
}
