package service

import "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"

// SelectionInput carries everything the gate-type decision needs. Both
// candidate sets are already scored and floor-filtered.
type SelectionInput struct {
	Physical           []model.ClusterCandidate
	Virtual            []model.CategoryCandidate
	VarianceExceeds    bool
	TotalCheckins      int
	DistinctCategories int
}

// SelectGateType decides, once per run, whether the event materializes
// physical or virtual gates. The two kinds are never mixed in a single run;
// a later run may switch strategy as the data profile changes.
func SelectGateType(in SelectionInput) string {
	if len(in.Physical) == 0 {
		return model.GateTypeVirtual
	}

	// Categories separate attendees where GPS cannot: a small event split
	// across categories, or a categorically-split event whose coordinates
	// all land in one spot, goes virtual.
	if in.DistinctCategories >= 2 && (in.TotalCheckins < 50 || !in.VarianceExceeds) {
		return model.GateTypeVirtual
	}

	meanPhysical := meanClusterConfidence(in.Physical)
	meanVirtual := meanCategoryConfidence(in.Virtual)

	if len(in.Physical) >= 2 &&
		in.VarianceExceeds &&
		meanPhysical >= 0.75 &&
		(meanPhysical > meanVirtual || len(in.Physical) >= 3) {
		return model.GateTypePhysical
	}

	// A single strong cluster with no competing categorical signal still
	// deserves a physical gate.
	if meanPhysical >= 0.75 {
		return model.GateTypePhysical
	}
	return model.GateTypeVirtual
}

func meanClusterConfidence(candidates []model.ClusterCandidate) float64 {
	if len(candidates) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range candidates {
		sum += c.Confidence
	}
	return sum / float64(len(candidates))
}

func meanCategoryConfidence(candidates []model.CategoryCandidate) float64 {
	if len(candidates) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range candidates {
		sum += c.Confidence
	}
	return sum / float64(len(candidates))
}
