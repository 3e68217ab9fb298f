package evaluation

import (
	"maps"
	"math"
)

const (
	ScoreMin = 5.0
	ScoreMax = 10.0
)

// Generator produces mock analysis records.
// Sampler and Content are both required.
type Generator struct {
	Sampler Sampler
	Content ContentProvider
}

func NewGenerator(s Sampler, c ContentProvider) *Generator {
	return &Generator{Sampler: s, Content: c}
}

// Generate annotates every image independently. The result has the same
// length and order as images, and record ids are the input positions.
func (g *Generator) Generate(images []ImageDescriptor) []AnalysisRecord {
	out := make([]AnalysisRecord, 0, len(images))
	for idx, img := range images {
		out = append(out, g.record(idx, img))
	}
	return out
}

func (g *Generator) record(idx int, img ImageDescriptor) AnalysisRecord {
	score := DrawScore(g.Sampler)
	n := g.Content.Narrate(img)

	rec := n.Improve
	if score >= PraiseThreshold {
		rec = n.Praise
	}

	return AnalysisRecord{
		ImageDescriptor:    img,
		ID:                 idx,
		Category:           DrawCategory(g.Sampler),
		Score:              score,
		Status:             ClassifyScore(score),
		Recommendations:    []string{rec},
		RealTimeAnalysis:   n.RealTimeAnalysis,
		HistoricalAnalysis: n.HistoricalAnalysis,
		RegionalAnalysis:   maps.Clone(n.RegionalAnalysis),
		Metadata:           maps.Clone(n.Metadata),
	}
}

// DrawScore samples a score in [ScoreMin, ScoreMax] rounded to one decimal.
func DrawScore(s Sampler) float64 {
	raw := ScoreMin + s.Float64()*(ScoreMax-ScoreMin)
	score := math.Round(raw*10) / 10
	// keep the band even if a sampler strays outside [0,1)
	return math.Min(ScoreMax, math.Max(ScoreMin, score))
}

// DrawCategory samples uniformly from Categories.
func DrawCategory(s Sampler) Category {
	return Categories[s.Intn(len(Categories))]
}
