// Package score computes the WING-Score: a graph's confidence-weighted edge
// sentiment reduced to an integer in [-100, 100].
//
// Thin or uninformative graphs decay toward 0. An edge's direction comes from
// its label, its strength from |score| clamped to 1, and its influence from
// its share of the graph's articles. The aggregate is then shrunk by a
// confidence factor built from node-weight spread and article volume.
package score

import (
	"math"

	"wing_backend/internal/feature/graph/domain/entity"
)

// Params are the tunable constants of the aggregation.
type Params struct {
	EdgeScale     float64 // widens the compressed raw sum before clamping
	VolumeExp     float64 // concavity applied to the article volume ratio
	MinConfidence float64 // confidence floor in [0, 1]
	NewsPerNode   int     // articles per node considered fully confident
}

// DefaultParams returns EdgeScale 2.5, VolumeExp 2, MinConfidence 0.15 and 100 articles per node.
func DefaultParams() Params {
	return Params{EdgeScale: 2.5, VolumeExp: 2.0, MinConfidence: 0.15, NewsPerNode: 100}
}

// EdgeEvidence is one edge's sentiment and the number of articles attributed to it.
type EdgeEvidence struct {
	Label    entity.SentimentLabel
	Score    float64
	Articles int
}

// Input is everything the aggregation reads from a persisted graph.
type Input struct {
	Edges         []EdgeEvidence
	NodeWeights   []float64
	TotalArticles int
}

// Result carries the final score and its intermediate terms.
type Result struct {
	WingScore    int
	Sum          float64
	BaseScore    float64
	GraphWeight  float64
	VolumeFactor float64
	Confidence   float64
}

// FromGraph builds an Input from graph edges and per-pair article counts.
// Counts are looked up by unordered node pair.
func FromGraph(nodes []entity.Node, edges []entity.Edge, counts map[entity.PairKey]int, totalArticles int) Input {
	in := Input{
		Edges:         make([]EdgeEvidence, 0, len(edges)),
		NodeWeights:   make([]float64, 0, len(nodes)),
		TotalArticles: totalArticles,
	}
	for _, e := range edges {
		in.Edges = append(in.Edges, EdgeEvidence{
			Label:    e.SentimentLabel,
			Score:    e.SentimentScore,
			Articles: counts[e.Key()],
		})
	}
	for _, n := range nodes {
		in.NodeWeights = append(in.NodeWeights, n.Weight)
	}
	return in
}

// Compute returns the WING-Score for in. A graph without edges or without
// articles scores 0.
func Compute(in Input, p Params) Result {
	if len(in.Edges) == 0 || in.TotalArticles <= 0 {
		return Result{}
	}

	total := float64(in.TotalArticles)
	var sum float64
	for _, e := range in.Edges {
		sign := e.Label.Sign()
		if sign == 0 || e.Articles <= 0 {
			continue
		}
		sum += float64(sign) * magnitude(e.Score) * (float64(e.Articles) / total)
	}

	base := clamp(sum*p.EdgeScale, -1, 1)
	gw := graphWeight(in.NodeWeights)

	maxNews := math.Max(1, float64(len(in.NodeWeights)*p.NewsPerNode))
	volumeNorm := math.Min(1, total/maxNews)
	volumeFactor := math.Pow(volumeNorm, p.VolumeExp)

	reliability := gw * volumeFactor
	confidence := p.MinConfidence + (1-p.MinConfidence)*reliability

	return Result{
		WingScore:    int(math.Round(clamp(base*confidence, -1, 1) * 100)),
		Sum:          sum,
		BaseScore:    base,
		GraphWeight:  gw,
		VolumeFactor: volumeFactor,
		Confidence:   confidence,
	}
}

// magnitude clamps |score| to 1; zero or non-finite scores count as 1.
func magnitude(score float64) float64 {
	if score == 0 || math.IsNaN(score) || math.IsInf(score, 0) {
		return 1
	}
	return math.Min(1, math.Abs(score))
}

// graphWeight is the mean of node weights normalised by the maximum weight.
// It is 0.5 when there are no nodes or no positive weight.
func graphWeight(weights []float64) float64 {
	const fallback = 0.5
	if len(weights) == 0 {
		return fallback
	}
	maxW := 0.0
	for _, w := range weights {
		if !math.IsNaN(w) && w > maxW {
			maxW = w
		}
	}
	if maxW <= 0 || math.IsInf(maxW, 0) {
		return fallback
	}
	var sum float64
	for _, w := range weights {
		if math.IsNaN(w) {
			continue
		}
		sum += clamp(w/maxW, 0, 1)
	}
	return sum / float64(len(weights))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
