package optimizer

import (
	"sort"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/pkg/utils"
)

// BestXI picks one goalkeeper and the top players per position for every formation
// the squad can fill, keeping the highest total with the captain counted twice.
// Without a goalkeeper or a fillable formation it returns an empty lineup.
func BestXI(scored []ScoredPlayer, formations []Formation) Lineup {
	byPos := make(map[models.Position][]ScoredPlayer, 4)
	for _, sp := range rankByPoints(scored) {
		byPos[sp.Player.Position] = append(byPos[sp.Player.Position], sp)
	}

	empty := Lineup{XI: []ScoredPlayer{}, Bench: []ScoredPlayer{}}
	gks := byPos[models.Goalkeeper]
	if len(gks) == 0 {
		return empty
	}

	var (
		best      []ScoredPlayer
		bestShape Formation
		bestTotal = -1.0
	)
	for _, f := range formations {
		def, mid, fwd := byPos[models.Defender], byPos[models.Midfielder], byPos[models.Forward]
		if len(def) < f.Defenders || len(mid) < f.Midfielders || len(fwd) < f.Forwards {
			continue
		}
		xi := make([]ScoredPlayer, 0, f.Size())
		xi = append(xi, gks[0])
		xi = append(xi, def[:f.Defenders]...)
		xi = append(xi, mid[:f.Midfielders]...)
		xi = append(xi, fwd[:f.Forwards]...)

		total := sumPoints(xi) + rankByPoints(xi)[0].Points
		if total > bestTotal {
			best, bestShape, bestTotal = xi, f, total
		}
	}
	if best == nil {
		return empty
	}

	inXI := make(map[int]bool, len(best))
	for _, sp := range best {
		inXI[sp.Player.ID] = true
	}
	bench := make([]ScoredPlayer, 0, len(scored)-len(best))
	for _, sp := range rankByPoints(scored) {
		if !inXI[sp.Player.ID] {
			bench = append(bench, sp)
		}
	}

	ranked := rankByPoints(best)
	captain := ranked[0]
	vice := ranked[0]
	if len(ranked) > 1 {
		vice = ranked[1]
	}

	xiPoints := sumPoints(best)
	return Lineup{
		Formation:   bestShape,
		XI:          best,
		Bench:       bench,
		Captain:     &captain,
		ViceCaptain: &vice,
		XIPoints:    utils.Round(xiPoints, 3),
		BenchPoints: utils.Round(sumPoints(bench), 3),
		Total:       utils.Round(xiPoints+captain.Points, 3),
	}
}

// rankByPoints returns a copy sorted by points descending, keeping input order on ties.
func rankByPoints(in []ScoredPlayer) []ScoredPlayer {
	out := make([]ScoredPlayer, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}

func sumPoints(players []ScoredPlayer) float64 {
	s := 0.0
	for _, sp := range players {
		s += sp.Points
	}
	return s
}
