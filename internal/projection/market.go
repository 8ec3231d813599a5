package projection

import (
	"regexp"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/subarna007/fpl-helper/internal/models"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9 ]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// clubAliases maps provider club names to the odds feed's spelling.
var clubAliases = map[string]string{
	"manchester city":          "man city",
	"man utd":                  "man united",
	"manchester united":        "man united",
	"newcastle united":         "newcastle",
	"nottingham forest":        "nottm forest",
	"nottm forest":             "nottm forest",
	"spurs":                    "tottenham",
	"tottenham hotspur":        "tottenham",
	"wolverhampton wanderers":  "wolves",
	"brighton and hove albion": "brighton",
	"west ham united":          "west ham",
	"leeds united":             "leeds",
	"leicester city":           "leicester",
	"ipswich town":             "ipswich",
	"luton town":               "luton",
	"sheffield utd":            "sheffield united",
}

// NormalizeTeamName lowercases, spells out "&", strips punctuation and collapses spaces.
func NormalizeTeamName(s string) string {
	n := strings.ToLower(s)
	n = strings.ReplaceAll(n, "&", "and")
	n = nonAlnum.ReplaceAllString(n, "")
	n = whitespace.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// MapClubName converts a provider club name to the odds feed's normalised name.
func MapClubName(name string) string {
	n := NormalizeTeamName(name)
	if alias, ok := clubAliases[n]; ok {
		return alias
	}
	return n
}

// MarketProbabilities are the implied probabilities for one club in one fixture.
type MarketProbabilities struct {
	Win    *float64 `json:"win,omitempty"`
	Over25 *float64 `json:"over25,omitempty"`
}

// Implied1X2 converts decimal home/draw/away odds into overround-free probabilities.
func Implied1X2(home, draw, away *float64) (pHome, pDraw, pAway float64, ok bool) {
	if !positive(home) || !positive(draw) || !positive(away) {
		return 0, 0, 0, false
	}
	ih, id, ia := 1 / *home, 1 / *draw, 1 / *away
	s := ih + id + ia
	return ih / s, id / s, ia / s, true
}

// ImpliedOver25 converts over/under 2.5 goals odds into probabilities.
func ImpliedOver25(over, under *float64) (pOver, pUnder float64, ok bool) {
	if !positive(over) || !positive(under) {
		return 0, 0, false
	}
	io, iu := 1 / *over, 1 / *under
	s := io + iu
	return io / s, iu / s, true
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}

// ProbabilitiesFor reads the win and over-2.5 probabilities for the home or away side.
func ProbabilitiesFor(row *models.OddsRow, isHome bool) MarketProbabilities {
	var probs MarketProbabilities
	if pH, _, pA, ok := Implied1X2(row.AvgHome, row.AvgDraw, row.AvgAway); ok {
		win := pA
		if isHome {
			win = pH
		}
		probs.Win = &win
	}
	if pOver, _, ok := ImpliedOver25(row.AvgOver25, row.AvgUnder25); ok {
		probs.Over25 = &pOver
	}
	return probs
}

// MarketMultiplier replaces the difficulty multiplier when odds are known.
// Goalkeepers and defenders also get a clean-sheet boost from low expected goals.
func MarketMultiplier(pos models.Position, probs MarketProbabilities) float64 {
	goals, win, def := 1.0, 1.0, 1.0
	if probs.Over25 != nil {
		over := *probs.Over25
		goals = 0.7 + 0.9*over
	}
	if probs.Win != nil {
		pWin := *probs.Win
		win = 0.8 + 0.6*pWin
	}
	if pos == models.Goalkeeper || pos == models.Defender {
		cs, wb := 1.0, 1.0
		if probs.Over25 != nil {
			cs = 0.9 + 0.8*(1-*probs.Over25)
		}
		if probs.Win != nil {
			pWin := *probs.Win
			wb = 0.9 + 0.6*pWin
		}
		def = cs * wb
	}
	return goals * win * def
}

// OddsBook indexes odds rows for fixture lookups.
type OddsBook struct {
	rows  []models.OddsRow
	teams []string
}

func NewOddsBook(rows []models.OddsRow) *OddsBook {
	seen := make(map[string]bool)
	book := &OddsBook{rows: rows}
	for _, r := range rows {
		for _, t := range []string{r.Home, r.Away} {
			if t != "" && !seen[t] {
				seen[t] = true
				book.teams = append(book.teams, t)
			}
		}
	}
	return book
}

func (b *OddsBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.rows)
}

// Find matches a fixture by team names first, preferring a row on the kickoff's UTC
// date. The date is a soft filter because kickoff timezones can shift the day.
func (b *OddsBook) Find(kickoff *time.Time, homeClub, awayClub string) *models.OddsRow {
	if b == nil || len(b.rows) == 0 {
		return nil
	}
	home := b.resolveTeam(MapClubName(homeClub))
	away := b.resolveTeam(MapClubName(awayClub))
	if home == "" || away == "" {
		return nil
	}

	var first *models.OddsRow
	dmy := ""
	if kickoff != nil {
		dmy = kickoff.UTC().Format("02/01/2006")
	}
	for i := range b.rows {
		r := &b.rows[i]
		if r.Home != home || r.Away != away {
			continue
		}
		if dmy != "" && r.Date == dmy {
			return r
		}
		if first == nil {
			first = r
		}
	}
	return first
}

// resolveTeam returns the feed's spelling of name, falling back to the closest
// fuzzy match when the alias table misses.
func (b *OddsBook) resolveTeam(name string) string {
	best, bestDist := "", -1
	for _, t := range b.teams {
		if t == name {
			return t
		}
		if !fuzzy.MatchFold(name, t) && !fuzzy.MatchFold(t, name) {
			continue
		}
		d := fuzzy.LevenshteinDistance(name, t)
		if bestDist < 0 || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}
