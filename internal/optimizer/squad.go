package optimizer

import (
	"errors"
	"fmt"

	"github.com/subarna007/fpl-helper/internal/models"
)

const (
	SquadSize  = 15
	MaxPerClub = 3
)

// RequiredCounts is the fixed position makeup of every squad.
var RequiredCounts = map[models.Position]int{
	models.Goalkeeper: 2,
	models.Defender:   5,
	models.Midfielder: 5,
	models.Forward:    3,
}

var (
	ErrSquadSize      = errors.New("squad must have 15 players")
	ErrPositionCounts = errors.New("squad position counts must be 2/5/5/3")
	ErrClubLimit      = errors.New("more than 3 players from one club")
	ErrDuplicate      = errors.New("player appears twice in squad")
)

func PositionCounts(players []models.Player) map[models.Position]int {
	counts := make(map[models.Position]int, 4)
	for _, p := range players {
		counts[p.Position]++
	}
	return counts
}

func ClubCounts(players []models.Player) map[int]int {
	counts := make(map[int]int)
	for _, p := range players {
		counts[p.ClubID]++
	}
	return counts
}

// ValidateStructure checks size, position counts, club cap and duplicates.
func ValidateStructure(players []models.Player) error {
	if len(players) != SquadSize {
		return fmt.Errorf("%w: got %d", ErrSquadSize, len(players))
	}
	if !positionsOK(players) {
		return ErrPositionCounts
	}
	for club, n := range ClubCounts(players) {
		if n > MaxPerClub {
			return fmt.Errorf("%w: club %d has %d", ErrClubLimit, club, n)
		}
	}
	seen := make(map[int]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicate, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func positionsOK(players []models.Player) bool {
	counts := PositionCounts(players)
	for pos, want := range RequiredCounts {
		if counts[pos] != want {
			return false
		}
	}
	return len(players) == SquadSize
}

// Feasible reports whether swapping out for in is legal given bank. The incoming
// player must play the same position, not already be owned and cost no more than
// bank plus the selling price; the resulting squad must keep 2/5/5/3 and the club cap.
func Feasible(squad Squad, out, in models.Player, bank int) bool {
	if in.ID == out.ID || in.Position != out.Position {
		return false
	}
	if squad.Contains(in.ID) || !squad.Contains(out.ID) {
		return false
	}
	if in.Price > bank+squad.SellingPrice(out) {
		return false
	}
	if !positionsOK(squad.Players) {
		return false
	}
	clubs := ClubCounts(squad.Players)
	clubs[out.ClubID]--
	clubs[in.ClubID]++
	for _, n := range clubs {
		if n > MaxPerClub {
			return false
		}
	}
	return true
}
