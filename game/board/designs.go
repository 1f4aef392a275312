package board

// The tile alphabet: 34 regular designs that match only themselves, then
// two wildcard families of four faces each whose faces match any sibling.
const (
	RegularDesigns = 34
	FamilySize     = 4
	FlowerBase     = RegularDesigns
	SeasonBase     = FlowerBase + FamilySize
	DesignCount    = SeasonBase + FamilySize

	// Family ids. Regular designs are their own family.
	FlowerFamily   = RegularDesigns
	SeasonFamily   = RegularDesigns + 1
	FamilyCount    = RegularDesigns + 2
	PairsPerFamily = 2
)

// IsWildcard reports whether design belongs to a wildcard family.
func IsWildcard(design int) bool {
	return design >= FlowerBase && design < DesignCount
}

// MatchKey returns the value two designs must share to be matchable.
// Regular designs are their own key; wildcard faces map to their family.
func MatchKey(design int) int {
	switch {
	case design >= SeasonBase && design < DesignCount:
		return SeasonFamily
	case design >= FlowerBase && design < SeasonBase:
		return FlowerFamily
	}
	return design
}

// Matches reports whether two designs may be paired.
func Matches(a, b int) bool {
	return a != NoDesign && b != NoDesign && MatchKey(a) == MatchKey(b)
}

// FaceRotation hands out wildcard faces so that consecutive pairs of the
// same family cycle through all four faces before repeating.
type FaceRotation struct {
	next [2]int
}

// PairFaces returns the two designs for the next pair of family.
func (r *FaceRotation) PairFaces(family int) (int, int) {
	var base, slot int
	switch family {
	case FlowerFamily:
		base, slot = FlowerBase, 0
	case SeasonFamily:
		base, slot = SeasonBase, 1
	default:
		return family, family
	}
	n := r.next[slot]
	r.next[slot] = (n + 2) % FamilySize
	return base + n, base + (n+1)%FamilySize
}
