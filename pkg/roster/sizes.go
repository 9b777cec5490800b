package roster

import "fmt"

// TeamSizing is the derived team count and admissible size set for a
// roster of N participants, target size T, and the shrink flag - §3.
type TeamSizing struct {
	NumTeams int
	// Sizes holds either one value (T divides N evenly) or two adjacent
	// values; Count[i] is how many teams must take Sizes[i].
	Sizes []int
	Count []int
}

// DeriveTeamSizing computes K and the team-size multiset deterministically
// from N, T and shrink, per §3:
//   - N mod T == 0            -> K = N/T, every team size T.
//   - !shrink                  -> sizes {T, T+1}, minimizing how many teams
//     take the smaller size T.
//   - shrink                   -> sizes {T-1, T}. T=2 is rejected (size 1
//     teams are forbidden).
func DeriveTeamSizing(n, target int, shrink bool) (TeamSizing, error) {
	if target <= 2 {
		return TeamSizing{}, fmt.Errorf("%w: target_team_size must be > 2", ErrBadRequest)
	}
	if n <= 0 {
		return TeamSizing{}, fmt.Errorf("%w: roster is empty", ErrBadRequest)
	}

	if n%target == 0 {
		k := n / target
		if k < 2 {
			// Boundary case (§8): less_than_target=true with N==T is a
			// legal single team of size T; no size violation is possible.
			if shrink && n == target {
				return TeamSizing{NumTeams: 1, Sizes: []int{target}, Count: []int{1}}, nil
			}
			return TeamSizing{}, fmt.Errorf("%w: only %d team(s) of size %d fit %d participants", ErrUnsolvableSize, k, target, n)
		}
		return TeamSizing{NumTeams: k, Sizes: []int{target}, Count: []int{k}}, nil
	}

	var small, big int
	if shrink {
		if target == 2 {
			return TeamSizing{}, fmt.Errorf("%w: shrink with target_team_size=2 would require size-1 teams", ErrUnsolvableSize)
		}
		small, big = target-1, target
	} else {
		small, big = target, target+1
	}

	// total = countSmall*small + countBig*big, countSmall+countBig = k,
	// for the smallest k >= 2 that admits a non-negative integer solution,
	// minimizing the count of the smaller size as §3 requires. In shrink
	// mode we additionally require at least one team at the untouched
	// target size (countBig >= 1): "shrink" means a handful of teams give
	// up one member, not that every team is undersized. A combination
	// that shrinks every team (countBig == 0) means target_team_size
	// itself doesn't fit this roster and is rejected as UnsolvableSize -
	// resolving spec.md's scenario 6 (N=4, T=3, shrink=true).
	for k := 2; k <= n; k++ {
		// countBig*big + (k-countBig)*small = n  =>  countBig = (n - k*small) / (big-small)
		num := n - k*small
		den := big - small
		if den == 0 {
			continue
		}
		if num < 0 || num%den != 0 {
			continue
		}
		countBig := num / den
		countSmall := k - countBig
		if countBig < 0 || countSmall < 0 {
			continue
		}
		if countBig+countSmall != k {
			continue
		}
		if shrink && countBig == 0 {
			continue
		}
		return TeamSizing{
			NumTeams: k,
			Sizes:    []int{small, big},
			Count:    []int{countSmall, countBig},
		}, nil
	}

	return TeamSizing{}, fmt.Errorf("%w: no partition of %d participants into teams of size %d or %d", ErrUnsolvableSize, n, small, big)
}

// SizeSet returns the admissible team sizes in ascending order, with
// duplicates removed (a single-size result yields one element).
func (t TeamSizing) SizeSet() []int { return t.Sizes }
