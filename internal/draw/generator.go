package draw

import "sort"

// GenerateNextRound draws the next round for the session. The input is never
// modified. When no court could be filled the returned session equals the
// input and Diagnostics.Committed is false.
func GenerateNextRound(s Session) (Session, Diagnostics, error) {
	if len(s.Attendees) < MinPlayers {
		return s, Diagnostics{}, ErrInsufficientPlayers
	}

	next := s.Clone()
	round := s.CurrentRound + 1
	courts := max(1, s.CourtCount)
	diag := Diagnostics{Round: round, Matches: []GeneratedMatch{}}

	// A single court reuses everyone every round, so no rest is required.
	minRest := 0
	if courts >= 2 {
		minRest = 1
	}

	players := next.Attendees
	inRound := make(map[string]bool, len(players))

	for court := 1; court <= courts; court++ {
		pool := eligible(players, inRound, func(a *Attendee) bool {
			return round-a.LastMatchRound > minRest
		})
		if len(pool) < MinPlayers {
			pool = eligible(players, inRound, nil)
		}
		if len(pool) < MinPlayers {
			diag.Skipped = append(diag.Skipped, CourtSkip{Court: court, Reason: SkipNotEnoughPlayers})
			continue
		}
		sortByFairness(pool)

		var males, females []*Attendee
		for _, p := range pool {
			if p.Gender == Female {
				females = append(females, p)
			} else {
				males = append(males, p)
			}
		}

		matchType, ok := chooseMatchType(len(males), len(females), totals(players))
		if !ok {
			diag.Skipped = append(diag.Skipped, CourtSkip{Court: court, Reason: SkipNoMatchType})
			continue
		}

		team1, team2, ok := assembleTeams(matchType, males, females)
		if !ok {
			diag.Skipped = append(diag.Skipped, CourtSkip{Court: court, Reason: SkipDuplicateSelected})
			continue
		}

		for _, p := range []*Attendee{team1[0], team1[1], team2[0], team2[1]} {
			p.GamesPlayed++
			p.LastMatchRound = round
			p.countMatch(matchType)
			inRound[p.ID] = true
		}

		match := GeneratedMatch{
			Round: round,
			Court: court,
			Team1: [2]Attendee{team1[0].clone(), team1[1].clone()},
			Team2: [2]Attendee{team2[0].clone(), team2[1].clone()},
			Type:  matchType,
		}
		diag.Matches = append(diag.Matches, match)
	}

	if len(diag.Matches) == 0 {
		return s, diag, nil
	}

	next.Matches = append(next.Matches, diag.Matches...)
	next.CurrentRound = round
	diag.Committed = true
	return next, diag, nil
}

// eligible returns pointers to the attendees not yet placed this round that
// also pass the optional rest check.
func eligible(players []Attendee, inRound map[string]bool, rested func(*Attendee) bool) []*Attendee {
	var pool []*Attendee
	for i := range players {
		p := &players[i]
		if inRound[p.ID] {
			continue
		}
		if rested != nil && !rested(p) {
			continue
		}
		pool = append(pool, p)
	}
	return pool
}

// sortByFairness puts the attendees with the fewest games first. Ties go to
// the numerically larger rank.
func sortByFairness(pool []*Attendee) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].GamesPlayed != pool[j].GamesPlayed {
			return pool[i].GamesPlayed < pool[j].GamesPlayed
		}
		return pool[i].Rank > pool[j].Rank
	})
}

type typeTotals struct {
	men, women, mixed int
}

// totals sums the type counters across the whole roster, not only the pool.
func totals(players []Attendee) typeTotals {
	var t typeTotals
	for _, p := range players {
		t.men += p.MenDoubles
		t.women += p.WomenDoubles
		t.mixed += p.MixedDoubles
	}
	return t
}

func chooseMatchType(males, females int, t typeTotals) (MatchType, bool) {
	switch {
	case males >= 2 && females >= 2 && t.mixed <= t.men && t.mixed <= t.women:
		return MatchTypeMixed, true
	case males >= 4 && (t.men <= t.women || females < 4):
		return MatchTypeMen, true
	case females >= 4:
		return MatchTypeWomen, true
	case males >= 2 && females >= 2:
		return MatchTypeMixed, true
	case males >= 4:
		return MatchTypeMen, true
	}
	return "", false
}

// assembleTeams picks the front of the fairness-ordered lists and seeds the
// teams by rank. It fails when the picks are not four distinct attendees.
func assembleTeams(t MatchType, males, females []*Attendee) (team1, team2 [2]*Attendee, ok bool) {
	switch t {
	case MatchTypeMixed:
		if len(males) < 2 || len(females) < 2 {
			return team1, team2, false
		}
		m := byRank(males[:2])
		f := byRank(females[:2])
		if !distinct(m[0], m[1], f[0], f[1]) {
			return team1, team2, false
		}
		// Stronger of one gender plays with the weaker of the other.
		return [2]*Attendee{m[0], f[1]}, [2]*Attendee{m[1], f[0]}, true
	case MatchTypeMen, MatchTypeWomen:
		src := males
		if t == MatchTypeWomen {
			src = females
		}
		if len(src) < 4 {
			return team1, team2, false
		}
		p := byRank(src[:4])
		if !distinct(p...) {
			return team1, team2, false
		}
		return [2]*Attendee{p[0], p[3]}, [2]*Attendee{p[1], p[2]}, true
	}
	return team1, team2, false
}

func byRank(in []*Attendee) []*Attendee {
	out := make([]*Attendee, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

func distinct(players ...*Attendee) bool {
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return false
		}
		seen[p.ID] = true
	}
	return true
}
