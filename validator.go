package lottery

// MajorityThreshold is the minimum band count demanded by the favor-low, favor-mid
// and favor-high preferences: ceil(mainCount * 0.6), which is 3 for five numbers.
func MajorityThreshold(mainCount int) int {
	return ceilRatio(mainCount, MajorityRatio)
}

// MeetsCriteria reports whether stats of a mainCount-number combination satisfy
// criteria. It is a pure function of its arguments.
func MeetsCriteria(stats Stats, criteria Criteria, mainCount int) bool {
	if !criteria.Odd.Matches(stats.OddCount) || !criteria.Even.Matches(stats.EvenCount) {
		return false
	}

	for _, b := range Bands {
		if !criteria.BandTarget(b).Matches(stats.BandCount(b)) {
			return false
		}
	}

	// contradictory band targets never validate
	if criteria.AllBandsSet() &&
		criteria.Low.Value()+criteria.Mid.Value()+criteria.High.Value() != mainCount {
		return false
	}

	return meetsDistribution(stats, criteria.Distribution, mainCount)
}

func meetsDistribution(stats Stats, pref DistributionPreference, mainCount int) bool {
	if band, ok := pref.favoredBand(); ok {
		return stats.BandCount(band) >= MajorityThreshold(mainCount)
	}

	if pref == DistributionBalanced {
		for _, b := range Bands {
			if stats.BandCount(b) < BalancedMinimum {
				return false
			}
		}
	}
	return true
}

// Accepts computes the stats of c and checks them against criteria
func (g GameConfig) Accepts(c Combination, criteria Criteria) bool {
	return MeetsCriteria(ComputeStats(g, c.Main), criteria, g.MainCount)
}
