package report

// YieldRate returns good output as a percentage of good+defect.
func YieldRate(good, defect float64) float64 {
	total := good + defect
	if total == 0 {
		return 0
	}
	return good / total * 100
}

// AchievementRate returns actual as a percentage of target. It is not
// capped, so over-production reports more than 100.
func AchievementRate(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	return actual / target * 100
}

// Utilization returns run time as a percentage of run+stop time.
func Utilization(runTime, stopTime float64) float64 {
	total := runTime + stopTime
	if total == 0 {
		return 0
	}
	return runTime / total * 100
}
