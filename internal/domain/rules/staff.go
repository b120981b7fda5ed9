package rules

// Capacity returns how many properties a member of the given level may manage.
func Capacity(level int, capacities []int) int {
	if len(capacities) == 0 {
		return 0
	}
	if level < 1 {
		level = 1
	}
	if level > len(capacities) {
		level = len(capacities)
	}
	return capacities[level-1]
}

// MaxLevel is the highest attainable level.
func MaxLevel(capacities []int) int {
	return len(capacities)
}

// XPToNextLevel returns the XP needed to leave level, or 0 at the top level.
func XPToNextLevel(level int, thresholds []float64) float64 {
	if level < 1 || level > len(thresholds) {
		return 0
	}
	return thresholds[level-1]
}

// GainXP adds daily experience capped at the next level's threshold.
func GainXP(xp float64, level, assigned int, perProperty float64, thresholds []float64) float64 {
	next := XPToNextLevel(level, thresholds)
	if next == 0 {
		return xp
	}
	return min(xp+float64(assigned)*perProperty, next)
}

// CanPromote reports whether the threshold for the next level has been met.
func CanPromote(xp float64, level int, thresholds []float64) bool {
	next := XPToNextLevel(level, thresholds)
	return next > 0 && xp >= next
}

// Salary returns the monthly salary for a district tier (1-based).
func Salary(tier int, salaries []float64) float64 {
	if len(salaries) == 0 {
		return 0
	}
	if tier < 1 {
		tier = 1
	}
	if tier > len(salaries) {
		tier = len(salaries)
	}
	return salaries[tier-1]
}

// IndexSalary raises a salary by a third of a positive quarterly inflation
// rate. Salaries never fall.
func IndexSalary(salary, quarterlyInflation float64) float64 {
	if quarterlyInflation <= 0 {
		return salary
	}
	return salary * (1 + quarterlyInflation/3/100)
}
