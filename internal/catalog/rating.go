package catalog

import "math"

// UpdateRating computes the new running average after one more grade is
// recorded, rounded to 2 decimal places (half away from zero on the
// value scaled by 100). The caller must also increment the stored
// rating count by exactly one, and apply both updates atomically.
//
// With currentCount == 0 the result is simply the rounded grade.
// Grades are averaged as given; range validation belongs to the
// request boundary.
func UpdateRating(currentAvg float64, currentCount int64, newGrade int) float64 {
	newRating := (currentAvg*float64(currentCount) + float64(newGrade)) / float64(currentCount+1)
	return math.Round(newRating*100) / 100
}
