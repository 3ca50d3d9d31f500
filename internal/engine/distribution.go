package engine

import "github.com/registrar-hub/registrar-analytics-api/internal/models"

// GradeDistribution buckets a grade list into the caller's bins and
// reports each bin's share in percent, rounded to two decimals. A
// grade lands in the first bin whose [Low, High] range contains it;
// a fractional grade falling in a gap between integer-bounded bins
// lands in the first bin whose lower bound it meets, so a descending
// bin list covers [0,100] with no gaps. The rounded percentages are
// closed to exactly 100.00 by assigning the rounding residue to the
// fullest bin; an empty list reports zero everywhere, never NaN.
func GradeDistribution(grades []float64, bins []models.GradeBin) models.Distribution {
	counts := make([]int, len(bins))
	total := 0
	for _, g := range grades {
		if i := binIndex(g, bins); i >= 0 {
			counts[i]++
			total++
		}
	}

	dist := models.Distribution{
		Bins:  make([]models.BinShare, len(bins)),
		Total: total,
	}
	for i, bin := range bins {
		share := models.BinShare{Label: bin.Label, Count: counts[i]}
		if total > 0 {
			share.Percent = round2(float64(counts[i]) / float64(total) * 100)
		}
		dist.Bins[i] = share
	}

	if total > 0 {
		sum := 0.0
		largest := 0
		for i, share := range dist.Bins {
			sum += share.Percent
			if share.Count > dist.Bins[largest].Count {
				largest = i
			}
		}
		if residue := round2(100 - sum); residue != 0 {
			dist.Bins[largest].Percent = round2(dist.Bins[largest].Percent + residue)
		}
	}

	return dist
}

func binIndex(g float64, bins []models.GradeBin) int {
	for i, bin := range bins {
		if g >= bin.Low && g <= bin.High {
			return i
		}
	}
	for i, bin := range bins {
		if g >= bin.Low {
			return i
		}
	}
	return -1
}

// SubjectGradeDistribution applies the standard bins to one subject
// offering. An empty termID spans every term the subject ran.
func (e *Engine) SubjectGradeDistribution(subjectID, termID string) models.Distribution {
	var enrollments []models.Enrollment
	if termID == "" {
		enrollments = e.s.EnrollmentsBySubject(subjectID)
	} else {
		enrollments = e.s.EnrollmentsBySubjectTerm(subjectID, termID)
	}

	var grades []float64
	for _, enr := range enrollments {
		if enr.Grade.IsNumeric() {
			grades = append(grades, enr.Grade.Score)
		}
	}
	return GradeDistribution(grades, DefaultGradeBins())
}
