package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/registrar-hub/registrar-analytics-api/internal/models"
	appErrors "github.com/registrar-hub/registrar-analytics-api/pkg/errors"
)

// SnapshotRepository reads one schema variant's raw records in full.
// Every query orders by primary key so the snapshot is deterministic;
// the adapter and store rely on that for byte-identical reruns.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs the repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Fetch loads the complete raw snapshot for a variant.
func (r *SnapshotRepository) Fetch(ctx context.Context, variant models.SchemaVariant) (models.RawSnapshot, error) {
	snap := models.RawSnapshot{Variant: variant}

	switch variant {
	case models.VariantOld:
		if err := r.fetchOld(ctx, &snap); err != nil {
			return models.RawSnapshot{}, err
		}
	case models.VariantNew:
		if err := r.fetchNew(ctx, &snap); err != nil {
			return models.RawSnapshot{}, err
		}
	default:
		return models.RawSnapshot{}, appErrors.Clone(appErrors.ErrUnknownVariant, "")
	}

	// Both variants share the professor directory and the curricula;
	// the legacy side needs the directory to reconcile teacher names.
	if err := r.db.SelectContext(ctx, &snap.NewProfessors,
		`SELECT id, name FROM professors ORDER BY id`); err != nil {
		return models.RawSnapshot{}, fmt.Errorf("fetch professors: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.Curricula,
		`SELECT id, course_code, curriculum_year FROM curricula ORDER BY id`); err != nil {
		return models.RawSnapshot{}, fmt.Errorf("fetch curricula: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.CurriculumSubjects,
		`SELECT curriculum_id, subject_code, subject_name, year_level, semester, units, lec_hours, lab_hours, prerequisites FROM curriculum_subjects ORDER BY curriculum_id, year_level, semester, subject_code`); err != nil {
		return models.RawSnapshot{}, fmt.Errorf("fetch curriculum subjects: %w", err)
	}

	return snap, nil
}

func (r *SnapshotRepository) fetchOld(ctx context.Context, snap *models.RawSnapshot) error {
	if err := r.db.SelectContext(ctx, &snap.OldStudents,
		`SELECT id, name, course, year_level FROM legacy_students ORDER BY id`); err != nil {
		return fmt.Errorf("fetch legacy students: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.OldSubjects,
		`SELECT code, description, units, lec_hours, lab_hours, teacher, prerequisites FROM legacy_subjects ORDER BY code`); err != nil {
		return fmt.Errorf("fetch legacy subjects: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.OldSemesters,
		`SELECT id, semester, school_year FROM legacy_semesters ORDER BY id`); err != nil {
		return fmt.Errorf("fetch legacy semesters: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.OldGrades,
		`SELECT student_id, semester_id, subject_codes, grades, teachers FROM legacy_grades ORDER BY student_id, semester_id`); err != nil {
		return fmt.Errorf("fetch legacy grades: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) fetchNew(ctx context.Context, snap *models.RawSnapshot) error {
	if err := r.db.SelectContext(ctx, &snap.NewStudents,
		`SELECT id, student_number, name, course_code, year_level, curriculum_year FROM students ORDER BY id`); err != nil {
		return fmt.Errorf("fetch students: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.NewSubjects,
		`SELECT id, subject_code, subject_name, units, lec_hours, lab_hours, professor_id FROM subjects ORDER BY id`); err != nil {
		return fmt.Errorf("fetch subjects: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.NewTerms,
		`SELECT id, code, academic_year, number FROM terms ORDER BY id`); err != nil {
		return fmt.Errorf("fetch terms: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.NewGrades,
		`SELECT student_id, subject_id, term_id, numeric_grade, status FROM grades ORDER BY student_id, term_id, subject_id`); err != nil {
		return fmt.Errorf("fetch grades: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.NewSections,
		`SELECT id, section_name, subject_id, term_id, professor_id, student_ids FROM sections ORDER BY id`); err != nil {
		return fmt.Errorf("fetch sections: %w", err)
	}
	return nil
}
