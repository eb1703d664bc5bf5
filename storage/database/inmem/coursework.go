package inmemdb

import (
	"github.com/trezcool/darasa/core/coursework"
)

type courseworkRepository struct {
	db *courseworkTables
}

var _ coursework.Repository = (*courseworkRepository)(nil) // interface compliance check

func NewCourseworkRepository(db *DB) coursework.Repository {
	return &courseworkRepository{db: db.coursework}
}

func (repo *courseworkRepository) CreateNote(n coursework.Note) (coursework.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.notes = append([]coursework.Note{n}, repo.db.notes...)
	return n, nil
}

func (repo *courseworkRepository) QueryNotes() ([]coursework.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notes := make([]coursework.Note, len(repo.db.notes))
	copy(notes, repo.db.notes)
	return notes, nil
}

func (repo *courseworkRepository) CreateAssignment(a coursework.Assignment) (coursework.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.assignments = append([]coursework.Assignment{a}, repo.db.assignments...)
	return a, nil
}

func (repo *courseworkRepository) QueryAssignments() ([]coursework.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]coursework.Assignment, len(repo.db.assignments))
	copy(assignments, repo.db.assignments)
	return assignments, nil
}
