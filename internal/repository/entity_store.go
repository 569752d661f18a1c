package repository

import (
	"sync"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// EntityStore holds the canonical student and class collections for the session.
// It is a plain container: it never cascades or reconciles memberships. Insertion
// order is preserved so listings are stable.
type EntityStore struct {
	mu       sync.RWMutex
	students []models.Student
	classes  []models.ClassRoom
}

// NewEntityStore builds an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{}
}

// StoreTx exposes store operations to a Transaction callback. It must not escape the callback.
type StoreTx struct {
	s *EntityStore
}

// Transaction runs fn while holding the writer lock so that several mutations form one
// atomic transition for readers.
func (s *EntityStore) Transaction(fn func(tx *StoreTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&StoreTx{s: s})
}

// ListStudents returns a snapshot copy of all students.
func (s *EntityStore) ListStudents() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listStudents()
}

// ListClasses returns a snapshot copy of all classes.
func (s *EntityStore) ListClasses() []models.ClassRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listClasses()
}

// FindStudent returns a copy of the student with the given id.
func (s *EntityStore) FindStudent(id string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findStudent(id)
}

// FindClass returns a copy of the class with the given id.
func (s *EntityStore) FindClass(id string) (models.ClassRoom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findClass(id)
}

// UpsertStudent inserts the student or replaces the one with the same id wholesale.
func (s *EntityStore) UpsertStudent(student models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertStudent(student)
}

// UpsertClass inserts the class or replaces the one with the same id wholesale.
func (s *EntityStore) UpsertClass(class models.ClassRoom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertClass(class)
}

// RemoveStudent deletes by id. Unknown ids are ignored.
func (s *EntityStore) RemoveStudent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeStudent(id)
}

// RemoveClass deletes by id without touching students. Unknown ids are ignored.
func (s *EntityStore) RemoveClass(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeClass(id)
}

// ReplaceAll swaps whole collections. A nil slice means the caller had no valid
// sequence for that half, which is then left untouched; an empty non-nil slice clears it.
func (s *EntityStore) ReplaceAll(students []models.Student, classes []models.ClassRoom) (studentsApplied, classesApplied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceAll(students, classes)
}

// Counts returns collection sizes.
func (s *EntityStore) Counts() (students, classes int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students), len(s.classes)
}

// ListStudents returns a snapshot copy of all students.
func (tx *StoreTx) ListStudents() []models.Student { return tx.s.listStudents() }

// ListClasses returns a snapshot copy of all classes.
func (tx *StoreTx) ListClasses() []models.ClassRoom { return tx.s.listClasses() }

// FindStudent returns a copy of the student with the given id.
func (tx *StoreTx) FindStudent(id string) (models.Student, bool) { return tx.s.findStudent(id) }

// FindClass returns a copy of the class with the given id.
func (tx *StoreTx) FindClass(id string) (models.ClassRoom, bool) { return tx.s.findClass(id) }

// UpsertStudent inserts or replaces a student.
func (tx *StoreTx) UpsertStudent(student models.Student) { tx.s.upsertStudent(student) }

// UpsertClass inserts or replaces a class.
func (tx *StoreTx) UpsertClass(class models.ClassRoom) { tx.s.upsertClass(class) }

// RemoveStudent deletes a student by id.
func (tx *StoreTx) RemoveStudent(id string) bool { return tx.s.removeStudent(id) }

// RemoveClass deletes a class by id.
func (tx *StoreTx) RemoveClass(id string) bool { return tx.s.removeClass(id) }

// ReplaceAll behaves like EntityStore.ReplaceAll inside the transaction.
func (tx *StoreTx) ReplaceAll(students []models.Student, classes []models.ClassRoom) (bool, bool) {
	return tx.s.replaceAll(students, classes)
}

func (s *EntityStore) listStudents() []models.Student {
	out := make([]models.Student, len(s.students))
	for i, st := range s.students {
		out[i] = st.Clone()
	}
	return out
}

func (s *EntityStore) listClasses() []models.ClassRoom {
	out := make([]models.ClassRoom, len(s.classes))
	copy(out, s.classes)
	return out
}

func (s *EntityStore) findStudent(id string) (models.Student, bool) {
	for _, st := range s.students {
		if st.ID == id {
			return st.Clone(), true
		}
	}
	return models.Student{}, false
}

func (s *EntityStore) findClass(id string) (models.ClassRoom, bool) {
	for _, c := range s.classes {
		if c.ID == id {
			return c, true
		}
	}
	return models.ClassRoom{}, false
}

func (s *EntityStore) upsertStudent(student models.Student) {
	student = student.Clone()
	for i := range s.students {
		if s.students[i].ID == student.ID {
			s.students[i] = student
			return
		}
	}
	s.students = append(s.students, student)
}

func (s *EntityStore) upsertClass(class models.ClassRoom) {
	for i := range s.classes {
		if s.classes[i].ID == class.ID {
			s.classes[i] = class
			return
		}
	}
	s.classes = append(s.classes, class)
}

func (s *EntityStore) removeStudent(id string) bool {
	for i := range s.students {
		if s.students[i].ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			return true
		}
	}
	return false
}

func (s *EntityStore) removeClass(id string) bool {
	for i := range s.classes {
		if s.classes[i].ID == id {
			s.classes = append(s.classes[:i], s.classes[i+1:]...)
			return true
		}
	}
	return false
}

func (s *EntityStore) replaceAll(students []models.Student, classes []models.ClassRoom) (bool, bool) {
	studentsApplied, classesApplied := students != nil, classes != nil
	if studentsApplied {
		s.students = make([]models.Student, 0, len(students))
		for _, st := range students {
			s.upsertStudent(st)
		}
	}
	if classesApplied {
		s.classes = make([]models.ClassRoom, 0, len(classes))
		for _, c := range classes {
			s.upsertClass(c)
		}
	}
	return studentsApplied, classesApplied
}
