package schoolRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"chronoboard/models"
)

// MemorySchoolRepo keeps schools in process memory (STORE_BACKEND=memory, tests).
type MemorySchoolRepo struct {
	mu      sync.RWMutex
	schools map[string]*models.School
}

func NewMemorySchoolRepo() *MemorySchoolRepo {
	return &MemorySchoolRepo{schools: make(map[string]*models.School)}
}

func (r *MemorySchoolRepo) GetByID(_ context.Context, id string) (*models.School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	school, ok := r.schools[id]
	if !ok {
		return nil, ErrNotFound
	}
	return school.Clone(), nil
}

func (r *MemorySchoolRepo) List(_ context.Context) ([]models.School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.School, 0, len(r.schools))
	for _, school := range r.schools {
		out = append(out, *school.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemorySchoolRepo) Create(_ context.Context, school *models.School) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[school.ID]; ok {
		return ErrAlreadyExists
	}
	now := time.Now().UTC()
	school.CreatedAt = now
	school.UpdatedAt = now
	r.schools[school.ID] = school.Clone()
	return nil
}

func (r *MemorySchoolRepo) Update(_ context.Context, id string, mutate MutateFunc) (*models.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.schools[id]
	if !ok {
		return nil, ErrNotFound
	}
	school := current.Clone()
	if err := mutate(school); err != nil {
		return nil, err
	}
	school.ID = id
	school.UpdatedAt = time.Now().UTC()
	r.schools[id] = school
	return school.Clone(), nil
}

func (r *MemorySchoolRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[id]; !ok {
		return ErrNotFound
	}
	delete(r.schools, id)
	return nil
}
