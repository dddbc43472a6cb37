package schoolRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chronoboard/models"
	"chronoboard/services/schedule"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collectionName = "schools"

// FirestoreSchoolRepo implements SchoolRepository on a Firestore collection.
// The document id is the school id.
type FirestoreSchoolRepo struct {
	client *firestore.Client
}

// NewFirestoreSchoolRepo creates a new instance of SchoolRepository using Firestore.
func NewFirestoreSchoolRepo(client *firestore.Client) SchoolRepository {
	return &FirestoreSchoolRepo{client: client}
}

func (r *FirestoreSchoolRepo) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(collectionName).Doc(id)
}

func decodeSchool(snap *firestore.DocumentSnapshot) (*models.School, error) {
	var school models.School
	if err := snap.DataTo(&school); err != nil {
		return nil, fmt.Errorf("failed to decode school %s: %w", snap.Ref.ID, err)
	}
	school.ID = snap.Ref.ID
	school.Schedule = schedule.Classify(school.Schedule)
	return &school, nil
}

func (r *FirestoreSchoolRepo) GetByID(ctx context.Context, id string) (*models.School, error) {
	snap, err := r.doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch school %s: %w", id, err)
	}
	return decodeSchool(snap)
}

func (r *FirestoreSchoolRepo) List(ctx context.Context) ([]models.School, error) {
	snaps, err := r.client.Collection(collectionName).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	schools := make([]models.School, 0, len(snaps))
	for _, snap := range snaps {
		school, err := decodeSchool(snap)
		if err != nil {
			return nil, err
		}
		schools = append(schools, *school)
	}
	return schools, nil
}

func (r *FirestoreSchoolRepo) Create(ctx context.Context, school *models.School) error {
	now := time.Now().UTC()
	school.CreatedAt = now
	school.UpdatedAt = now

	_, err := r.doc(school.ID).Create(ctx, school)
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create school %s: %w", school.ID, err)
	}
	return nil
}

func (r *FirestoreSchoolRepo) Update(ctx context.Context, id string, mutate MutateFunc) (*models.School, error) {
	var updated *models.School
	ref := r.doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		school, err := decodeSchool(snap)
		if err != nil {
			return err
		}
		if err := mutate(school); err != nil {
			return err
		}
		school.ID = id
		school.UpdatedAt = time.Now().UTC()
		updated = school
		return tx.Set(ref, school)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update school %s: %w", id, err)
	}
	return updated, nil
}

func (r *FirestoreSchoolRepo) Delete(ctx context.Context, id string) error {
	// Delete on a missing document succeeds silently, so check first.
	if _, err := r.doc(id).Get(ctx); status.Code(err) == codes.NotFound {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("failed to fetch school %s: %w", id, err)
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete school %s: %w", id, err)
	}
	return nil
}
