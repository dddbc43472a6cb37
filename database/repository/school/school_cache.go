package schoolRepo

import (
	"context"
	"errors"
	"time"

	"chronoboard/models"
	"chronoboard/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const snapshotKeyPrefix = "school:snapshot:"

// CachedSchoolRepo caches GetByID results in Redis. Writes go to the wrapped
// repository first and then drop the cached snapshot.
//
// Snapshots are BSON encoded because the JSON form omits the password hash.
type CachedSchoolRepo struct {
	next   SchoolRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedSchoolRepo(next SchoolRepository, client *redis.Client, ttl time.Duration) SchoolRepository {
	return &CachedSchoolRepo{next: next, client: client, ttl: ttl}
}

func snapshotKey(id string) string {
	return snapshotKeyPrefix + id
}

func (r *CachedSchoolRepo) GetByID(ctx context.Context, id string) (*models.School, error) {
	logger := utils.GetLogger()

	data, err := r.client.Get(ctx, snapshotKey(id)).Bytes()
	switch {
	case err == nil:
		var school models.School
		if err := bson.Unmarshal(data, &school); err == nil {
			return &school, nil
		}
		logger.Warn("Dropping undecodable school snapshot", zap.String("schoolId", id))
	case !errors.Is(err, redis.Nil):
		// Cache trouble must not take the board down.
		logger.Warn("School cache read failed", zap.String("schoolId", id), zap.Error(err))
	}

	school, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, school)
	return school, nil
}

func (r *CachedSchoolRepo) store(ctx context.Context, school *models.School) {
	data, err := bson.Marshal(school)
	if err != nil {
		utils.GetLogger().Warn("Failed to encode school snapshot", zap.String("schoolId", school.ID), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, snapshotKey(school.ID), data, r.ttl).Err(); err != nil {
		utils.GetLogger().Warn("School cache write failed", zap.String("schoolId", school.ID), zap.Error(err))
	}
}

func (r *CachedSchoolRepo) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, snapshotKey(id)).Err(); err != nil {
		utils.GetLogger().Warn("School cache invalidation failed", zap.String("schoolId", id), zap.Error(err))
	}
}

func (r *CachedSchoolRepo) List(ctx context.Context) ([]models.School, error) {
	return r.next.List(ctx)
}

func (r *CachedSchoolRepo) Create(ctx context.Context, school *models.School) error {
	if err := r.next.Create(ctx, school); err != nil {
		return err
	}
	r.invalidate(ctx, school.ID)
	return nil
}

func (r *CachedSchoolRepo) Update(ctx context.Context, id string, mutate MutateFunc) (*models.School, error) {
	school, err := r.next.Update(ctx, id, mutate)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return school, nil
}

func (r *CachedSchoolRepo) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}
