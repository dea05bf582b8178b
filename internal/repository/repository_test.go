package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"servicedirectory/internal/db"
	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/model"
	"servicedirectory/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func record(name, pincode string, category model.Category) *model.ServiceRecord {
	return &model.ServiceRecord{
		ServiceName: name,
		Pincode:     pincode,
		ServiceType: category,
		Address:     "Main St",
		OpenTime:    "05:00",
		CloseTime:   "22:00",
	}
}

func TestServiceRepository_CreateAssignsID(t *testing.T) {
	repo := repository.NewServiceRepository(newTestDB(t))
	ctx := context.Background()

	rec := record("Al Noor", "400001", "Religious")
	rec.Images = []string{"/api/images/ab/one.jpg"}
	rec.PrayerTimings = model.PrayerTimings{"fajr": {Azan: "05:10", Iqamah: "05:30"}}

	require.NoError(t, repo.Create(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, model.CategoryReligious, rec.ServiceType)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, rec.ID, all[0].ID)
	assert.Equal(t, []string{"/api/images/ab/one.jpg"}, []string(all[0].Images))
	assert.Equal(t, "05:30", all[0].PrayerTimings["fajr"].Iqamah)
}

func TestServiceRepository_CreateRejectsMissingFields(t *testing.T) {
	repo := repository.NewServiceRepository(newTestDB(t))
	ctx := context.Background()

	rec := record("", "400001", model.CategoryHotel)
	err := repo.Create(ctx, rec)

	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "serviceName")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestServiceRepository_FindByFilter(t *testing.T) {
	repo := repository.NewServiceRepository(newTestDB(t))
	ctx := context.Background()

	seed := []*model.ServiceRecord{
		record("Al Noor", "400001", model.CategoryReligious),
		record("Jama Masjid", "400001", model.CategoryReligious),
		record("Taj", "400001", model.CategoryHotel),
		record("Al Huda", "400002", model.CategoryReligious),
	}
	for _, r := range seed {
		require.NoError(t, repo.Create(ctx, r))
		time.Sleep(time.Millisecond)
	}

	found, err := repo.FindByFilter(ctx, "400001", model.CategoryReligious)
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, r := range found {
		assert.Equal(t, "400001", r.Pincode)
		assert.Equal(t, model.CategoryReligious, r.ServiceType)
	}
	assert.Equal(t, "Al Noor", found[0].ServiceName)
	assert.Equal(t, "Jama Masjid", found[1].ServiceName)

	none, err := repo.FindByFilter(ctx, "999999", model.CategoryHospital)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestServiceRepository_ListIsStable(t *testing.T) {
	repo := repository.NewServiceRepository(newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, record(name, "400001", model.CategoryHotel)))
	}

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &model.User{Name: "masjid1", MobileNumber: "9999999999", Email: "a@a.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byName, err := repo.FindByName(ctx, "masjid1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.FindByEmail(ctx, "a@a.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_DuplicateName(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Name: "masjid1", Email: "a@a.com", PasswordHash: "h1"}))

	err := repo.Create(ctx, &model.User{Name: "masjid1", Email: "other@a.com", PasswordHash: "h2"})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestUserRepository_DuplicateEmailAllowed(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Name: "first", Email: "a@a.com", PasswordHash: "h1"}))
	require.NoError(t, repo.Create(ctx, &model.User{Name: "second", Email: "a@a.com", PasswordHash: "h2"}))
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@a.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.FindByName(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_CreateRequiresNameAndPassword(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))

	err := repo.Create(context.Background(), &model.User{Email: "a@a.com"})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"name", "password"}, verr.Fields)
}
