package repository

import (
	"context"
	"testing"

	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMemoryInsertAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewMemory[models.District, models.District]("districtCode")

	id, err := store.Insert(ctx, &models.District{DistrictCode: "D1", DistrictName: "Pune"})
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	got, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Pune", got.DistrictName)
	assert.Equal(t, id, got.ID)

	_, err = store.Insert(ctx, &models.District{DistrictCode: "D1", DistrictName: "Other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.FindOne(ctx, bson.M{"districtCode": "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory[models.District, models.District]("districtCode")

	a, _ := store.Insert(ctx, &models.District{DistrictCode: "A", DistrictName: "Alpha"})
	_, _ = store.Insert(ctx, &models.District{DistrictCode: "B", DistrictName: "Beta"})

	updated, err := store.Update(ctx, a, bson.M{"districtName": "Alpha 2"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha 2", updated.DistrictName)
	assert.Equal(t, "A", updated.DistrictCode)

	_, err = store.Update(ctx, a, bson.M{"districtCode": "B"})
	assert.ErrorIs(t, err, ErrDuplicate)

	deleted, err := store.Delete(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "Alpha 2", deleted.DistrictName)

	_, err = store.Delete(ctx, a)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListPagesAndSearches(t *testing.T) {
	ctx := context.Background()
	store := NewMemory[models.Village, models.VillageView]()
	scope := bson.NewObjectID()
	other := bson.NewObjectID()

	for i := 0; i < 12; i++ {
		_, err := store.Insert(ctx, &models.Village{VillageCode: string(rune('a' + i)), VillageName: "Village", SubDistrict: scope})
		require.NoError(t, err)
	}
	_, _ = store.Insert(ctx, &models.Village{VillageCode: "z", VillageName: "Elsewhere", SubDistrict: other})

	items, total, err := store.List(ctx, ListQuery{
		Scope: bson.M{"subDistrict": scope},
		Page:  pagination.Query{Page: 2, Limit: 5},
	})
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, int64(12), total)

	items, total, err = store.List(ctx, ListQuery{
		Page:         pagination.Query{Page: 1, Limit: 10, Search: "ELSE"},
		SearchFields: []string{"villageName"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, other, items[0].SubDistrict)
}

func TestMemoryFilterOperators(t *testing.T) {
	ctx := context.Background()
	groups := NewMemory[models.FarmerGroup, models.FarmerGroupView]()
	farmers := NewMemory[models.Farmer, models.FarmerView]("accountNumber")

	f1, _ := farmers.Insert(ctx, &models.Farmer{Name: "one"})
	f2, _ := farmers.Insert(ctx, &models.Farmer{Name: "two"})
	f3, _ := farmers.Insert(ctx, &models.Farmer{Name: "three"})
	_, err := groups.Insert(ctx, &models.FarmerGroup{GroupName: "g", MemberList: []bson.ObjectID{f1, f2}})
	require.NoError(t, err)

	members, err := groups.DistinctIDs(ctx, "memberList", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []bson.ObjectID{f1, f2}, members)

	n, err := farmers.Count(ctx, bson.M{"_id": bson.M{"$nin": members}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, _ = farmers.Count(ctx, bson.M{"_id": bson.M{"$in": []bson.ObjectID{f1, f3}}})
	assert.Equal(t, int64(2), n)

	n, _ = groups.Count(ctx, bson.M{"memberList": f2})
	assert.Equal(t, int64(1), n)

	n, _ = farmers.Count(ctx, bson.M{"_id": bson.M{"$ne": f1}})
	assert.Equal(t, int64(2), n)
}

func TestMemoryUniqueSkipsEmptyValues(t *testing.T) {
	ctx := context.Background()
	farmers := NewMemory[models.Farmer, models.FarmerView]("accountNumber")

	_, err := farmers.Insert(ctx, &models.Farmer{Name: "a"})
	require.NoError(t, err)
	_, err = farmers.Insert(ctx, &models.Farmer{Name: "b"})
	require.NoError(t, err)

	_, err = farmers.Insert(ctx, &models.Farmer{Name: "c", AccountNumber: "123"})
	require.NoError(t, err)
	_, err = farmers.Insert(ctx, &models.Farmer{Name: "d", AccountNumber: "123"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryViewDecodesStoredDocument(t *testing.T) {
	ctx := context.Background()
	store := NewMemory[models.Account, models.AccountView]("email")
	sd := bson.NewObjectID()

	id, err := store.Insert(ctx, &models.Account{Email: "u@x.com", Role: models.RoleUser, SubDistrict: &sd})
	require.NoError(t, err)

	view, err := store.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u@x.com", view.Email)
	require.NotNil(t, view.SubDistrict)
	assert.Equal(t, sd, *view.SubDistrict)
	assert.Nil(t, view.SubDistrictInfo)
}
