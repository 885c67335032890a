//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/atmacsn/agriadmin/database"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/pagination"
	"github.com/atmacsn/agriadmin/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// setupMongo starts a mongo:7 container and returns a fresh database on it.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := database.Connect(ctx, "mongodb://"+host+":"+port.Port())
	require.NoError(t, err)
	t.Cleanup(func() { database.Disconnect(client) })

	db := client.Database("agriadmin_test")
	require.NoError(t, database.EnsureIndexes(ctx, db))
	return db
}

func TestMongoStores(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	stores := repository.NewMongoStores(db)

	t.Run("unique email maps to ErrDuplicate", func(t *testing.T) {
		_, err := stores.Accounts.Insert(ctx, &models.Account{Email: "a@x.com", Role: models.RoleAdmin})
		require.NoError(t, err)
		_, err = stores.Accounts.Insert(ctx, &models.Account{Email: "a@x.com", Role: models.RoleAdmin})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("ledger revoke twice", func(t *testing.T) {
		ledger := repository.NewTokenLedger(stores.Revoked)
		exp := time.Now().Add(time.Hour)
		require.NoError(t, ledger.Revoke(ctx, "tok", exp))
		require.NoError(t, ledger.Revoke(ctx, "tok", exp))
		revoked, err := ledger.IsRevoked(ctx, "tok")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("list joins and pages", func(t *testing.T) {
		districtID, err := stores.Districts.Insert(ctx, &models.District{DistrictCode: "D1", DistrictName: "Pune"})
		require.NoError(t, err)
		for i := 0; i < 12; i++ {
			_, err := stores.SubDistricts.Insert(ctx, &models.SubDistrict{
				SubDistrictCode: "SD" + string(rune('A'+i)),
				SubDistrictName: "Taluka",
				District:        districtID,
			})
			require.NoError(t, err)
		}

		items, total, err := stores.SubDistricts.List(ctx, repository.ListQuery{
			Page:         pagination.Query{Page: 2, Limit: 5, Search: "pune"},
			SearchFields: []string{"subDistrictName", "districtInfo.districtName"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(12), total)
		require.Len(t, items, 5)
		require.NotNil(t, items[0].DistrictInfo)
		assert.Equal(t, "Pune", items[0].DistrictInfo.DistrictName)
	})

	t.Run("farmer, group and account views join their references", func(t *testing.T) {
		districtID, err := stores.Districts.Insert(ctx, &models.District{DistrictCode: "JD", DistrictName: "Nashik"})
		require.NoError(t, err)
		subID, err := stores.SubDistricts.Insert(ctx, &models.SubDistrict{
			SubDistrictCode: "JSD", SubDistrictName: "Niphad", District: districtID,
		})
		require.NoError(t, err)
		villageID, err := stores.Villages.Insert(ctx, &models.Village{
			VillageCode: "JV", VillageName: "Lasalgaon", SubDistrict: subID,
		})
		require.NoError(t, err)
		eduID, err := stores.Lists[models.ListEducation].Insert(ctx, &models.ListItem{Type: "Graduate", Status: true})
		require.NoError(t, err)

		var farmers []bson.ObjectID
		for _, name := range []string{"Ramesh", "Suresh", "Mahesh"} {
			id, err := stores.Farmers.Insert(ctx, &models.Farmer{
				Village:     villageID,
				SubDistrict: subID,
				User:        bson.NewObjectID(),
				Name:        name,
				Education:   &eduID,
				Status:      models.StatusPending,
			})
			require.NoError(t, err)
			farmers = append(farmers, id)
		}

		farmer, err := stores.Farmers.View(ctx, farmers[0])
		require.NoError(t, err)
		assert.Equal(t, "Ramesh", farmer.Name)
		require.NotNil(t, farmer.VillageInfo)
		assert.Equal(t, "Lasalgaon", farmer.VillageInfo.VillageName)
		require.NotNil(t, farmer.SubDistrictInfo)
		assert.Equal(t, "Niphad", farmer.SubDistrictInfo.SubDistrictName)
		require.NotNil(t, farmer.EducationInfo)
		assert.Equal(t, "Graduate", farmer.EducationInfo.Type)
		assert.Nil(t, farmer.IrrigationSourceInfo)

		listed, total, err := stores.Farmers.List(ctx, repository.ListQuery{
			Scope:        bson.M{"subDistrict": subID},
			Page:         pagination.Query{Page: 1, Limit: 10, Search: "lasal"},
			SearchFields: []string{"name", "villageInfo.villageName"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, listed, 3)
		for _, f := range listed {
			require.NotNil(t, f.VillageInfo)
			assert.Equal(t, villageID, f.VillageInfo.ID)
		}

		groupID, err := stores.Groups.Insert(ctx, &models.FarmerGroup{
			Village:     villageID,
			SubDistrict: subID,
			GroupName:   "Sahyadri",
			President:   farmers[0],
			Secretary:   farmers[1],
			MemberList:  farmers,
			Status:      models.StatusPending,
		})
		require.NoError(t, err)

		group, err := stores.Groups.View(ctx, groupID)
		require.NoError(t, err)
		require.NotNil(t, group.VillageInfo)
		assert.Equal(t, "Lasalgaon", group.VillageInfo.VillageName)
		require.NotNil(t, group.SubDistrictInfo)
		assert.Equal(t, subID, group.SubDistrictInfo.ID)
		require.NotNil(t, group.PresidentInfo)
		assert.Equal(t, "Ramesh", group.PresidentInfo.Name)
		require.NotNil(t, group.SecretaryInfo)
		assert.Equal(t, "Suresh", group.SecretaryInfo.Name)
		require.Len(t, group.Members, 3)
		names := make([]string, 0, len(group.Members))
		for _, m := range group.Members {
			names = append(names, m.Name)
		}
		assert.ElementsMatch(t, []string{"Ramesh", "Suresh", "Mahesh"}, names)

		groups, _, err := stores.Groups.List(ctx, repository.ListQuery{
			Scope: bson.M{"_id": groupID},
			Page:  pagination.Query{Page: 1, Limit: 10},
		})
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Len(t, groups[0].Members, 3)
		require.NotNil(t, groups[0].PresidentInfo)

		accountID, err := stores.Accounts.Insert(ctx, &models.Account{
			Email: "scoped@x.com", Role: models.RoleUser, SubDistrict: &subID,
		})
		require.NoError(t, err)
		account, err := stores.Accounts.View(ctx, accountID)
		require.NoError(t, err)
		require.NotNil(t, account.SubDistrictInfo)
		assert.Equal(t, "Niphad", account.SubDistrictInfo.SubDistrictName)
	})

	t.Run("ledger claim once", func(t *testing.T) {
		ledger := repository.NewTokenLedger(stores.Revoked)
		exp := time.Now().Add(time.Hour)
		ok, err := ledger.Claim(ctx, "claimed", exp)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = ledger.Claim(ctx, "claimed", exp)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("update and delete", func(t *testing.T) {
		id, err := stores.Districts.Insert(ctx, &models.District{DistrictCode: "D9", DistrictName: "Old"})
		require.NoError(t, err)

		updated, err := stores.Districts.Update(ctx, id, bson.M{"districtName": "New"})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.DistrictName)

		_, err = stores.Districts.Delete(ctx, id)
		require.NoError(t, err)
		_, err = stores.Districts.FindByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("seed admin once", func(t *testing.T) {
		created, err := repository.SeedAdmin(ctx, db, "root@x.com", "hash")
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repository.SeedAdmin(ctx, db, "root@x.com", "hash")
		require.NoError(t, err)
		assert.False(t, created)
	})
}
