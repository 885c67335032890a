package repository

import (
	"context"
	"time"

	"github.com/atmacsn/agriadmin/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	UsersCollection        = "users"
	RevokedCollection      = "tokenblacklists"
	DistrictsCollection    = "districts"
	SubDistrictsCollection = "subdistricts"
	VillagesCollection     = "villages"
	FarmersCollection      = "farmers"
	GroupsCollection       = "farmergroups"
)

type (
	AccountStore     = Store[models.Account, models.AccountView]
	DistrictStore    = Store[models.District, models.District]
	SubDistrictStore = Store[models.SubDistrict, models.SubDistrictView]
	VillageStore     = Store[models.Village, models.VillageView]
	FarmerStore      = Store[models.Farmer, models.FarmerView]
	GroupStore       = Store[models.FarmerGroup, models.FarmerGroupView]
	ListStore        = Store[models.ListItem, models.ListItem]
	RevokedStore     = Store[models.RevokedToken, models.RevokedToken]
)

// Stores groups every store the HTTP layer needs.
type Stores struct {
	Accounts     AccountStore
	Revoked      RevokedStore
	Districts    DistrictStore
	SubDistricts SubDistrictStore
	Villages     VillageStore
	Farmers      FarmerStore
	Groups       GroupStore
	Lists        map[models.ListKind]ListStore
}

func NewMongoStores(db *mongo.Database) *Stores {
	lists := make(map[models.ListKind]ListStore, len(models.ListKinds))
	for _, kind := range models.ListKinds {
		lists[kind] = NewCollection[models.ListItem, models.ListItem](db, kind.Collection())
	}

	return &Stores{
		Accounts: NewCollection[models.Account, models.AccountView](db, UsersCollection,
			Lookup{From: SubDistrictsCollection, LocalField: "subDistrict", As: "subDistrictInfo"},
		),
		Revoked:   NewCollection[models.RevokedToken, models.RevokedToken](db, RevokedCollection),
		Districts: NewCollection[models.District, models.District](db, DistrictsCollection),
		SubDistricts: NewCollection[models.SubDistrict, models.SubDistrictView](db, SubDistrictsCollection,
			Lookup{From: DistrictsCollection, LocalField: "district", As: "districtInfo"},
		),
		Villages: NewCollection[models.Village, models.VillageView](db, VillagesCollection,
			Lookup{From: SubDistrictsCollection, LocalField: "subDistrict", As: "subDistrictInfo"},
		),
		Farmers: NewCollection[models.Farmer, models.FarmerView](db, FarmersCollection,
			Lookup{From: VillagesCollection, LocalField: "village", As: "villageInfo"},
			Lookup{From: SubDistrictsCollection, LocalField: "subDistrict", As: "subDistrictInfo"},
			Lookup{From: models.ListEducation.Collection(), LocalField: "education", As: "educationInfo"},
			Lookup{From: models.ListIrrigation.Collection(), LocalField: "irrigationSource", As: "irrigationSourceInfo"},
		),
		Groups: NewCollection[models.FarmerGroup, models.FarmerGroupView](db, GroupsCollection,
			Lookup{From: VillagesCollection, LocalField: "village", As: "villageInfo"},
			Lookup{From: SubDistrictsCollection, LocalField: "subDistrict", As: "subDistrictInfo"},
			Lookup{From: FarmersCollection, LocalField: "president", As: "presidentInfo"},
			Lookup{From: FarmersCollection, LocalField: "secretary", As: "secretaryInfo"},
			Lookup{From: FarmersCollection, LocalField: "memberList", As: "members", Many: true},
		),
		Lists: lists,
	}
}

// NewMemoryStores backs every store with memory for tests, enforcing the
// same unique keys as the MongoDB indexes. Views come back without their
// joins; those are covered by the integration tests against MongoDB.
func NewMemoryStores() *Stores {
	lists := make(map[models.ListKind]ListStore, len(models.ListKinds))
	for _, kind := range models.ListKinds {
		lists[kind] = NewMemory[models.ListItem, models.ListItem]()
	}
	return &Stores{
		Accounts:     NewMemory[models.Account, models.AccountView]("email"),
		Revoked:      NewMemory[models.RevokedToken, models.RevokedToken]("token"),
		Districts:    NewMemory[models.District, models.District]("districtCode"),
		SubDistricts: NewMemory[models.SubDistrict, models.SubDistrictView]("subDistrictCode"),
		Villages:     NewMemory[models.Village, models.VillageView]("villageCode"),
		Farmers:      NewMemory[models.Farmer, models.FarmerView]("accountNumber"),
		Groups:       NewMemory[models.FarmerGroup, models.FarmerGroupView](),
		Lists:        lists,
	}
}

// SeedAdmin creates the admin account for email unless one already exists.
// It reports whether a new account was inserted.
func SeedAdmin(ctx context.Context, db *mongo.Database, email, passwordHash string) (bool, error) {
	now := time.Now()
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":     email,
			"password":  passwordHash,
			"role":      models.RoleAdmin,
			"createdAt": now,
			"updatedAt": now,
		},
	}

	res, err := db.Collection(UsersCollection).UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, mapError(err)
	}
	return res.UpsertedCount > 0, nil
}
