package database

import (
	"context"
	"fmt"

	"github.com/atmacsn/agriadmin/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func indexPlan() []collectionIndexes {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	return []collectionIndexes{
		{repository.UsersCollection, []mongo.IndexModel{unique("email")}},
		{repository.RevokedCollection, []mongo.IndexModel{
			unique("token"),
			{
				Keys:    bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		}},
		{repository.DistrictsCollection, []mongo.IndexModel{unique("districtCode")}},
		{repository.SubDistrictsCollection, []mongo.IndexModel{
			unique("subDistrictCode"),
			{Keys: bson.D{{Key: "district", Value: 1}}},
		}},
		{repository.VillagesCollection, []mongo.IndexModel{
			unique("villageCode"),
			{Keys: bson.D{{Key: "subDistrict", Value: 1}}},
		}},
		{repository.FarmersCollection, []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "accountNumber", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"accountNumber": bson.M{"$type": "string"}}),
			},
			{Keys: bson.D{{Key: "subDistrict", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		}},
		{repository.GroupsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "subDistrict", Value: 1}}},
			{Keys: bson.D{{Key: "memberList", Value: 1}}},
		}},
	}
}

// EnsureIndexes creates the unique and TTL indexes the application relies on.
// Creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ci := range indexPlan() {
		names, err := db.Collection(ci.collection).Indexes().CreateMany(ctx, ci.models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", ci.collection, err)
		}
		logrus.WithField("collection", ci.collection).Debugf("indexes ready: %v", names)
	}
	return nil
}
