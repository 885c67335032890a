package models

import "go.mongodb.org/mongo-driver/v2/bson"

type District struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	DistrictCode string        `bson:"districtCode" json:"districtCode"`
	DistrictName string        `bson:"districtName" json:"districtName"`
}

type SubDistrict struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	SubDistrictCode string        `bson:"subDistrictCode" json:"subDistrictCode"`
	SubDistrictName string        `bson:"subDistrictName" json:"subDistrictName"`
	District        bson.ObjectID `bson:"district" json:"district"`
}

type SubDistrictView struct {
	SubDistrict  `bson:",inline"`
	DistrictInfo *District `bson:"districtInfo,omitempty" json:"districtInfo,omitempty"`
}

type Village struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	VillageCode string        `bson:"villageCode" json:"villageCode"`
	VillageName string        `bson:"villageName" json:"villageName"`
	SubDistrict bson.ObjectID `bson:"subDistrict" json:"subDistrict"`
}

type VillageView struct {
	Village         `bson:",inline"`
	SubDistrictInfo *SubDistrict `bson:"subDistrictInfo,omitempty" json:"subDistrictInfo,omitempty"`
}
