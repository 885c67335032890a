package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusDeclined ApprovalStatus = "declined"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDeclined:
		return true
	}
	return false
}

type Document struct {
	Name       string    `bson:"name" json:"name" binding:"required"`
	FileURL    string    `bson:"fileUrl" json:"fileUrl" binding:"required,url"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

type AnimalCount struct {
	AnimalID bson.ObjectID `bson:"animal_id" json:"animal_id" binding:"required"`
	Count    int           `bson:"count" json:"count" binding:"gte=0"`
}

type Farmer struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Village     bson.ObjectID `bson:"village" json:"village"`
	SubDistrict bson.ObjectID `bson:"subDistrict" json:"subDistrict"`
	User        bson.ObjectID `bson:"user" json:"user"`

	Name                  string `bson:"name,omitempty" json:"name,omitempty"`
	Gender                string `bson:"gender,omitempty" json:"gender,omitempty"`
	Category              string `bson:"category,omitempty" json:"category,omitempty"` // General/SC/ST/OBC
	Divyang               string `bson:"divyang,omitempty" json:"divyang,omitempty"`
	AadharNumber          string `bson:"aadharNumber,omitempty" json:"aadharNumber,omitempty"`
	PanNumber             string `bson:"panNumber,omitempty" json:"panNumber,omitempty"`
	BirthYear             int    `bson:"birthYear,omitempty" json:"birthYear,omitempty"`
	AgristackFarmerNumber string `bson:"agristackFarmerNumber,omitempty" json:"agristackFarmerNumber,omitempty"`
	MobileNo              string `bson:"mobileNo,omitempty" json:"mobileNo,omitempty"`

	AccountNumber     string `bson:"accountNumber,omitempty" json:"accountNumber,omitempty"`
	AccountHolderName string `bson:"accountHolderName,omitempty" json:"accountHolderName,omitempty"`
	BankName          string `bson:"bankName,omitempty" json:"bankName,omitempty"`
	BranchName        string `bson:"branchName,omitempty" json:"branchName,omitempty"`
	BranchIFSC        string `bson:"branchIFSC,omitempty" json:"branchIFSC,omitempty"`

	Education             *bson.ObjectID `bson:"education,omitempty" json:"education,omitempty"`
	KhatedarNumber8A      string         `bson:"khatedarNumber8A,omitempty" json:"khatedarNumber8A,omitempty"`
	LandHolding8A         float64        `bson:"landHolding8A,omitempty" json:"landHolding8A,omitempty"`
	GroupNo712            float64        `bson:"groupNo7_12,omitempty" json:"groupNo7_12,omitempty"`
	RainFedArea           float64        `bson:"rainFedArea,omitempty" json:"rainFedArea,omitempty"`
	IrrigatedArea         float64        `bson:"irrigatedArea,omitempty" json:"irrigatedArea,omitempty"`
	IrrigationSource      *bson.ObjectID `bson:"irrigationSource,omitempty" json:"irrigationSource,omitempty"`
	IrrigationSourceOther string         `bson:"irrigationSourceOther,omitempty" json:"irrigationSourceOther,omitempty"`
	OrganicFarmingArea    float64        `bson:"organicFarmingArea,omitempty" json:"organicFarmingArea,omitempty"`

	Animals                  []AnimalCount   `bson:"animals" json:"animals"`
	AgriBusiness             []bson.ObjectID `bson:"agriBusiness" json:"agriBusiness"`
	AgriBusinessOther        string          `bson:"agriBusinessOther,omitempty" json:"agriBusinessOther,omitempty"`
	FarmMachinery            []bson.ObjectID `bson:"farmMachinery" json:"farmMachinery"`
	FarmMachineryOther       string          `bson:"farmMachineryOther,omitempty" json:"farmMachineryOther,omitempty"`
	HighTechAgriculture      []bson.ObjectID `bson:"highTechAgriculture" json:"highTechAgriculture"`
	HighTechAgricultureOther string          `bson:"highTechAgricultureOther,omitempty" json:"highTechAgricultureOther,omitempty"`
	MainCrops                []bson.ObjectID `bson:"mainCrops" json:"mainCrops"`
	MainCropsOther           string          `bson:"mainCropsOther,omitempty" json:"mainCropsOther,omitempty"`

	Latitude  float64        `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude float64        `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Remarks   string         `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Documents []Document     `bson:"documents" json:"documents"`
	Status    ApprovalStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type FarmerView struct {
	Farmer               `bson:",inline"`
	VillageInfo          *Village     `bson:"villageInfo,omitempty" json:"villageInfo,omitempty"`
	SubDistrictInfo      *SubDistrict `bson:"subDistrictInfo,omitempty" json:"subDistrictInfo,omitempty"`
	EducationInfo        *ListItem    `bson:"educationInfo,omitempty" json:"educationInfo,omitempty"`
	IrrigationSourceInfo *ListItem    `bson:"irrigationSourceInfo,omitempty" json:"irrigationSourceInfo,omitempty"`
}
