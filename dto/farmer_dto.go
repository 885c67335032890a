package dto

import (
	"github.com/atmacsn/agriadmin/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// FarmerDTO is the registration form of a farmer. Reference list entries
// are sent as ids; the same body with fewer fields updates a farmer.
type FarmerDTO struct {
	Village     bson.ObjectID `json:"village" bson:"village,omitempty" binding:"required"`
	SubDistrict bson.ObjectID `json:"subDistrict" bson:"subDistrict,omitempty" binding:"required"`

	Name                  string `json:"name" bson:"name,omitempty"`
	Gender                string `json:"gender" bson:"gender,omitempty"`
	Category              string `json:"category" bson:"category,omitempty"`
	Divyang               string `json:"divyang" bson:"divyang,omitempty"`
	AadharNumber          string `json:"aadharNumber" bson:"aadharNumber,omitempty" binding:"omitempty,numeric,len=12"`
	PanNumber             string `json:"panNumber" bson:"panNumber,omitempty"`
	BirthYear             int    `json:"birthYear" bson:"birthYear,omitempty" binding:"omitempty,gte=1900"`
	AgristackFarmerNumber string `json:"agristackFarmerNumber" bson:"agristackFarmerNumber,omitempty"`
	MobileNo              string `json:"mobileNo" bson:"mobileNo,omitempty"`

	AccountNumber     string `json:"accountNumber" bson:"accountNumber,omitempty"`
	AccountHolderName string `json:"accountHolderName" bson:"accountHolderName,omitempty"`
	BankName          string `json:"bankName" bson:"bankName,omitempty"`
	BranchName        string `json:"branchName" bson:"branchName,omitempty"`
	BranchIFSC        string `json:"branchIFSC" bson:"branchIFSC,omitempty"`

	Education             *bson.ObjectID `json:"education" bson:"education,omitempty"`
	KhatedarNumber8A      string         `json:"khatedarNumber8A" bson:"khatedarNumber8A,omitempty"`
	LandHolding8A         float64        `json:"landHolding8A" bson:"landHolding8A,omitempty" binding:"gte=0"`
	GroupNo712            float64        `json:"groupNo7_12" bson:"groupNo7_12,omitempty" binding:"gte=0"`
	RainFedArea           float64        `json:"rainFedArea" bson:"rainFedArea,omitempty" binding:"gte=0"`
	IrrigatedArea         float64        `json:"irrigatedArea" bson:"irrigatedArea,omitempty" binding:"gte=0"`
	IrrigationSource      *bson.ObjectID `json:"irrigationSource" bson:"irrigationSource,omitempty"`
	IrrigationSourceOther string         `json:"irrigationSourceOther" bson:"irrigationSourceOther,omitempty"`
	OrganicFarmingArea    float64        `json:"organicFarmingArea" bson:"organicFarmingArea,omitempty" binding:"gte=0"`

	Animals                  []models.AnimalCount `json:"animals" bson:"animals,omitempty" binding:"dive"`
	AgriBusiness             []bson.ObjectID      `json:"agriBusiness" bson:"agriBusiness,omitempty"`
	AgriBusinessOther        string               `json:"agriBusinessOther" bson:"agriBusinessOther,omitempty"`
	FarmMachinery            []bson.ObjectID      `json:"farmMachinery" bson:"farmMachinery,omitempty"`
	FarmMachineryOther       string               `json:"farmMachineryOther" bson:"farmMachineryOther,omitempty"`
	HighTechAgriculture      []bson.ObjectID      `json:"highTechAgriculture" bson:"highTechAgriculture,omitempty"`
	HighTechAgricultureOther string               `json:"highTechAgricultureOther" bson:"highTechAgricultureOther,omitempty"`
	MainCrops                []bson.ObjectID      `json:"mainCrops" bson:"mainCrops,omitempty"`
	MainCropsOther           string               `json:"mainCropsOther" bson:"mainCropsOther,omitempty"`

	Latitude  float64           `json:"latitude" bson:"latitude,omitempty" binding:"gte=-90,lte=90"`
	Longitude float64           `json:"longitude" bson:"longitude,omitempty" binding:"gte=-180,lte=180"`
	Remarks   string            `json:"remarks" bson:"remarks,omitempty"`
	Documents []models.Document `json:"documents" bson:"documents,omitempty" binding:"dive"`
}

// Farmer builds the stored farmer. Status, owner and timestamps are left to
// the caller.
func (d *FarmerDTO) Farmer() (*models.Farmer, error) {
	var f models.Farmer
	if err := Decode(d, &f); err != nil {
		return nil, err
	}
	if f.Animals == nil {
		f.Animals = []models.AnimalCount{}
	}
	if f.AgriBusiness == nil {
		f.AgriBusiness = []bson.ObjectID{}
	}
	if f.FarmMachinery == nil {
		f.FarmMachinery = []bson.ObjectID{}
	}
	if f.HighTechAgriculture == nil {
		f.HighTechAgriculture = []bson.ObjectID{}
	}
	if f.MainCrops == nil {
		f.MainCrops = []bson.ObjectID{}
	}
	if f.Documents == nil {
		f.Documents = []models.Document{}
	}
	return &f, nil
}

// ListReferences returns every reference-list id the form points at, keyed
// by the list it must exist in.
func (d *FarmerDTO) ListReferences() map[models.ListKind][]bson.ObjectID {
	refs := map[models.ListKind][]bson.ObjectID{}
	if d.Education != nil {
		refs[models.ListEducation] = append(refs[models.ListEducation], *d.Education)
	}
	if d.IrrigationSource != nil {
		refs[models.ListIrrigation] = append(refs[models.ListIrrigation], *d.IrrigationSource)
	}
	for _, a := range d.Animals {
		refs[models.ListAnimal] = append(refs[models.ListAnimal], a.AnimalID)
	}
	refs[models.ListAgribusiness] = append(refs[models.ListAgribusiness], d.AgriBusiness...)
	refs[models.ListMachine] = append(refs[models.ListMachine], d.FarmMachinery...)
	refs[models.ListAgriculture] = append(refs[models.ListAgriculture], d.HighTechAgriculture...)
	refs[models.ListCrops] = append(refs[models.ListCrops], d.MainCrops...)
	for kind, ids := range refs {
		if len(ids) == 0 {
			delete(refs, kind)
		}
	}
	return refs
}
