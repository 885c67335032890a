package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ListKind names one of the reference lists offered to farmer registration
// forms. Each kind lives in its own collection.
type ListKind string

const (
	ListEducation    ListKind = "education"
	ListIrrigation   ListKind = "irrigation"
	ListAnimal       ListKind = "animal"
	ListAgribusiness ListKind = "agribusiness"
	ListMachine      ListKind = "machine"
	ListAgriculture  ListKind = "agriculture"
	ListCrops        ListKind = "crops"
)

var ListKinds = []ListKind{
	ListEducation,
	ListIrrigation,
	ListAnimal,
	ListAgribusiness,
	ListMachine,
	ListAgriculture,
	ListCrops,
}

// Collection returns the collection backing the list kind.
func (k ListKind) Collection() string {
	switch k {
	case ListAgribusiness:
		return "agribusinesses"
	case ListCrops:
		return "crops"
	default:
		return string(k) + "s"
	}
}

// Title is the kind as shown in response messages.
func (k ListKind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

type ListItem struct {
	ID     bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Type   string        `bson:"type" json:"type"`
	Status bool          `bson:"status" json:"status"`
}
