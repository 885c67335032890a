package dto

import (
	"github.com/atmacsn/agriadmin/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type FarmerGroupDTO struct {
	Village     bson.ObjectID `json:"village" bson:"village,omitempty" binding:"required"`
	SubDistrict bson.ObjectID `json:"subDistrict" bson:"subDistrict,omitempty" binding:"required"`

	GroupName        string `json:"groupName" bson:"groupName,omitempty" binding:"required"`
	Address          string `json:"address" bson:"address,omitempty" binding:"required"`
	PhoneNumber      string `json:"phoneNumber" bson:"phoneNumber,omitempty" binding:"required"`
	RegistrationNo   string `json:"registrationNo" bson:"registrationNo,omitempty"`
	RegistrationYear int    `json:"registrationYear" bson:"registrationYear,omitempty"`

	GroupMeetingDate                            string `json:"groupMeetingDate" bson:"groupMeetingDate,omitempty" binding:"required"`
	GroupNameResolutionPassed                   string `json:"groupNameResolutionPassed" bson:"groupNameResolutionPassed,omitempty" binding:"required"`
	GroupPurposeResolutionPassed                string `json:"groupPurposeResolutionPassed" bson:"groupPurposeResolutionPassed,omitempty" binding:"required"`
	GroupPresidentSecretaryResolutionPassed     string `json:"groupPresidentSecretaryResolutionPassed" bson:"groupPresidentSecretaryResolutionPassed,omitempty" binding:"required"`
	GroupBankAccountResolutionPassed            string `json:"groupBankAccountResolutionPassed" bson:"groupBankAccountResolutionPassed,omitempty" binding:"required"`
	GroupMonthlySubscriptionResolutionPassed    string `json:"groupMonthlySubscriptionResolutionPassed" bson:"groupMonthlySubscriptionResolutionPassed,omitempty" binding:"required"`
	GroupCertificateAgricultureAssistantPresent string `json:"groupCertificateAgricultureAssistantPresent" bson:"groupCertificateAgricultureAssistantPresent,omitempty" binding:"required"`
	GroupNameAgricultureAssistantPresent        string `json:"groupNameAgricultureAssistantPresent" bson:"groupNameAgricultureAssistantPresent,omitempty" binding:"required"`

	RecommendationLetterNumber                 int    `json:"recommendationLetterNumber" bson:"recommendationLetterNumber,omitempty" binding:"required"`
	RecommendationLetterDate                   string `json:"recommendationLetterDate" bson:"recommendationLetterDate,omitempty" binding:"required"`
	RecommendationTalukaAgricultureOfficerName string `json:"recommendationTalukaAgricultureOfficerName" bson:"recommendationTalukaAgricultureOfficerName,omitempty" binding:"required"`

	RegistrationFeesPaidDetails      string  `json:"registrationFeesPaidDetails" bson:"registrationFeesPaidDetails,omitempty" binding:"required"`
	RegistrationFeesPaidDetailsOther string  `json:"registrationFeesPaidDetailsOther" bson:"registrationFeesPaidDetailsOther,omitempty"`
	RegistrationFeesPaidRupees       float64 `json:"registrationFeesPaidRupees" bson:"registrationFeesPaidRupees,omitempty" binding:"required,gt=0"`
	RegistrationFeesPaidDate         string  `json:"registrationFeesPaidDate" bson:"registrationFeesPaidDate,omitempty" binding:"required"`

	BankName  string `json:"bankName" bson:"bankName,omitempty" binding:"required"`
	Branch    string `json:"branch" bson:"branch,omitempty" binding:"required"`
	IFSC      string `json:"ifsc" bson:"ifsc,omitempty" binding:"required"`
	AccountNo string `json:"accountNo" bson:"accountNo,omitempty"`
	PanNo     string `json:"panNo" bson:"panNo,omitempty"`
	GstNo     string `json:"gstNo" bson:"gstNo,omitempty"`
	Email     string `json:"email" bson:"email,omitempty" binding:"required,email"`

	President  bson.ObjectID   `json:"president" bson:"president,omitempty" binding:"required"`
	Secretary  bson.ObjectID   `json:"secretary" bson:"secretary,omitempty" binding:"required"`
	MemberList []bson.ObjectID `json:"memberList" bson:"memberList,omitempty" binding:"required,min=1"`

	Remarks   string            `json:"remarks" bson:"remarks,omitempty"`
	Documents []models.Document `json:"documents" bson:"documents,omitempty" binding:"dive"`
}

func (d *FarmerGroupDTO) Group() (*models.FarmerGroup, error) {
	var g models.FarmerGroup
	if err := Decode(d, &g); err != nil {
		return nil, err
	}
	if g.Documents == nil {
		g.Documents = []models.Document{}
	}
	return &g, nil
}

// FarmerIDs lists every farmer the group references, president and
// secretary included, without repetition.
func (d *FarmerGroupDTO) FarmerIDs() []bson.ObjectID {
	seen := map[bson.ObjectID]bool{}
	var ids []bson.ObjectID
	for _, id := range append([]bson.ObjectID{d.President, d.Secretary}, d.MemberList...) {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
