package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type FarmerGroup struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Village     bson.ObjectID `bson:"village" json:"village"`
	SubDistrict bson.ObjectID `bson:"subDistrict" json:"subDistrict"`
	CreatedBy   bson.ObjectID `bson:"createdBy" json:"createdBy"`

	GroupName        string `bson:"groupName" json:"groupName"`
	Address          string `bson:"address" json:"address"`
	PhoneNumber      string `bson:"phoneNumber" json:"phoneNumber"`
	RegistrationNo   string `bson:"registrationNo,omitempty" json:"registrationNo,omitempty"`
	RegistrationYear int    `bson:"registrationYear,omitempty" json:"registrationYear,omitempty"`

	GroupMeetingDate                            string `bson:"groupMeetingDate" json:"groupMeetingDate"`
	GroupNameResolutionPassed                   string `bson:"groupNameResolutionPassed" json:"groupNameResolutionPassed"`
	GroupPurposeResolutionPassed                string `bson:"groupPurposeResolutionPassed" json:"groupPurposeResolutionPassed"`
	GroupPresidentSecretaryResolutionPassed     string `bson:"groupPresidentSecretaryResolutionPassed" json:"groupPresidentSecretaryResolutionPassed"`
	GroupBankAccountResolutionPassed            string `bson:"groupBankAccountResolutionPassed" json:"groupBankAccountResolutionPassed"`
	GroupMonthlySubscriptionResolutionPassed    string `bson:"groupMonthlySubscriptionResolutionPassed" json:"groupMonthlySubscriptionResolutionPassed"`
	GroupCertificateAgricultureAssistantPresent string `bson:"groupCertificateAgricultureAssistantPresent" json:"groupCertificateAgricultureAssistantPresent"`
	GroupNameAgricultureAssistantPresent        string `bson:"groupNameAgricultureAssistantPresent" json:"groupNameAgricultureAssistantPresent"`

	RecommendationLetterNumber                 int    `bson:"recommendationLetterNumber" json:"recommendationLetterNumber"`
	RecommendationLetterDate                   string `bson:"recommendationLetterDate" json:"recommendationLetterDate"`
	RecommendationTalukaAgricultureOfficerName string `bson:"recommendationTalukaAgricultureOfficerName" json:"recommendationTalukaAgricultureOfficerName"`

	RegistrationFeesPaidDetails      string  `bson:"registrationFeesPaidDetails" json:"registrationFeesPaidDetails"`
	RegistrationFeesPaidDetailsOther string  `bson:"registrationFeesPaidDetailsOther,omitempty" json:"registrationFeesPaidDetailsOther,omitempty"`
	RegistrationFeesPaidRupees       float64 `bson:"registrationFeesPaidRupees" json:"registrationFeesPaidRupees"`
	RegistrationFeesPaidDate         string  `bson:"registrationFeesPaidDate" json:"registrationFeesPaidDate"`

	BankName  string `bson:"bankName" json:"bankName"`
	Branch    string `bson:"branch" json:"branch"`
	IFSC      string `bson:"ifsc" json:"ifsc"`
	AccountNo string `bson:"accountNo,omitempty" json:"accountNo,omitempty"`
	PanNo     string `bson:"panNo,omitempty" json:"panNo,omitempty"`
	GstNo     string `bson:"gstNo,omitempty" json:"gstNo,omitempty"`
	Email     string `bson:"email" json:"email"`

	President  bson.ObjectID   `bson:"president" json:"president"`
	Secretary  bson.ObjectID   `bson:"secretary" json:"secretary"`
	MemberList []bson.ObjectID `bson:"memberList" json:"memberList"`

	Status    ApprovalStatus `bson:"status" json:"status"`
	Remarks   string         `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Documents []Document     `bson:"documents" json:"documents"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type FarmerGroupView struct {
	FarmerGroup     `bson:",inline"`
	VillageInfo     *Village     `bson:"villageInfo,omitempty" json:"villageInfo,omitempty"`
	SubDistrictInfo *SubDistrict `bson:"subDistrictInfo,omitempty" json:"subDistrictInfo,omitempty"`
	PresidentInfo   *Farmer      `bson:"presidentInfo,omitempty" json:"presidentInfo,omitempty"`
	SecretaryInfo   *Farmer      `bson:"secretaryInfo,omitempty" json:"secretaryInfo,omitempty"`
	Members         []Farmer     `bson:"members,omitempty" json:"members,omitempty"`
}
