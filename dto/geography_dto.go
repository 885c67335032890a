package dto

type DistrictDTO struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type UpdateDistrictDTO struct {
	Code *string `json:"code" binding:"omitempty,min=1"`
	Name *string `json:"name" binding:"omitempty,min=1"`
}

type SubDistrictDTO struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	DistrictID string `json:"districtId" binding:"required,mongodb"`
}

type UpdateSubDistrictDTO struct {
	Code       *string `json:"code" binding:"omitempty,min=1"`
	Name       *string `json:"name" binding:"omitempty,min=1"`
	DistrictID *string `json:"districtId" binding:"omitempty,mongodb"`
}

type VillageDTO struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	SubDistrictID string `json:"subDistrictId" binding:"required,mongodb"`
}

type UpdateVillageDTO struct {
	Code          *string `json:"code" binding:"omitempty,min=1"`
	Name          *string `json:"name" binding:"omitempty,min=1"`
	SubDistrictID *string `json:"subDistrictId" binding:"omitempty,mongodb"`
}
