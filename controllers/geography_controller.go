package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/dto"
	"github.com/atmacsn/agriadmin/middleware"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/pagination"
	"github.com/atmacsn/agriadmin/repository"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// POST /admin/create-district
func (h *Controller) CreateDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.DistrictDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		district := &models.District{
			DistrictCode: strings.TrimSpace(body.Code),
			DistrictName: strings.TrimSpace(body.Name),
		}
		id, err := h.stores.Districts.Insert(c.Request.Context(), district)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusBadRequest, "Same district Code Already Present"))
			return
		}
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		district.ID = id
		utils.Respond(c, http.StatusCreated, "District created", district)
	}
}

// GET /admin/districts, GET /user/districts
func (h *Controller) ListDistricts() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := h.page(c)
		districts, total, err := h.stores.Districts.List(c.Request.Context(), repository.ListQuery{
			Page:         q,
			SearchFields: []string{"districtName", "districtCode"},
		})
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		utils.Respond(c, http.StatusOK, "All Data", pagination.NewPage(districts, q, total))
	}
}

// GET /admin/district?id=
func (h *Controller) GetDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		district, err := h.stores.Districts.FindByID(c.Request.Context(), id)
		if err != nil {
			utils.Fail(c, storeError(err, "No District Found"))
			return
		}
		utils.Respond(c, http.StatusOK, "District Details", district)
	}
}

// PUT /admin/district?id=
func (h *Controller) UpdateDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		var body dto.UpdateDistrictDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		set := bson.M{}
		if body.Code != nil {
			set["districtCode"] = strings.TrimSpace(*body.Code)
		}
		if body.Name != nil {
			set["districtName"] = strings.TrimSpace(*body.Name)
		}

		district, err := h.stores.Districts.Update(c.Request.Context(), id, set)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusBadRequest, "Another district with the same code already exists"))
			return
		}
		if err != nil {
			utils.Fail(c, storeError(err, "No District Found"))
			return
		}
		utils.Respond(c, http.StatusOK, "District updated successfully", district)
	}
}

// DELETE /admin/district?id=
func (h *Controller) DeleteDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if _, err := h.stores.Districts.Delete(c.Request.Context(), id); err != nil {
			utils.Fail(c, storeError(err, "No District Found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Delete Successfull", nil)
	}
}

// POST /admin/create-subdistrict
func (h *Controller) CreateSubDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var body dto.SubDistrictDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		districtID, err := bson.ObjectIDFromHex(body.DistrictID)
		if err != nil {
			utils.Fail(c, apperror.BadRequest("invalid districtId"))
			return
		}
		if _, err := h.stores.Districts.FindByID(ctx, districtID); err != nil {
			utils.Fail(c, storeError(err, "Referenced District not found"))
			return
		}

		sub := &models.SubDistrict{
			SubDistrictCode: strings.TrimSpace(body.Code),
			SubDistrictName: strings.TrimSpace(body.Name),
			District:        districtID,
		}
		id, err := h.stores.SubDistricts.Insert(ctx, sub)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusBadRequest, "Sub-District Code already exists"))
			return
		}
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		sub.ID = id
		utils.Respond(c, http.StatusCreated, "Sub-District created", sub)
	}
}

// GET /admin/subdistricts
func (h *Controller) ListSubDistricts() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := h.page(c)
		scope := bson.M{}
		if raw := c.Query("district"); raw != "" {
			districtID, err := bson.ObjectIDFromHex(raw)
			if err != nil {
				utils.Fail(c, apperror.BadRequest("invalid district"))
				return
			}
			scope["district"] = districtID
		}

		subs, total, err := h.stores.SubDistricts.List(c.Request.Context(), repository.ListQuery{
			Scope:        scope,
			Page:         q,
			SearchFields: []string{"subDistrictName", "subDistrictCode", "districtInfo.districtName"},
		})
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		utils.Respond(c, http.StatusOK, "All Data", pagination.NewPage(subs, q, total))
	}
}

// GET /admin/subdistrict?id=
func (h *Controller) GetSubDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		sub, err := h.stores.SubDistricts.View(c.Request.Context(), id)
		if err != nil {
			utils.Fail(c, storeError(err, "Sub-District not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Sub-District fetched successfully", sub)
	}
}

// PUT /admin/subdistrict?id=
func (h *Controller) UpdateSubDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		var body dto.UpdateSubDistrictDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		set := bson.M{}
		if body.Code != nil {
			set["subDistrictCode"] = strings.TrimSpace(*body.Code)
		}
		if body.Name != nil {
			set["subDistrictName"] = strings.TrimSpace(*body.Name)
		}
		if body.DistrictID != nil {
			districtID, err := bson.ObjectIDFromHex(*body.DistrictID)
			if err != nil {
				utils.Fail(c, apperror.BadRequest("invalid districtId"))
				return
			}
			if _, err := h.stores.Districts.FindByID(ctx, districtID); err != nil {
				utils.Fail(c, storeError(err, "Referenced District not found"))
				return
			}
			set["district"] = districtID
		}

		sub, err := h.stores.SubDistricts.Update(ctx, id, set)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusBadRequest, "Sub-District Code already exists"))
			return
		}
		if err != nil {
			utils.Fail(c, storeError(err, "Sub-District not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Sub-District updated successfully", sub)
	}
}

// DELETE /admin/subdistrict?id=
func (h *Controller) DeleteSubDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if _, err := h.stores.SubDistricts.Delete(c.Request.Context(), id); err != nil {
			utils.Fail(c, storeError(err, "Sub-District not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Delete Successfull", nil)
	}
}

// POST /admin/create-village
func (h *Controller) CreateVillage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var body dto.VillageDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		subID, err := bson.ObjectIDFromHex(body.SubDistrictID)
		if err != nil {
			utils.Fail(c, apperror.BadRequest("invalid subDistrictId"))
			return
		}
		if _, err := h.stores.SubDistricts.FindByID(ctx, subID); err != nil {
			utils.Fail(c, storeError(err, "Referenced SubDistrict not found"))
			return
		}

		village := &models.Village{
			VillageCode: strings.TrimSpace(body.Code),
			VillageName: strings.TrimSpace(body.Name),
			SubDistrict: subID,
		}
		id, err := h.stores.Villages.Insert(ctx, village)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusBadRequest, "Same Village Code Already Present"))
			return
		}
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		village.ID = id
		utils.Respond(c, http.StatusCreated, "Village created", village)
	}
}

// GET /admin/villages
func (h *Controller) ListVillages() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := bson.M{}
		if raw := c.Query("subDistrict"); raw != "" {
			subID, err := bson.ObjectIDFromHex(raw)
			if err != nil {
				utils.Fail(c, apperror.BadRequest("invalid subDistrict"))
				return
			}
			scope["subDistrict"] = subID
		}
		h.listVillages(c, scope)
	}
}

// GET /user/get-village
func (h *Controller) UserVillages() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		scope, err := h.scopeFilter(c.Request.Context(), p)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		h.listVillages(c, scope)
	}
}

func (h *Controller) listVillages(c *gin.Context, scope bson.M) {
	q := h.page(c)
	villages, total, err := h.stores.Villages.List(c.Request.Context(), repository.ListQuery{
		Scope:        scope,
		Page:         q,
		SearchFields: []string{"villageName", "villageCode", "subDistrictInfo.subDistrictName"},
	})
	if err != nil {
		utils.Fail(c, apperror.Internal(err))
		return
	}
	utils.Respond(c, http.StatusOK, "All Village", pagination.NewPage(villages, q, total))
}

// GET /admin/village?id=
func (h *Controller) GetVillage() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		village, err := h.stores.Villages.View(c.Request.Context(), id)
		if err != nil {
			utils.Fail(c, storeError(err, "Village not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Village Details", village)
	}
}

// PUT /admin/village?id=
func (h *Controller) UpdateVillage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		var body dto.UpdateVillageDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		set := bson.M{}
		if body.Code != nil {
			set["villageCode"] = strings.TrimSpace(*body.Code)
		}
		if body.Name != nil {
			set["villageName"] = strings.TrimSpace(*body.Name)
		}
		if body.SubDistrictID != nil {
			subID, err := bson.ObjectIDFromHex(*body.SubDistrictID)
			if err != nil {
				utils.Fail(c, apperror.BadRequest("invalid subDistrictId"))
				return
			}
			if _, err := h.stores.SubDistricts.FindByID(ctx, subID); err != nil {
				utils.Fail(c, storeError(err, "Referenced SubDistrict not found"))
				return
			}
			set["subDistrict"] = subID
		}

		village, err := h.stores.Villages.Update(ctx, id, set)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusBadRequest, "Same Village Code Already Present"))
			return
		}
		if err != nil {
			utils.Fail(c, storeError(err, "Village not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Village updated successfully", village)
	}
}

// DELETE /admin/village?id=
func (h *Controller) DeleteVillage() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if _, err := h.stores.Villages.Delete(c.Request.Context(), id); err != nil {
			utils.Fail(c, storeError(err, "Village not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Delete Successfull", nil)
	}
}
