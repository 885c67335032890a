package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/dto"
	"github.com/atmacsn/agriadmin/events"
	"github.com/atmacsn/agriadmin/middleware"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/pagination"
	"github.com/atmacsn/agriadmin/repository"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var farmerSearchFields = []string{"name", "mobileNo", "aadharNumber", "villageInfo.villageName"}

// POST /user/create-farmer
func (h *Controller) CreateFarmer() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		var body dto.FarmerDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		if err := h.checkPlacement(ctx, body.Village, body.SubDistrict); err != nil {
			utils.Fail(c, err)
			return
		}
		if err := h.ensureInScope(ctx, p, body.SubDistrict); err != nil {
			utils.Fail(c, err)
			return
		}
		if err := h.checkListRefs(ctx, body.ListReferences()); err != nil {
			utils.Fail(c, err)
			return
		}

		farmer, err := body.Farmer()
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		now := time.Now().UTC()
		stampDocuments(farmer.Documents, now)
		farmer.User = p.ID
		farmer.Status = models.StatusPending
		farmer.CreatedAt = now
		farmer.UpdatedAt = now

		id, err := h.stores.Farmers.Insert(ctx, farmer)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusConflict, "Account number already registered"))
			return
		}
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		farmer.ID = id

		h.publish(c, events.New(events.FarmerCreated, p.ID.Hex(), id.Hex(), map[string]any{
			"village":     farmer.Village.Hex(),
			"subDistrict": farmer.SubDistrict.Hex(),
		}))
		utils.Respond(c, http.StatusCreated, "Farmer registered successfully", farmer)
	}
}

// PUT /user/update-farmer?id=
func (h *Controller) UpdateFarmer() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		existing, err := h.stores.Farmers.FindByID(ctx, id)
		if err != nil {
			utils.Fail(c, storeError(err, "Farmer not found"))
			return
		}
		if err := h.ensureInScope(ctx, p, existing.SubDistrict); err != nil {
			utils.Fail(c, err)
			return
		}

		var body dto.FarmerDTO
		if err := utils.DecodePartial(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		if !body.Village.IsZero() || !body.SubDistrict.IsZero() {
			village, sub := existing.Village, existing.SubDistrict
			if !body.Village.IsZero() {
				village = body.Village
			}
			if !body.SubDistrict.IsZero() {
				sub = body.SubDistrict
			}
			if err := h.checkPlacement(ctx, village, sub); err != nil {
				utils.Fail(c, err)
				return
			}
			if err := h.ensureInScope(ctx, p, sub); err != nil {
				utils.Fail(c, err)
				return
			}
		}
		if err := h.checkListRefs(ctx, body.ListReferences()); err != nil {
			utils.Fail(c, err)
			return
		}

		now := time.Now().UTC()
		stampDocuments(body.Documents, now)
		set, err := dto.SetFields(&body)
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		set["updatedAt"] = now

		farmer, err := h.stores.Farmers.Update(ctx, id, set)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusConflict, "Account number already registered"))
			return
		}
		if err != nil {
			utils.Fail(c, storeError(err, "Farmer not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Farmer updated successfully", farmer)
	}
}

// GET /public/get-farmer
func (h *Controller) ListFarmers() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		scope, err := h.farmerFilter(c, p)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		h.listFarmers(c, scope, "All Farmers")
	}
}

// GET /public/get-farmer-available-for-group
//
// Lists farmers that are not a member of any group yet. With ?groupId= the
// members of that group count as available, for editing it.
func (h *Controller) AvailableFarmers() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		scope, err := h.farmerFilter(c, p)
		if err != nil {
			utils.Fail(c, err)
			return
		}

		groupFilter := bson.M{}
		if raw := c.Query("groupId"); raw != "" {
			groupID, err := bson.ObjectIDFromHex(raw)
			if err != nil {
				utils.Fail(c, apperror.BadRequest("invalid groupId"))
				return
			}
			groupFilter["_id"] = bson.M{"$ne": groupID}
		}
		taken, err := h.stores.Groups.DistinctIDs(ctx, "memberList", groupFilter)
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		if taken == nil {
			taken = []bson.ObjectID{}
		}
		scope["_id"] = bson.M{"$nin": taken}
		h.listFarmers(c, scope, "Available Farmers")
	}
}

// GET /public/farmer-detail?id=
func (h *Controller) FarmerDetail() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		farmer, err := h.stores.Farmers.View(ctx, id)
		if err != nil {
			utils.Fail(c, storeError(err, "Farmer not found"))
			return
		}
		if err := h.ensureInScope(ctx, p, farmer.SubDistrict); err != nil {
			utils.Fail(c, err)
			return
		}
		utils.Respond(c, http.StatusOK, "Farmer Details", farmer)
	}
}

// PATCH /admin/farmer-status?id=
func (h *Controller) FarmerStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		var body dto.StatusDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		set := bson.M{"status": body.Status, "updatedAt": time.Now().UTC()}
		if body.Remarks != "" {
			set["remarks"] = body.Remarks
		}
		farmer, err := h.stores.Farmers.Update(c.Request.Context(), id, set)
		if err != nil {
			utils.Fail(c, storeError(err, "Farmer not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Farmer status updated successfully", farmer)
	}
}

// farmerFilter combines the caller's scope with the optional status and
// village query filters.
func (h *Controller) farmerFilter(c *gin.Context, p auth.Principal) (bson.M, error) {
	scope, err := h.scopeFilter(c.Request.Context(), p)
	if err != nil {
		return nil, err
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ApprovalStatus(raw)
		if !status.Valid() {
			return nil, apperror.BadRequest("invalid status")
		}
		scope["status"] = status
	}
	if raw := c.Query("village"); raw != "" {
		village, err := bson.ObjectIDFromHex(raw)
		if err != nil {
			return nil, apperror.BadRequest("invalid village")
		}
		scope["village"] = village
	}
	return scope, nil
}

func (h *Controller) listFarmers(c *gin.Context, scope bson.M, message string) {
	q := h.page(c)
	farmers, total, err := h.stores.Farmers.List(c.Request.Context(), repository.ListQuery{
		Scope:        scope,
		Page:         q,
		SearchFields: farmerSearchFields,
	})
	if err != nil {
		utils.Fail(c, apperror.Internal(err))
		return
	}
	utils.Respond(c, http.StatusOK, message, pagination.NewPage(farmers, q, total))
}

// checkPlacement verifies that the village and the sub-district exist and
// that the village lies in the sub-district.
func (h *Controller) checkPlacement(ctx context.Context, villageID, subDistrictID bson.ObjectID) error {
	village, err := h.stores.Villages.FindByID(ctx, villageID)
	if err != nil {
		return storeError(err, "Village not found")
	}
	if _, err := h.stores.SubDistricts.FindByID(ctx, subDistrictID); err != nil {
		return storeError(err, "Sub-District not found")
	}
	if village.SubDistrict != subDistrictID {
		return apperror.BadRequest("Village does not belong to the selected Sub-District")
	}
	return nil
}

// checkListRefs verifies that every referenced list entry exists.
func (h *Controller) checkListRefs(ctx context.Context, refs map[models.ListKind][]bson.ObjectID) error {
	for _, kind := range models.ListKinds {
		ids := uniqueIDs(refs[kind])
		if len(ids) == 0 {
			continue
		}
		store, ok := h.stores.Lists[kind]
		if !ok {
			continue
		}
		n, err := store.Count(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return apperror.Internal(err)
		}
		if n != int64(len(ids)) {
			return apperror.BadRequest(fmt.Sprintf("Invalid %s reference", kind))
		}
	}
	return nil
}

func uniqueIDs(ids []bson.ObjectID) []bson.ObjectID {
	seen := make(map[bson.ObjectID]bool, len(ids))
	out := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func stampDocuments(docs []models.Document, now time.Time) {
	for i := range docs {
		if docs[i].UploadedAt.IsZero() {
			docs[i].UploadedAt = now
		}
	}
}
