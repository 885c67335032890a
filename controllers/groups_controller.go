package controllers

import (
	"context"
	"errors"
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

const groupNotFound = "Farmer group not found."

// POST /public/create-group
func (h *Controller) CreateGroup() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		var body dto.FarmerGroupDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		if err := h.ensureInScope(ctx, p, body.SubDistrict); err != nil {
			utils.Fail(c, err)
			return
		}
		if err := h.checkGroupRefs(ctx, &body, bson.NilObjectID); err != nil {
			utils.Fail(c, err)
			return
		}

		group, err := body.Group()
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		now := time.Now().UTC()
		stampDocuments(group.Documents, now)
		group.CreatedBy = p.ID
		group.Status = models.StatusPending
		group.CreatedAt = now
		group.UpdatedAt = now

		id, err := h.stores.Groups.Insert(ctx, group)
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		group.ID = id
		utils.Respond(c, http.StatusCreated, "Farmer group created successfully.", group)
	}
}

// GET /public/get-groupbyid?id=
func (h *Controller) GetGroup() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		group, err := h.stores.Groups.View(ctx, id)
		if err != nil {
			utils.Fail(c, storeError(err, groupNotFound))
			return
		}
		if err := h.ensureInScope(ctx, p, group.SubDistrict); err != nil {
			utils.Fail(c, err)
			return
		}
		utils.Respond(c, http.StatusOK, "Farmer group fetched successfully.", group)
	}
}

// GET /public/get-group
func (h *Controller) ListGroups() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		scope, err := h.scopeFilter(c.Request.Context(), p)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if raw := c.Query("status"); raw != "" {
			status := models.ApprovalStatus(raw)
			if !status.Valid() {
				utils.Fail(c, apperror.BadRequest("invalid status"))
				return
			}
			scope["status"] = status
		}

		q := h.page(c)
		groups, total, err := h.stores.Groups.List(c.Request.Context(), repository.ListQuery{
			Scope:        scope,
			Page:         q,
			SearchFields: []string{"groupName", "registrationNo", "villageInfo.villageName"},
		})
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		utils.Respond(c, http.StatusOK, "All Farmer Groups", pagination.NewPage(groups, q, total))
	}
}

// PUT /public/update-group?id=
func (h *Controller) UpdateGroup() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		existing, ok := h.scopedGroup(c, p)
		if !ok {
			return
		}

		var body dto.FarmerGroupDTO
		if err := utils.DecodePartial(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		// Unchanged references are checked against the stored group.
		merged := body
		if merged.Village.IsZero() {
			merged.Village = existing.Village
		}
		if merged.SubDistrict.IsZero() {
			merged.SubDistrict = existing.SubDistrict
		}
		if merged.President.IsZero() {
			merged.President = existing.President
		}
		if merged.Secretary.IsZero() {
			merged.Secretary = existing.Secretary
		}
		if merged.MemberList == nil {
			merged.MemberList = existing.MemberList
		}
		if err := h.ensureInScope(ctx, p, merged.SubDistrict); err != nil {
			utils.Fail(c, err)
			return
		}
		if err := h.checkGroupRefs(ctx, &merged, existing.ID); err != nil {
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

		group, err := h.stores.Groups.Update(ctx, existing.ID, set)
		if err != nil {
			utils.Fail(c, storeError(err, groupNotFound))
			return
		}
		utils.Respond(c, http.StatusOK, "Farmer group updated successfully.", group)
	}
}

// DELETE /public/delete-group?id=
func (h *Controller) DeleteGroup() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		existing, ok := h.scopedGroup(c, p)
		if !ok {
			return
		}
		if _, err := h.stores.Groups.Delete(c.Request.Context(), existing.ID); err != nil {
			utils.Fail(c, storeError(err, groupNotFound))
			return
		}
		utils.Respond(c, http.StatusOK, "Farmer group deleted successfully.", nil)
	}
}

// PATCH /public/change-groupt-status?id=
func (h *Controller) ChangeGroupStatus() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		existing, ok := h.scopedGroup(c, p)
		if !ok {
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
		group, err := h.stores.Groups.Update(c.Request.Context(), existing.ID, set)
		if err != nil {
			utils.Fail(c, storeError(err, groupNotFound))
			return
		}

		h.publish(c, events.New(events.FarmerGroupStatusChanged, p.ID.Hex(), group.ID.Hex(), map[string]any{
			"from": existing.Status,
			"to":   group.Status,
		}))
		utils.Respond(c, http.StatusOK, "Farmer group status updated successfully.", group)
	}
}

// scopedGroup loads the group named by ?id= and checks that the caller may
// act on it. On failure the response is already written.
func (h *Controller) scopedGroup(c *gin.Context, p auth.Principal) (*models.FarmerGroup, bool) {
	ctx := c.Request.Context()
	id, err := utils.QueryID(c)
	if err != nil {
		utils.Fail(c, err)
		return nil, false
	}
	group, err := h.stores.Groups.FindByID(ctx, id)
	if err != nil {
		utils.Fail(c, storeError(err, groupNotFound))
		return nil, false
	}
	if err := h.ensureInScope(ctx, p, group.SubDistrict); err != nil {
		utils.Fail(c, err)
		return nil, false
	}
	return group, true
}

// checkGroupRefs verifies the places and farmers a group points at. Members
// may not belong to another group than self.
func (h *Controller) checkGroupRefs(ctx context.Context, body *dto.FarmerGroupDTO, self bson.ObjectID) error {
	invalidRefs := apperror.BadRequest("Invalid references (village, subDistrict, president, or secretary).")

	village, err := h.stores.Villages.FindByID(ctx, body.Village)
	if err != nil {
		return refError(err, invalidRefs)
	}
	if _, err := h.stores.SubDistricts.FindByID(ctx, body.SubDistrict); err != nil {
		return refError(err, invalidRefs)
	}
	if village.SubDistrict != body.SubDistrict {
		return apperror.BadRequest("Village does not belong to the selected Sub-District")
	}
	for _, id := range []bson.ObjectID{body.President, body.Secretary} {
		if _, err := h.stores.Farmers.FindByID(ctx, id); err != nil {
			return refError(err, invalidRefs)
		}
	}

	members := uniqueIDs(body.MemberList)
	n, err := h.stores.Farmers.Count(ctx, bson.M{"_id": bson.M{"$in": members}})
	if err != nil {
		return apperror.Internal(err)
	}
	if n != int64(len(members)) {
		return apperror.BadRequest("One or more member IDs are invalid.")
	}

	taken := bson.M{"memberList": bson.M{"$in": members}}
	if !self.IsZero() {
		taken["_id"] = bson.M{"$ne": self}
	}
	n, err = h.stores.Groups.Count(ctx, taken)
	if err != nil {
		return apperror.Internal(err)
	}
	if n > 0 {
		return apperror.BadRequest("One or more farmers already belong to another group.")
	}
	return nil
}

func refError(err error, notFound *apperror.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperror.Internal(err)
}
