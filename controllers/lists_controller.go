package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/dto"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/pagination"
	"github.com/atmacsn/agriadmin/repository"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// The reference lists share one set of handlers, parameterised by kind.

// POST /admin/list/create-{kind}
func (h *Controller) CreateListItem(kind models.ListKind) gin.HandlerFunc {
	store := h.stores.Lists[kind]
	return func(c *gin.Context) {
		var body dto.ListItemDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		item := &models.ListItem{Type: strings.TrimSpace(body.Type), Status: true}
		if body.Status != nil {
			item.Status = *body.Status
		}
		id, err := store.Insert(c.Request.Context(), item)
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		item.ID = id
		utils.Respond(c, http.StatusCreated, fmt.Sprintf("%s Created Successfull", kind.Title()), item)
	}
}

// GET /admin/list/get-{kind}
//
// ?status=true|false narrows the list to active or inactive entries.
func (h *Controller) ListListItems(kind models.ListKind) gin.HandlerFunc {
	store := h.stores.Lists[kind]
	return func(c *gin.Context) {
		scope := bson.M{}
		if raw := c.Query("status"); raw != "" {
			scope["status"] = utils.ParseBoolDefault(raw, true)
		}

		q := h.page(c)
		items, total, err := store.List(c.Request.Context(), repository.ListQuery{
			Scope:        scope,
			Page:         q,
			SearchFields: []string{"type"},
		})
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		utils.Respond(c, http.StatusOK, "All Data", pagination.NewPage(items, q, total))
	}
}

// GET /admin/list/get-{kind}-byid?id=
func (h *Controller) GetListItem(kind models.ListKind) gin.HandlerFunc {
	store := h.stores.Lists[kind]
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		item, err := store.FindByID(c.Request.Context(), id)
		if err != nil {
			utils.Fail(c, storeError(err, fmt.Sprintf("No %s Found", kind.Title())))
			return
		}
		utils.Respond(c, http.StatusOK, fmt.Sprintf("%s Details", kind.Title()), item)
	}
}

// PUT /admin/list/update-{kind}?id=
func (h *Controller) UpdateListItem(kind models.ListKind) gin.HandlerFunc {
	store := h.stores.Lists[kind]
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		var body dto.UpdateListItemDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		set := bson.M{}
		if body.Type != nil {
			set["type"] = strings.TrimSpace(*body.Type)
		}
		if body.Status != nil {
			set["status"] = *body.Status
		}
		item, err := store.Update(c.Request.Context(), id, set)
		if err != nil {
			utils.Fail(c, storeError(err, fmt.Sprintf("No %s Found", kind.Title())))
			return
		}
		utils.Respond(c, http.StatusOK, fmt.Sprintf("%s Updated Successfully", kind.Title()), item)
	}
}

// DELETE /admin/list/delete-{kind}?id=
func (h *Controller) DeleteListItem(kind models.ListKind) gin.HandlerFunc {
	store := h.stores.Lists[kind]
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if _, err := store.Delete(c.Request.Context(), id); err != nil {
			utils.Fail(c, storeError(err, fmt.Sprintf("No %s Found", kind.Title())))
			return
		}
		utils.Respond(c, http.StatusOK, "Delete Successfull", nil)
	}
}
