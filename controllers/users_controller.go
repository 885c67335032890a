package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

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

// GET /admin/getusers
func (h *Controller) GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := h.page(c)
		users, total, err := h.stores.Accounts.List(c.Request.Context(), repository.ListQuery{
			Scope:        bson.M{"role": models.RoleUser},
			Page:         q,
			SearchFields: []string{"email", "subDistrictInfo.subDistrictName"},
		})
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		utils.Respond(c, http.StatusOK, "All Users", pagination.NewPage(users, q, total))
	}
}

// GET /admin/getuser?id=
func (h *Controller) GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		user, err := h.stores.Accounts.View(c.Request.Context(), id)
		if err != nil {
			utils.Fail(c, storeError(err, "User not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "User fetched successfully", user)
	}
}

// PUT /admin/update-user?id=
func (h *Controller) UpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}

		var body dto.UpdateUserDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Email != nil {
			set["email"] = strings.ToLower(strings.TrimSpace(*body.Email))
		}
		if body.Password != nil {
			hash, err := auth.HashPassword(*body.Password)
			if err != nil {
				utils.Fail(c, apperror.Internal(err))
				return
			}
			set["password"] = hash
		}
		if body.SubDistrict != nil {
			sd, err := bson.ObjectIDFromHex(*body.SubDistrict)
			if err != nil {
				utils.Fail(c, apperror.BadRequest("invalid subDistrict"))
				return
			}
			if _, err := h.stores.SubDistricts.FindByID(ctx, sd); err != nil {
				utils.Fail(c, storeError(err, "Sub-District not found"))
				return
			}
			set["subDistrict"] = sd
		}

		account, err := h.stores.Accounts.Update(ctx, id, set)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusConflict, "Email already registered"))
			return
		}
		if err != nil {
			utils.Fail(c, storeError(err, "User not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "User updated successfully", account)
	}
}

// DELETE /admin/delete-user?id=
func (h *Controller) DeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.QueryID(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if _, err := h.stores.Accounts.Delete(c.Request.Context(), id); err != nil {
			utils.Fail(c, storeError(err, "No User Found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Delete Successfull", nil)
	}
}

// POST /change-password
func (h *Controller) ChangePassword() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		var body dto.ChangePasswordDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		account, err := h.stores.Accounts.FindByID(ctx, p.ID)
		if err != nil {
			utils.Fail(c, storeError(err, "User not found"))
			return
		}
		if err := auth.CheckPassword(account.PasswordHash, body.CurrentPassword); err != nil {
			utils.Fail(c, apperror.Unauthorized("Current password is incorrect"))
			return
		}

		hash, err := auth.HashPassword(body.NewPassword)
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		if _, err := h.stores.Accounts.Update(ctx, p.ID, bson.M{
			"password":  hash,
			"updatedAt": time.Now().UTC(),
		}); err != nil {
			utils.Fail(c, storeError(err, "User not found"))
			return
		}
		utils.Respond(c, http.StatusOK, "Password updated successfully", nil)
	}
}
