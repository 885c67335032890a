package controllers

import (
	"context"
	"net/http"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/middleware"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// GET /public/dashboard
func (h *Controller) Dashboard() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		ctx := c.Request.Context()
		if p.IsAdmin() {
			h.adminDashboard(ctx, c)
			return
		}

		sd, err := h.scope(ctx, p)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		villages, err := h.stores.Villages.Count(ctx, bson.M{"subDistrict": *sd})
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		farmers, err := h.stores.Farmers.Count(ctx, bson.M{"user": p.ID})
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		utils.Respond(c, http.StatusOK, "Successfully fetched user-specific data", gin.H{
			"villages":     villages,
			"totalFarmers": farmers,
		})
	}
}

func (h *Controller) adminDashboard(ctx context.Context, c *gin.Context) {
	counts := []struct {
		key   string
		count func() (int64, error)
	}{
		{"totalUsers", func() (int64, error) { return h.stores.Accounts.Count(ctx, bson.M{"role": models.RoleUser}) }},
		{"districts", func() (int64, error) { return h.stores.Districts.Count(ctx, bson.M{}) }},
		{"subDistricts", func() (int64, error) { return h.stores.SubDistricts.Count(ctx, bson.M{}) }},
		{"villages", func() (int64, error) { return h.stores.Villages.Count(ctx, bson.M{}) }},
		{"totalFarmers", func() (int64, error) { return h.stores.Farmers.Count(ctx, bson.M{}) }},
	}

	data := gin.H{}
	for _, entry := range counts {
		n, err := entry.count()
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		data[entry.key] = n
	}
	utils.Respond(c, http.StatusOK, "Successfully fetched data", data)
}
