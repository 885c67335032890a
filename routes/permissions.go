package routes

import (
	"net/http"

	"github.com/atmacsn/agriadmin/middleware"
	"github.com/atmacsn/agriadmin/models"
)

var (
	adminOnly = []models.Role{models.RoleAdmin}
	userOnly  = []models.Role{models.RoleUser}
	anyRole   = []models.Role{models.RoleAdmin, models.RoleUser}
)

// Rules is the permission table of every protected route. Routes missing
// from it are public.
func Rules() []middleware.Rule {
	rules := []middleware.Rule{
		{Method: http.MethodPost, Path: "/change-password", Roles: anyRole},
		{Method: http.MethodPost, Path: "/upload", Roles: anyRole},

		{Method: http.MethodPost, Path: "/admin/register-user", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/admin/getusers", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/admin/getuser", Roles: adminOnly},
		{Method: http.MethodPut, Path: "/admin/update-user", Roles: adminOnly},
		{Method: http.MethodDelete, Path: "/admin/delete-user", Roles: adminOnly},

		{Method: http.MethodPost, Path: "/admin/create-district", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/admin/districts", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/admin/district", Roles: adminOnly},
		{Method: http.MethodPut, Path: "/admin/district", Roles: adminOnly},
		{Method: http.MethodDelete, Path: "/admin/district", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/user/districts", Roles: userOnly},

		{Method: http.MethodPost, Path: "/admin/create-subdistrict", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/admin/subdistricts", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/admin/subdistrict", Roles: adminOnly},
		{Method: http.MethodPut, Path: "/admin/subdistrict", Roles: adminOnly},
		{Method: http.MethodDelete, Path: "/admin/subdistrict", Roles: adminOnly},

		{Method: http.MethodPost, Path: "/admin/create-village", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/admin/villages", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/admin/village", Roles: adminOnly},
		{Method: http.MethodPut, Path: "/admin/village", Roles: adminOnly},
		{Method: http.MethodDelete, Path: "/admin/village", Roles: adminOnly},
		{Method: http.MethodGet, Path: "/user/get-village", Roles: userOnly},

		{Method: http.MethodPost, Path: "/user/create-farmer", Roles: userOnly},
		{Method: http.MethodPut, Path: "/user/update-farmer", Roles: userOnly},
		{Method: http.MethodGet, Path: "/public/get-farmer", Roles: anyRole},
		{Method: http.MethodGet, Path: "/public/get-farmer-available-for-group", Roles: anyRole},
		{Method: http.MethodGet, Path: "/public/farmer-detail", Roles: anyRole},
		{Method: http.MethodPatch, Path: "/admin/farmer-status", Roles: adminOnly},

		{Method: http.MethodPost, Path: "/public/create-group", Roles: anyRole},
		{Method: http.MethodGet, Path: "/public/get-groupbyid", Roles: anyRole},
		{Method: http.MethodGet, Path: "/public/get-group", Roles: anyRole},
		{Method: http.MethodPut, Path: "/public/update-group", Roles: anyRole},
		{Method: http.MethodDelete, Path: "/public/delete-group", Roles: anyRole},
		{Method: http.MethodPatch, Path: "/public/change-groupt-status", Roles: anyRole},

		{Method: http.MethodGet, Path: "/public/dashboard", Roles: anyRole},
	}

	for _, kind := range models.ListKinds {
		base := "/admin/list/"
		k := string(kind)
		rules = append(rules,
			middleware.Rule{Method: http.MethodPost, Path: base + "create-" + k, Roles: adminOnly},
			middleware.Rule{Method: http.MethodGet, Path: base + "get-" + k, Roles: anyRole},
			middleware.Rule{Method: http.MethodGet, Path: base + "get-" + k + "-byid", Roles: adminOnly},
			middleware.Rule{Method: http.MethodPut, Path: base + "update-" + k, Roles: adminOnly},
			middleware.Rule{Method: http.MethodDelete, Path: base + "delete-" + k, Roles: adminOnly},
		)
	}
	return rules
}
