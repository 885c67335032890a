package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/atmacsn/agriadmin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDistrictCRUD(t *testing.T) {
	e := newEnv(t)
	_, admin := e.seedAccount("admin@x.com", "secret1", models.RoleAdmin, nil)

	w, env := e.do(request{method: http.MethodPost, path: "/admin/create-district", token: admin,
		body: map[string]string{"code": " MH-01 ", "name": "Pune"}})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	assert.Equal(t, "District created", env.Message)
	district := decodeData[models.District](t, env)
	assert.Equal(t, "MH-01", district.DistrictCode)
	assert.False(t, district.ID.IsZero())

	w, env = e.do(request{method: http.MethodPost, path: "/admin/create-district", token: admin,
		body: map[string]string{"code": "MH-01", "name": "Other"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Same district Code Already Present", env.Message)

	byID := "/admin/district?id=" + district.ID.Hex()
	w, env = e.do(request{method: http.MethodPut, path: byID, token: admin, body: map[string]string{"name": "Pune Rural"}})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	updated := decodeData[models.District](t, env)
	assert.Equal(t, "Pune Rural", updated.DistrictName)
	assert.Equal(t, "MH-01", updated.DistrictCode)

	w, env = e.do(request{method: http.MethodGet, path: byID, token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "District Details", env.Message)

	w, env = e.do(request{method: http.MethodDelete, path: byID, token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Delete Successfull", env.Message)

	w, env = e.do(request{method: http.MethodGet, path: byID, token: admin})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No District Found", env.Message)

	w, _ = e.do(request{method: http.MethodGet, path: "/admin/district?id=nope", token: admin})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDistrictValidation(t *testing.T) {
	e := newEnv(t)
	_, admin := e.seedAccount("admin@x.com", "secret1", models.RoleAdmin, nil)

	w, env := e.do(request{method: http.MethodPost, path: "/admin/create-district", token: admin,
		body: map[string]string{"name": "Pune"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"code"}, errorFields(t, env))
}

func TestListDistrictsPagination(t *testing.T) {
	e := newEnv(t)
	_, admin := e.seedAccount("admin@x.com", "secret1", models.RoleAdmin, nil)
	for i := 0; i < 12; i++ {
		_, err := e.stores.Districts.Insert(t.Context(), &models.District{
			DistrictCode: fmt.Sprintf("D-%02d", i),
			DistrictName: fmt.Sprintf("District %d", i),
		})
		require.NoError(t, err)
	}

	w, env := e.do(request{method: http.MethodGet, path: "/admin/districts?page=2&limit=5", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeData[listPage[models.District]](t, env)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PerPage)
	assert.Equal(t, 5, page.CurrentCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.EqualValues(t, 12, page.TotalItems)

	w, env = e.do(request{method: http.MethodGet, path: "/admin/districts?page=3&limit=5", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[listPage[models.District]](t, env).Data, 2)

	w, env = e.do(request{method: http.MethodGet, path: "/admin/districts?search=district%2011", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	page = decodeData[listPage[models.District]](t, env)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "D-11", page.Data[0].DistrictCode)
}

func TestUserCanListDistricts(t *testing.T) {
	e := newEnv(t)
	g := e.seedGeography("pune")
	_, user := e.seedAccount("u@x.com", "secret1", models.RoleUser, &g.subDistrict)

	w, env := e.do(request{method: http.MethodGet, path: "/user/districts", token: user})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[listPage[models.District]](t, env).Data, 1)

	w, _ = e.do(request{method: http.MethodGet, path: "/admin/districts", token: user})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubDistrictRequiresDistrict(t *testing.T) {
	e := newEnv(t)
	g := e.seedGeography("pune")
	_, admin := e.seedAccount("admin@x.com", "secret1", models.RoleAdmin, nil)

	w, env := e.do(request{method: http.MethodPost, path: "/admin/create-subdistrict", token: admin,
		body: map[string]string{"code": "SD-2", "name": "Haveli", "districtId": bson.NewObjectID().Hex()}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Referenced District not found", env.Message)

	w, env = e.do(request{method: http.MethodPost, path: "/admin/create-subdistrict", token: admin,
		body: map[string]string{"code": "SD-2", "name": "Haveli", "districtId": g.district.Hex()}})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	assert.Equal(t, "Sub-District created", env.Message)
	sub := decodeData[models.SubDistrict](t, env)
	assert.Equal(t, g.district, sub.District)

	w, env = e.do(request{method: http.MethodGet, path: "/admin/subdistricts?district=" + g.district.Hex(), token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeData[listPage[models.SubDistrictView]](t, env).TotalItems)

	w, env = e.do(request{method: http.MethodGet, path: "/admin/subdistricts?district=" + bson.NewObjectID().Hex(), token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeData[listPage[models.SubDistrictView]](t, env).TotalItems)
}

func TestVillageCRUD(t *testing.T) {
	e := newEnv(t)
	g := e.seedGeography("pune")
	_, admin := e.seedAccount("admin@x.com", "secret1", models.RoleAdmin, nil)

	w, env := e.do(request{method: http.MethodPost, path: "/admin/create-village", token: admin,
		body: map[string]string{"code": "V-2", "name": "Wagholi", "subDistrictId": g.subDistrict.Hex()}})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	assert.Equal(t, "Village created", env.Message)
	village := decodeData[models.Village](t, env)

	w, env = e.do(request{method: http.MethodPost, path: "/admin/create-village", token: admin,
		body: map[string]string{"code": "V-2", "name": "Again", "subDistrictId": g.subDistrict.Hex()}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Same Village Code Already Present", env.Message)

	w, env = e.do(request{method: http.MethodPut, path: "/admin/village?id=" + village.ID.Hex(), token: admin,
		body: map[string]string{"subDistrictId": bson.NewObjectID().Hex()}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Referenced SubDistrict not found", env.Message)

	w, env = e.do(request{method: http.MethodPut, path: "/admin/village?id=" + village.ID.Hex(), token: admin,
		body: map[string]string{"name": "Wagholi Bk"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wagholi Bk", decodeData[models.Village](t, env).VillageName)

	w, env = e.do(request{method: http.MethodGet, path: "/admin/villages?subDistrict=" + g.subDistrict.Hex(), token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All Village", env.Message)
	assert.EqualValues(t, 2, decodeData[listPage[models.VillageView]](t, env).TotalItems)

	w, _ = e.do(request{method: http.MethodDelete, path: "/admin/village?id=" + village.ID.Hex(), token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = e.do(request{method: http.MethodDelete, path: "/admin/village?id=" + village.ID.Hex(), token: admin})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Village not found", env.Message)
}

func TestUserVillagesAreScoped(t *testing.T) {
	e := newEnv(t)
	pune := e.seedGeography("pune")
	nashik := e.seedGeography("nashik")
	_, user := e.seedAccount("u@x.com", "secret1", models.RoleUser, &pune.subDistrict)

	w, env := e.do(request{method: http.MethodGet, path: "/user/get-village", token: user})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	page := decodeData[listPage[models.VillageView]](t, env)
	require.Len(t, page.Data, 1)
	assert.Equal(t, pune.village, page.Data[0].ID)
	assert.NotEqual(t, nashik.village, page.Data[0].ID)

	_, orphan := e.seedAccount("o@x.com", "secret1", models.RoleUser, nil)
	w, env = e.do(request{method: http.MethodGet, path: "/user/get-village", token: orphan})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User is not assigned to any subdistrict", env.Message)
}
