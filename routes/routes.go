// Package routes assembles the gin engine: global middleware, the access
// gate driven by the permission table, and every endpoint.
package routes

import (
	"fmt"
	"time"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/controllers"
	"github.com/atmacsn/agriadmin/logging"
	"github.com/atmacsn/agriadmin/metrics"
	"github.com/atmacsn/agriadmin/middleware"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/ratelimit"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Controller *controllers.Controller
	Tokens     *auth.TokenService
	Ledger     auth.Ledger
	Metrics    *metrics.Metrics
	// LoginLimiter throttles POST /login per client IP; nil disables it.
	LoginLimiter   ratelimit.Limiter
	Logger         logrus.FieldLogger
	AllowedOrigins []string
}

func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(logging.RequestLogger(logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithField("panic", recovered).Error("recovered from panic")
		utils.Fail(c, apperror.Internal(fmt.Errorf("%v", recovered)))
	}))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	gate := middleware.NewGate(opts.Tokens, opts.Ledger, middleware.NewPermissions(Rules()), opts.Metrics)
	r.Use(gate.Handler())

	register(r, opts, logger)
	return r
}

// corsConfig allows the configured origins, or reflects any origin when
// none are configured.
func corsConfig(origins []string) cors.Config {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return len(allowed) == 0 || allowed[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func register(r *gin.Engine, opts Options, logger logrus.FieldLogger) {
	h := opts.Controller
	authed := middleware.WithPrincipal

	r.GET("/", h.Health())
	r.GET("/ping", h.Ping())
	if opts.Metrics != nil {
		r.GET("/metrics", opts.Metrics.Handler())
	}

	login := []gin.HandlerFunc{h.Login()}
	if opts.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{ratelimit.Middleware(opts.LoginLimiter, opts.Metrics, logger)}, login...)
	}
	r.POST("/login", login...)
	r.GET("/refresh-token", h.Refresh())
	r.POST("/logout", h.Logout())
	r.POST("/register-admin", h.RegisterAdmin())
	r.POST("/change-password", authed(h.ChangePassword()))
	r.POST("/upload", authed(h.Upload()))

	admin := r.Group("/admin")
	{
		admin.POST("/register-user", authed(h.RegisterUser()))
		admin.GET("/getusers", h.GetUsers())
		admin.GET("/getuser", h.GetUser())
		admin.PUT("/update-user", h.UpdateUser())
		admin.DELETE("/delete-user", h.DeleteUser())

		admin.POST("/create-district", h.CreateDistrict())
		admin.GET("/districts", h.ListDistricts())
		admin.GET("/district", h.GetDistrict())
		admin.PUT("/district", h.UpdateDistrict())
		admin.DELETE("/district", h.DeleteDistrict())

		admin.POST("/create-subdistrict", h.CreateSubDistrict())
		admin.GET("/subdistricts", h.ListSubDistricts())
		admin.GET("/subdistrict", h.GetSubDistrict())
		admin.PUT("/subdistrict", h.UpdateSubDistrict())
		admin.DELETE("/subdistrict", h.DeleteSubDistrict())

		admin.POST("/create-village", h.CreateVillage())
		admin.GET("/villages", h.ListVillages())
		admin.GET("/village", h.GetVillage())
		admin.PUT("/village", h.UpdateVillage())
		admin.DELETE("/village", h.DeleteVillage())

		admin.PATCH("/farmer-status", h.FarmerStatus())

		list := admin.Group("/list")
		for _, kind := range models.ListKinds {
			k := string(kind)
			list.POST("/create-"+k, h.CreateListItem(kind))
			list.GET("/get-"+k, h.ListListItems(kind))
			list.GET("/get-"+k+"-byid", h.GetListItem(kind))
			list.PUT("/update-"+k, h.UpdateListItem(kind))
			list.DELETE("/delete-"+k, h.DeleteListItem(kind))
		}
	}

	user := r.Group("/user")
	{
		user.GET("/districts", h.ListDistricts())
		user.GET("/get-village", authed(h.UserVillages()))
		user.POST("/create-farmer", authed(h.CreateFarmer()))
		user.PUT("/update-farmer", authed(h.UpdateFarmer()))
	}

	public := r.Group("/public")
	{
		public.GET("/get-farmer", authed(h.ListFarmers()))
		public.GET("/get-farmer-available-for-group", authed(h.AvailableFarmers()))
		public.GET("/farmer-detail", authed(h.FarmerDetail()))

		public.POST("/create-group", authed(h.CreateGroup()))
		public.GET("/get-groupbyid", authed(h.GetGroup()))
		public.GET("/get-group", authed(h.ListGroups()))
		public.PUT("/update-group", authed(h.UpdateGroup()))
		public.DELETE("/delete-group", authed(h.DeleteGroup()))
		public.PATCH("/change-groupt-status", authed(h.ChangeGroupStatus()))

		public.GET("/dashboard", authed(h.Dashboard()))
	}

	r.NoRoute(func(c *gin.Context) {
		utils.Fail(c, apperror.NotFound(fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path)))
	})
}
