package router

import (
	"net/http"
	"strings"

	"github.com/andeslogistics/dock-scheduler/api"
	"github.com/andeslogistics/dock-scheduler/internal/auth"
	"github.com/andeslogistics/dock-scheduler/internal/handler"
	"github.com/andeslogistics/dock-scheduler/internal/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups everything the route table needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	Appointments *handler.AppointmentHandler
	Carriers     *handler.CarrierHandler
	Tenants      *handler.TenantHandler
	Incidents    *handler.IncidentHandler
	Lookups      *handler.LookupHandler
}

func New(h Handlers, tokens *auth.Manager, uploadDir string) http.Handler {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	r.Static("/uploads", uploadDir)

	r.POST("/auth/login", h.Auth.Login)

	authed := r.Group("/", middleware.RequireAuth(tokens))
	{
		authed.POST("/auth/register", h.Auth.Register)

		authed.POST("/citas", h.Appointments.Create)
		authed.GET("/citas", h.Appointments.List)
		authed.GET("/citas/mis-citas", h.Appointments.ListMine)
		authed.GET("/citas/cupo", h.Appointments.SlotAvailability)
		authed.PATCH("/citas/:id", h.Appointments.Advance)
		authed.PATCH("/citas/:id/confirmar", h.Appointments.Confirm)

		authed.GET("/proveedores", h.Carriers.List)
		authed.GET("/proveedores/mis-proveedores", h.Carriers.ListMine)
		authed.POST("/proveedores", h.Carriers.Create)
		authed.POST("/proveedores/para-locatario", h.Carriers.CreateForTenant)
		authed.PATCH("/proveedores/:id", h.Carriers.Update)
		authed.DELETE("/proveedores/:id", h.Carriers.Delete)

		authed.GET("/locadores", h.Tenants.List)
		authed.GET("/locadores/mi-locatario", h.Tenants.GetMine)
		authed.POST("/locadores", h.Tenants.Create)
		authed.PATCH("/locadores/:id", h.Tenants.Update)
		authed.DELETE("/locadores/:id", h.Tenants.Delete)

		authed.POST("/incidentes", h.Incidents.Create)
		authed.GET("/incidentes", h.Incidents.List)

		authed.GET("/consultas/dni/:dni", h.Lookups.DNI)
		authed.GET("/consultas/ruc/:ruc", h.Lookups.RUC)
	}

	return r
}
