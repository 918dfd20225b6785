package model

import "time"

// AppointmentStatus is persisted with the literal values the operator panel
// already speaks; do not translate them.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDIENTE"
	StatusArrived   AppointmentStatus = "LLEGO"
	StatusUnloading AppointmentStatus = "DESCARGANDO"
	StatusFinished  AppointmentStatus = "FINALIZADO"
	StatusDeparted  AppointmentStatus = "RETIRADO"
)

// Valid reports whether s is one of the five known lifecycle statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusArrived, StatusUnloading, StatusFinished, StatusDeparted:
		return true
	}
	return false
}

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERADOR"
	RoleTenant   Role = "LOCATARIO"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleTenant:
		return true
	}
	return false
}

// CanConfirmAppointments reports whether the role may complete a
// confirmation-pending appointment.
func (r Role) CanConfirmAppointments() bool {
	return r == RoleAdmin || r == RoleOperator
}

type User struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Username string `gorm:"type:varchar(128);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:varchar(128);not null" json:"-"`
	Role     Role   `gorm:"type:varchar(32);not null" json:"role"`
	Active   bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tenant is a facility occupant (locatario). Name holds the trade name,
// Company the registered legal name.
type Tenant struct {
	ID      uint64  `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"type:varchar(255);not null" json:"name"`
	Company string  `gorm:"type:varchar(255)" json:"company"`
	TaxID   string  `gorm:"type:varchar(11);uniqueIndex;not null" json:"ruc"`
	UserID  *uint64 `gorm:"index" json:"user_id,omitempty"`
	User    *User   `json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Carrier is a trucking company (proveedor) fulfilling deliveries.
type Carrier struct {
	ID      uint64          `gorm:"primaryKey" json:"id"`
	Name    string          `gorm:"type:varchar(255);not null" json:"name"`
	TaxID   string          `gorm:"type:varchar(11);uniqueIndex;not null" json:"ruc"`
	Tenants []CarrierTenant `json:"tenants,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CarrierTenant associates a carrier with a tenant it delivers for.
type CarrierTenant struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	CarrierID uint64  `gorm:"uniqueIndex:idx_carrier_tenant;not null" json:"carrier_id"`
	TenantID  uint64  `gorm:"uniqueIndex:idx_carrier_tenant;not null" json:"tenant_id"`
	Tenant    *Tenant `json:"tenant,omitempty"`
}

// Appointment is a scheduled dock visit. Vehicle and driver fields stay empty
// while RequiresConfirmation is set; an operator fills them in later.
type Appointment struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ScheduledAt time.Time `gorm:"index;not null" json:"scheduled_at"`

	TenantID  uint64   `gorm:"index;not null" json:"tenant_id"`
	Tenant    *Tenant  `json:"tenant,omitempty"`
	CarrierID *uint64  `gorm:"index" json:"carrier_id,omitempty"`
	Carrier   *Carrier `json:"carrier,omitempty"`

	Plate            string   `gorm:"type:varchar(6)" json:"plate,omitempty"`
	DriverName       string   `gorm:"type:varchar(255)" json:"driver_name,omitempty"`
	DriverNationalID string   `gorm:"type:varchar(8)" json:"driver_national_id,omitempty"`
	Companions       StringList `gorm:"type:jsonb" json:"companions,omitempty"`

	Description          string `gorm:"type:text" json:"description,omitempty"`
	AcceptedTerms        bool   `gorm:"not null" json:"accepted_terms"`
	RequiresConfirmation bool   `gorm:"not null" json:"requires_confirmation"`

	Status AppointmentStatus `gorm:"type:varchar(32);index;not null;default:'PENDIENTE'" json:"status"`

	ArrivedAt          *time.Time `json:"arrived_at,omitempty"`
	UnloadingStartedAt *time.Time `json:"unloading_started_at,omitempty"`
	FinishedAt         *time.Time `json:"finished_at,omitempty"`
	DepartedAt         *time.Time `json:"departed_at,omitempty"`

	CreatedByUserID uint64 `gorm:"index;not null" json:"created_by_user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Incident is a 5W2H report filed against an appointment. It never mutates
// the appointment itself.
type Incident struct {
	ID            uint64       `gorm:"primaryKey" json:"id"`
	AppointmentID uint64       `gorm:"index;not null" json:"appointment_id"`
	Appointment   *Appointment `json:"appointment,omitempty"`
	UserID        uint64       `gorm:"index;not null" json:"user_id"`
	User          *User        `json:"user,omitempty"`

	What    string `gorm:"type:text;not null" json:"what"`
	Why     string `gorm:"type:text;not null" json:"why"`
	Where   string `gorm:"type:text;not null" json:"where"`
	Who     string `gorm:"type:text;not null" json:"who"`
	How     string `gorm:"type:text;not null" json:"how"`
	HowMuch string `gorm:"type:varchar(64)" json:"how_much,omitempty"`

	OccurredAt time.Time      `gorm:"index;not null" json:"occurred_at"`
	Files      []IncidentFile `json:"files,omitempty"`
}

// IncidentFile is an attachment descriptor; the blob lives on disk under the
// uploads dir.
type IncidentFile struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	IncidentID  uint64 `gorm:"index;not null" json:"incident_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	URL         string `gorm:"type:varchar(512);not null" json:"url"`
	ContentType string `gorm:"type:varchar(128)" json:"content_type,omitempty"`
}
