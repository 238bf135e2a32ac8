package model

import (
	"strings"
	"time"

	"github.com/doodlesbykumbi/iam-in-go/pkg/errdefs"
)

//go:generate go run github.com/dmarkham/enumer -type TenantType -trimprefix TenantType -transform upper -json -text -sql -output tenant_type.gen.go

// TenantType discriminates the tenant variants.
type TenantType int

const (
	TenantTypeRoot TenantType = iota + 1
	TenantTypeClient
	TenantTypeSub
)

// ClientInfo is the contact metadata a CLIENT tenant must carry in full.
type ClientInfo struct {
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode"`
	City        string `json:"city"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// Missing returns the names of blank fields.
func (c ClientInfo) Missing() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"clientAddress", c.Address},
		{"clientZipCode", c.ZipCode},
		{"clientCity", c.City},
		{"clientCountry", c.Country},
		{"clientPhoneNumber", c.PhoneNumber},
		{"clientEmail", c.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Tenant is an organisational unit. There is a single ROOT tenant, CLIENT
// tenants hang below it and SUB tenants below a client.
type Tenant struct {
	ID                *int64     `gorm:"column:id;primaryKey" json:"id"`
	Name              string     `gorm:"column:name" json:"name"`
	TenantKey         string     `gorm:"column:tenant_key" json:"tenantKey"`
	TenantType        TenantType `gorm:"column:tenant_type" json:"tenantType"`
	TenantStart       *time.Time `gorm:"column:tenant_start" json:"tenantStart"`
	TenantEnd         *time.Time `gorm:"column:tenant_end" json:"tenantEnd"`
	ClientAddress     *string    `gorm:"column:client_address" json:"clientAddress"`
	ClientZipCode     *string    `gorm:"column:client_zip_code" json:"clientZipCode"`
	ClientCity        *string    `gorm:"column:client_city" json:"clientCity"`
	ClientCountry     *string    `gorm:"column:client_country" json:"clientCountry"`
	ClientPhoneNumber *string    `gorm:"column:client_phone_number" json:"clientPhoneNumber"`
	ClientEmail       *string    `gorm:"column:client_email" json:"clientEmail"`
	ParentID          *int64     `gorm:"column:parent_id" json:"parentId"`
	ClientID          *int64     `gorm:"column:client_id" json:"clientId"`
	Audit
}

func (Tenant) TableName() string {
	return "tenants"
}

// NewRootTenant returns the ROOT variant.
func NewRootTenant(name, key string) *Tenant {
	return &Tenant{Name: name, TenantKey: key, TenantType: TenantTypeRoot}
}

// NewClientTenant returns the CLIENT variant. Partial client metadata is
// rejected.
func NewClientTenant(name, key string, parentID int64, info ClientInfo) (*Tenant, error) {
	if missing := info.Missing(); len(missing) > 0 {
		return nil, errdefs.InvalidArgument("client tenant %q is missing %s", name, strings.Join(missing, ", "))
	}
	t := &Tenant{
		Name:       name,
		TenantKey:  key,
		TenantType: TenantTypeClient,
		ParentID:   &parentID,
	}
	t.SetClientInfo(info)
	return t, nil
}

// NewSubTenant returns the SUB variant.
func NewSubTenant(name, key string, parentID, clientID int64) *Tenant {
	return &Tenant{
		Name:       name,
		TenantKey:  key,
		TenantType: TenantTypeSub,
		ParentID:   &parentID,
		ClientID:   &clientID,
	}
}

// ClientInfo collects the client columns.
func (t *Tenant) ClientInfo() ClientInfo {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return ClientInfo{
		Address:     deref(t.ClientAddress),
		ZipCode:     deref(t.ClientZipCode),
		City:        deref(t.ClientCity),
		Country:     deref(t.ClientCountry),
		PhoneNumber: deref(t.ClientPhoneNumber),
		Email:       deref(t.ClientEmail),
	}
}

// SetClientInfo copies info into the client columns.
func (t *Tenant) SetClientInfo(info ClientInfo) {
	t.ClientAddress = Ptr(info.Address)
	t.ClientZipCode = Ptr(info.ZipCode)
	t.ClientCity = Ptr(info.City)
	t.ClientCountry = Ptr(info.Country)
	t.ClientPhoneNumber = Ptr(info.PhoneNumber)
	t.ClientEmail = Ptr(info.Email)
}

// Validate checks the fields required by the tenant's variant. Checks that
// need other rows (parent existence, single root) belong to the store.
func (t *Tenant) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errdefs.InvalidArgument("tenant name is required")
	}
	if strings.TrimSpace(t.TenantKey) == "" {
		return errdefs.InvalidArgument("tenant key is required")
	}
	if t.TenantStart != nil && t.TenantEnd != nil && !t.TenantEnd.After(*t.TenantStart) {
		return errdefs.InvalidArgument("tenant end date must be after its start date")
	}

	switch t.TenantType {
	case TenantTypeRoot:
		if t.ParentID != nil {
			return errdefs.InvalidArgument("root tenant cannot have a parent")
		}
		if t.ClientID != nil {
			return errdefs.InvalidArgument("root tenant cannot have a client")
		}
	case TenantTypeClient:
		if t.ParentID == nil {
			return errdefs.InvalidArgument("client tenant %q requires a parent", t.Name)
		}
		if missing := t.ClientInfo().Missing(); len(missing) > 0 {
			return errdefs.InvalidArgument("client tenant %q is missing %s", t.Name, strings.Join(missing, ", "))
		}
	case TenantTypeSub:
		if t.ParentID == nil {
			return errdefs.InvalidArgument("sub tenant %q requires a parent", t.Name)
		}
		if t.ClientID == nil {
			return errdefs.InvalidArgument("sub tenant %q requires a client", t.Name)
		}
	default:
		return errdefs.InvalidArgument("tenant type is required")
	}
	return nil
}
