package settings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"storefront-be/internal/config"
)

const billingKey = "billing"

// BillingProfile is the issuing company's identity printed on invoices.
type BillingProfile struct {
	Logo      string    `json:"logo"`
	Name      string    `json:"name"`
	GSTNumber string    `json:"gstNumber"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Website   string    `json:"website"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func FromCompanyProfile(p config.CompanyProfile) BillingProfile {
	return BillingProfile{
		Logo:      p.Logo,
		Name:      p.Name,
		GSTNumber: p.GSTNumber,
		Address:   p.Address,
		Phone:     p.Phone,
		Email:     p.Email,
		Website:   p.Website,
	}
}

// profileDoc is the stored jsonb value. UpdatedAt lives in its own column.
type profileDoc struct {
	Logo      string `json:"logo"`
	Name      string `json:"name"`
	GSTNumber string `json:"gstNumber"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Website   string `json:"website"`
}

func (d profileDoc) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *profileDoc) Scan(src any) error {
	switch s := src.(type) {
	case []byte:
		return json.Unmarshal(s, d)
	case string:
		return json.Unmarshal([]byte(s), d)
	default:
		return fmt.Errorf("unsupported settings source %T", src)
	}
}

func toDoc(p BillingProfile) profileDoc {
	return profileDoc{
		Logo:      p.Logo,
		Name:      p.Name,
		GSTNumber: p.GSTNumber,
		Address:   p.Address,
		Phone:     p.Phone,
		Email:     p.Email,
		Website:   p.Website,
	}
}

func (d profileDoc) profile(updatedAt time.Time) *BillingProfile {
	return &BillingProfile{
		Logo:      d.Logo,
		Name:      d.Name,
		GSTNumber: d.GSTNumber,
		Address:   d.Address,
		Phone:     d.Phone,
		Email:     d.Email,
		Website:   d.Website,
		UpdatedAt: updatedAt,
	}
}
