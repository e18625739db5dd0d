package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/mercora/volt/pkg/utils/json"
)

// StringList stores a slice of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", src)
	}
}

// StringMap stores a string-to-string map as a JSON column.
type StringMap map[string]string

// Value implements driver.Valuer.
func (m StringMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (m *StringMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for StringMap: %T", src)
	}
}

// Product is a catalog entry. Prices are stored in cents.
type Product struct {
	ID               int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name             string     `json:"name" gorm:"type:varchar(255);not null"`
	Slug             string     `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	ShortDescription string     `json:"shortDescription" gorm:"type:varchar(1024)"`
	LongDescription  string     `json:"longDescription" gorm:"type:text"`
	Categories       StringList `json:"categories" gorm:"type:text"`
	Tags             StringList `json:"tags" gorm:"type:text"`
	UseCases         StringList `json:"useCases" gorm:"type:text"`
	Attributes       StringMap  `json:"attributes,omitempty" gorm:"type:text"`
	Price            int64      `json:"price" gorm:"not null"`
	SalePrice        *int64     `json:"salePrice,omitempty"`
	OnSale           bool       `json:"onSale" gorm:"index"`
	AINotes          string     `json:"-" gorm:"column:ai_notes;type:text"`
	Active           bool       `json:"active" gorm:"index"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// TableName maps Product to the products table.
func (Product) TableName() string {
	return "products"
}

// EffectivePrice returns the sale price when the product is on sale.
func (p *Product) EffectivePrice() int64 {
	if p.OnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// HasTag reports whether the product carries the given tag.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
