package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ParameterDef describes one measured parameter of a diagnostic test.
// NormalRange is a display expression understood by the report issuer:
// "lo-hi", "<N" or ">N".
type ParameterDef struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	NormalRange string `json:"normal_range"`
	ShortCode   string `json:"short_code"`
}

type Test struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Code        string         `gorm:"column:code;type:varchar(30);uniqueIndex;not null"`
	Name        string         `gorm:"column:name;type:varchar(200);not null"`
	Category    string         `gorm:"column:category;type:varchar(100);index"`
	Price       float64        `gorm:"column:price;not null"`
	Duration    string         `gorm:"column:duration;type:varchar(50)"`
	Description string         `gorm:"column:description;type:text"`
	Parameters  []ParameterDef `gorm:"column:parameters;serializer:json"`
}

func (Test) TableName() string {
	return "portal.tests"
}

type CreateTestCommand struct {
	Code        string
	Name        string
	Category    string
	Price       float64
	Duration    string
	Description string
	Parameters  []ParameterDef
}

type UpdateTestCommand struct {
	Name        *string
	Category    *string
	Price       *float64
	Duration    *string
	Description *string
	Parameters  *[]ParameterDef
}
