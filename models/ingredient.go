package models

type Ingredient struct {
	ID              uint   `gorm:"column:id;primary_key" json:"id"`
	Name            string `gorm:"column:name;size:128;not null;unique_index:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"column:measurement_unit;size:64;not null;unique_index:idx_ingredient_name_unit" json:"measurement_unit"`
}

// TableName sets the insert table name for this struct type
func (i *Ingredient) TableName() string {
	return "ingredients"
}
