// Package model contains domain models passed between layers.
package model

// Country is a market a branch operates in.
type Country struct {
	ID   uint64 `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

// TableName maps Country to its table.
func (Country) TableName() string { return "countries" }

// Branch is a restaurant chain or brand.
type Branch struct {
	ID   uint64 `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

// TableName maps Branch to its table.
func (Branch) TableName() string { return "branches" }

// BranchLocation associates a branch with a country. Food items hang off a
// location, not off the branch directly.
type BranchLocation struct {
	ID        uint64 `gorm:"column:id;primaryKey" json:"id"`
	BranchID  uint64 `gorm:"column:branch_id" json:"branch_id"`
	CountryID uint64 `gorm:"column:country_id" json:"country_id"`
}

// TableName maps BranchLocation to its table.
func (BranchLocation) TableName() string { return "branch_locations" }

// Nutrients holds the per-serving nutrition facts. Every field is nullable
// and keeps whatever type the column or client supplied.
type Nutrients struct {
	Calories      Value `gorm:"column:calories" json:"calories"`
	TotalFat      Value `gorm:"column:total_fat" json:"total_fat"`
	SaturatedFat  Value `gorm:"column:saturated_fat" json:"saturated_fat"`
	TransFat      Value `gorm:"column:trans_fat" json:"trans_fat"`
	Cholesterol   Value `gorm:"column:cholesterol" json:"cholesterol"`
	Sodium        Value `gorm:"column:sodium" json:"sodium"`
	Carbohydrates Value `gorm:"column:carbohydrates" json:"carbohydrates"`
	Sugars        Value `gorm:"column:sugars" json:"sugars"`
	Protein       Value `gorm:"column:protein" json:"protein"`
}

// NutritionFacts is the fixed projection returned when listing the items of a
// branch location: id, name, serving size and the nutrients.
type NutritionFacts struct {
	ID          uint64 `gorm:"column:id" json:"id"`
	Name        Value  `gorm:"column:name" json:"name"`
	ServingSize Value  `gorm:"column:serving_size" json:"serving_size"`
	Nutrients   `gorm:"embedded"`
}

// FoodItem is a complete food_items row.
type FoodItem struct {
	ID               uint64 `gorm:"column:id;primaryKey" json:"id"`
	BranchLocationID uint64 `gorm:"column:branch_location_id" json:"branch_location_id"`
	Name             Value  `gorm:"column:name" json:"name"`
	ServingSize      Value  `gorm:"column:serving_size" json:"serving_size"`
	Nutrients        `gorm:"embedded"`
}

// TableName maps FoodItem to its table.
func (FoodItem) TableName() string { return "food_items" }

// NewFoodItem is the payload accepted when creating an item. Content fields
// take any JSON value; the store's constraints are the only gate.
type NewFoodItem struct {
	BranchLocationID uint64 `json:"branch_location_id"`
	Name             Value  `json:"name"`
	ServingSize      Value  `json:"serving_size"`
	Nutrients
}

// Row converts the payload into a row ready for insertion.
func (n NewFoodItem) Row() FoodItem {
	return FoodItem{
		BranchLocationID: n.BranchLocationID,
		Name:             n.Name,
		ServingSize:      n.ServingSize,
		Nutrients:        n.Nutrients,
	}
}
