package models

// Category repräsentiert eine Themen-Gruppierung für Artikel.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"` // z.B. "Technology"
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Category) TableName() string {
	return "categories"
}
