package models

// Product is the catalog document stored in the products collection.
// ID is the primary key; Category is covered by a secondary, non-unique index.
type Product struct {
	ID          string   `json:"id" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Price       float64  `json:"price" bson:"price"`
	Image       string   `json:"image" bson:"image"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Category    string   `json:"category,omitempty" bson:"category,omitempty"`
	Colors      []string `json:"colors,omitempty" bson:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty" bson:"sizes,omitempty"`
	Available   bool     `json:"available" bson:"available"`
}
