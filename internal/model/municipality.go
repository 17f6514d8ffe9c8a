package model

// Municipality is immutable reference data for one city of the directory
type Municipality struct {
	ID         string `json:"id" bson:"_id"` // slug, e.g. "campina-grande"
	Name       string `json:"name" bson:"name"`
	Region     string `json:"region" bson:"region"`
	Population int    `json:"population" bson:"population"`
}
