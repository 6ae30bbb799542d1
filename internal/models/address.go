package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Address struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	FirstName string             `json:"firstName" bson:"firstName"`
	LastName  string             `json:"lastName" bson:"lastName"`
	Email     string             `json:"email" bson:"email"`
	Street    string             `json:"street" bson:"street"`
	City      string             `json:"city" bson:"city"`
	State     string             `json:"state" bson:"state"`
	Zipcode   string             `json:"zipcode" bson:"zipcode"`
	Country   string             `json:"country" bson:"country"`
	Phone     string             `json:"phone" bson:"phone"`
}

// Line renders the single-line form used by the admin console.
func (a *Address) Line() string {
	return a.Street + ", " + a.City + ", " + a.State + ", " + a.Country + ", " + a.Zipcode
}
