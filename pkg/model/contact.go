package model

import "fmt"

// RawContact is one input record exactly as read. Row is its 1-based
// position among the records of its source.
type RawContact struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
	DOB   string `json:"dob"`
	Row   int    `json:"row,omitempty"`
}

// Key identifies the record in reports: the id, or "#row<N>" when blank.
func (r RawContact) Key() string {
	return recordKey(r.ID, r.Row)
}

// Contact is a record whose phone and date of birth were both normalized.
type Contact struct {
	ID    string `json:"id" bson:"contact_id"`
	Phone string `json:"phone" bson:"phone" validate:"required,e164"`
	DOB   string `json:"dob" bson:"dob" validate:"required,datetime=2006-01-02"`
	Row   int    `json:"-" bson:"row" validate:"min=0"`
}

func (c Contact) Key() string {
	return recordKey(c.ID, c.Row)
}

// Rejection is a record that was skipped, with every reason joined by "; ".
type Rejection struct {
	ID     string `json:"id" bson:"contact_id" validate:"required"`
	Row    int    `json:"row" bson:"row" validate:"min=0"`
	Reason string `json:"reason" bson:"reason" validate:"required"`
}

func recordKey(id string, row int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("#row%d", row)
}
