package model

// Participant is a user linked to a lesson (a student or a teacher).
type Participant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Lesson is one scheduled session as the backend serves it. Date and Time
// are kept in wire form ("2006-01-02" and "15:04"); parsing happens in the
// calendar package so that malformed values degrade instead of failing the
// whole list.
type Lesson struct {
	ID       int64         `json:"id"`
	Date     string        `json:"date"`
	Time     string        `json:"time"`
	Location string        `json:"location"`
	Price    int64         `json:"price"` // minor currency units
	Students []Participant `json:"students"`
	Teachers []Participant `json:"teachers"`
}
