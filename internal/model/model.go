// Package model holds the rows stored in the bands, venues and concerts tables.
package model

// Band is a performing group.
type Band struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Hometown string `db:"hometown" json:"hometown"`
}

// Venue is a place where concerts happen.
type Venue struct {
	ID    int64  `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
	City  string `db:"city" json:"city"`
}

// Concert links one band, one venue and a date. Date is free text.
type Concert struct {
	ID      int64  `db:"id" json:"id"`
	BandID  int64  `db:"band_id" json:"band_id"`
	VenueID int64  `db:"venue_id" json:"venue_id"`
	Date    string `db:"date" json:"date"`
}

// Performance is a band name with the number of concerts counted for it.
type Performance struct {
	Name  string `db:"name" json:"name"`
	Count int64  `db:"performance_count" json:"performance_count"`
}
