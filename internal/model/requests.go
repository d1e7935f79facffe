package model

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

// IDRequest carries a positive id from the ":id" path segment.
type IDRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

func (r *IDRequest) Validate() error {
	return validate.Struct(r)
}

type CreateBandRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Hometown string `json:"hometown" validate:"required,max=255"`
}

func (r *CreateBandRequest) Validate() error {
	return validate.Struct(r)
}

type CreateVenueRequest struct {
	Title string `json:"title" validate:"required,max=255"`
	City  string `json:"city" validate:"required,max=255"`
}

func (r *CreateVenueRequest) Validate() error {
	return validate.Struct(r)
}

// PlayInVenueRequest books the band in the path at a venue on a date.
type PlayInVenueRequest struct {
	BandID  int64  `param:"id" validate:"required,min=1"`
	VenueID int64  `json:"venue_id" validate:"required,min=1"`
	Date    string `json:"date" validate:"required"`
}

func (r *PlayInVenueRequest) Validate() error {
	return validate.Struct(r)
}

// VenueConcertsRequest lists a venue's concerts, or with ?date= only the
// concert on that day.
type VenueConcertsRequest struct {
	VenueID int64  `param:"id" validate:"required,min=1"`
	Date    string `query:"date"`
}

func (r *VenueConcertsRequest) Validate() error {
	return validate.Struct(r)
}
