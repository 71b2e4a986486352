package handler

import "time"

type discoverPlansRequest struct {
	Radius float64 `query:"radius" validate:"required,gt=0"`
}

type coordinatesRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

type createPlanRequest struct {
	Description string              `json:"description" validate:"required"`
	Type        string              `json:"type"        validate:"required,oneof=beach concert educational movie road_trip shopping"`
	Location    *coordinatesRequest `json:"location"    validate:"required"`
	Max         int                 `json:"max"         validate:"gte=0"`
	Time        *time.Time          `json:"time"        validate:"required"`
	Expires     *time.Time          `json:"expires,omitempty"`
}

type addCommentRequest struct {
	Body   string `json:"body"   validate:"required"`
	Pinned bool   `json:"pinned"`
}

type rateUserRequest struct {
	Score int    `json:"score" validate:"required,min=1,max=5"`
	Plan  string `json:"plan"  validate:"required"`
	User  string `json:"user"  validate:"required"`
}
